package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/dto"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/mailer"
)

// 内置邮件模板 ID
const (
	TemplateRequestCreated  = "request_created"
	TemplateRequestApproved = "request_approved"
	TemplateRequestRejected = "request_rejected"
)

var ErrNoRecipients = errors.New("没有符合条件的收件人")

// NotifyService 站内通知与邮件
//
// 设计说明：
//   - 站内通知同步写入 store，调用方可立即读到
//   - 邮件在后台 goroutine 发送，失败只记录日志；Wait 用于优雅退出与测试
//   - 事务邮件仅在 SMTP 启用且 feature.transactional_mail 打开时发送
type NotifyService interface {
	OnRequestCreated(ctx context.Context, actorID string, r domain.LeaveRequest)
	OnRequestStatusChanged(ctx context.Context, actorID string, r domain.LeaveRequest)
	Broadcast(ctx context.Context, req *dto.BroadcastRequest) (*dto.BroadcastResponse, error)
	AnnounceNews(ctx context.Context, now time.Time) (int, error)
	BirthdayGreetings(ctx context.Context, today time.Time) (int, error)
	SendTestMail(ctx context.Context, req *dto.TestMailRequest) *dto.TestMailResponse
	Wait()
}

type notifyService struct {
	cfg    *config.Config
	store  *store.Store
	sender mailer.Sender
	layout *mailer.Layout
	logger *zap.Logger

	wg sync.WaitGroup
}

// NewNotifyService 创建 NotifyService 实例
func NewNotifyService(cfg *config.Config, st *store.Store, sender mailer.Sender, logger *zap.Logger) NotifyService {
	return &notifyService{
		cfg:    cfg,
		store:  st,
		sender: sender,
		layout: mailer.NewLayout(cfg.Mail.PortalName),
		logger: logger.Named("notify"),
	}
}

// ═══════════════════════════════════════════════════════════
// 申请事件
// ═══════════════════════════════════════════════════════════

// OnRequestCreated 通知审批人；代员工创建时同时通知员工本人
func (s *notifyService) OnRequestCreated(ctx context.Context, actorID string, r domain.LeaveRequest) {
	owner, ok := s.store.User(r.UserID)
	if !ok {
		return
	}

	var targets []string
	if actorID != r.UserID {
		targets = append(targets, r.UserID)
	}
	if r.Status == domain.StatusPending {
		for _, u := range s.approvers(owner) {
			if u.ID != actorID {
				targets = append(targets, u.ID)
			}
		}
	}
	msg := fmt.Sprintf("Nueva solicitud de %s: %s (%s)", owner.Name, r.Label, formatDates(r))
	s.notifyUsers(ctx, targets, msg)

	s.sendTemplate(TemplateRequestCreated, owner, r)
}

// OnRequestStatusChanged 通知员工审批结果
func (s *notifyService) OnRequestStatusChanged(ctx context.Context, actorID string, r domain.LeaveRequest) {
	owner, ok := s.store.User(r.UserID)
	if !ok {
		return
	}

	var (
		verb string
		tpl  string
	)
	switch r.Status {
	case domain.StatusApproved:
		verb, tpl = "aprobada", TemplateRequestApproved
	case domain.StatusRejected:
		verb, tpl = "rechazada", TemplateRequestRejected
	default:
		return
	}

	msg := fmt.Sprintf("Tu solicitud de %s (%s) ha sido %s", r.Label, formatDates(r), verb)
	if r.AdminComment != "" {
		msg += ": " + r.AdminComment
	}
	if actorID != r.UserID {
		s.notifyUsers(ctx, []string{r.UserID}, msg)
	}

	s.sendTemplate(tpl, owner, r)
}

// ═══════════════════════════════════════════════════════════
// 群发、公告、生日
// ═══════════════════════════════════════════════════════════

// Broadcast 群发站内消息，可选同时发送邮件
func (s *notifyService) Broadcast(ctx context.Context, req *dto.BroadcastRequest) (*dto.BroadcastResponse, error) {
	var ids []string
	switch {
	case len(req.UserIDs) > 0:
		ids = req.UserIDs
	case req.All:
		for _, u := range s.store.Users() {
			ids = append(ids, u.ID)
		}
	case req.DepartmentID != "":
		for _, u := range s.store.UsersInDepartment(req.DepartmentID) {
			ids = append(ids, u.ID)
		}
	}
	if len(ids) == 0 {
		return nil, ErrNoRecipients
	}

	created, err := s.store.BroadcastNotification(ctx, ids, req.Message)
	if err != nil {
		return nil, err
	}
	resp := &dto.BroadcastResponse{Notified: len(created)}

	if !req.SendEmail {
		return resp, nil
	}
	smtp := s.store.SmtpSettings()
	if !smtp.Enabled {
		return resp, nil
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = s.cfg.Mail.PortalName
	}
	for _, n := range created {
		u, ok := s.store.User(n.UserID)
		if !ok || u.Email == "" {
			continue
		}
		s.sendAsync(smtp, []string{u.Email}, subject, req.Message)
		resp.Emailed++
	}
	resp.MailSent = resp.Emailed > 0
	return resp, nil
}

// AnnounceNews 对已到发布时间且未公告的新闻发送全员通知
func (s *notifyService) AnnounceNews(ctx context.Context, now time.Time) (int, error) {
	due := s.store.DueAnnouncements(now)
	if len(due) == 0 {
		return 0, nil
	}

	users := s.store.Users()
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	announced := make([]string, 0, len(due))
	for _, n := range due {
		if len(ids) > 0 {
			if _, err := s.store.BroadcastNotification(ctx, ids, "Nueva noticia: "+n.Title); err != nil {
				return len(announced), err
			}
		}
		announced = append(announced, n.ID)
	}
	if err := s.store.MarkNewsAnnounced(ctx, announced); err != nil {
		return 0, err
	}
	s.logger.Info("新闻公告已发送", zap.Int("count", len(announced)))
	return len(announced), nil
}

// BirthdayGreetings 给当天生日的员工发送祝福
func (s *notifyService) BirthdayGreetings(ctx context.Context, today time.Time) (int, error) {
	monthDay := today.Format("01-02")
	sent := 0
	for _, u := range s.store.Users() {
		if len(u.Birthdate) != len("2006-01-02") || u.Birthdate[5:] != monthDay {
			continue
		}
		if _, err := s.store.CreateNotification(ctx, u.ID, fmt.Sprintf("¡Feliz cumpleaños, %s!", u.Name)); err != nil {
			return sent, err
		}
		sent++
	}
	if sent > 0 {
		s.logger.Info("生日祝福已发送", zap.Int("count", sent))
	}
	return sent, nil
}

// ═══════════════════════════════════════════════════════════
// 测试发送
// ═══════════════════════════════════════════════════════════

// SendTestMail 使用请求中的 SMTP 参数同步发送，错误以 {success:false,error} 返回
func (s *notifyService) SendTestMail(ctx context.Context, req *dto.TestMailRequest) *dto.TestMailResponse {
	cfg := mailer.SMTPConfig{
		Host:     req.Config.Host,
		Port:     req.Config.Port,
		User:     req.Config.User,
		Password: req.Config.Password,
	}
	msg := mailer.Message{To: []string{req.To}, Subject: req.Subject, Text: req.Message, HTML: req.HTML}
	if msg.HTML == "" {
		if html, err := s.layout.Render(req.Subject, req.Message, ""); err == nil {
			msg.HTML = html
		}
	}
	if err := s.sender.Send(ctx, cfg, msg); err != nil {
		s.logger.Warn("测试邮件发送失败", zap.String("host", cfg.Host), zap.Error(err))
		return &dto.TestMailResponse{Success: false, Error: err.Error()}
	}
	return &dto.TestMailResponse{Success: true}
}

func (s *notifyService) Wait() {
	s.wg.Wait()
}

// ── 辅助函数 ──

// approvers 员工所在部门的主管；部门无主管时为全部管理员
func (s *notifyService) approvers(owner domain.User) []domain.User {
	var out []domain.User
	if d, ok := s.store.Department(owner.DepartmentID); ok {
		for _, id := range d.SupervisorIDs {
			if u, ok := s.store.User(id); ok && u.ID != owner.ID {
				out = append(out, u)
			}
		}
	}
	if len(out) == 0 {
		for _, u := range s.store.UsersByRole(domain.RoleAdmin) {
			if u.ID != owner.ID {
				out = append(out, u)
			}
		}
	}
	return out
}

func (s *notifyService) notifyUsers(ctx context.Context, ids []string, msg string) {
	if len(ids) == 0 {
		return
	}
	if _, err := s.store.BroadcastNotification(ctx, ids, msg); err != nil {
		s.logger.Warn("站内通知写入失败", zap.Strings("user_ids", ids), zap.Error(err))
	}
}

// sendTemplate 按模板收件人类别组装并异步发送
func (s *notifyService) sendTemplate(templateID string, owner domain.User, r domain.LeaveRequest) {
	if !s.cfg.Feature.TransactionalMail {
		return
	}
	smtp := s.store.SmtpSettings()
	if !smtp.Enabled {
		return
	}
	tpl, ok := s.store.EmailTemplate(templateID)
	if !ok || !tpl.Recipients.Any() {
		return
	}

	supervisors := s.approvers(owner)
	names := make([]string, 0, len(supervisors))
	for _, u := range supervisors {
		names = append(names, u.Name)
	}
	values := map[string]string{
		mailer.PlaceholderEmployee:   owner.Name,
		mailer.PlaceholderType:       r.Label,
		mailer.PlaceholderDates:      formatDates(r),
		mailer.PlaceholderReason:     r.Reason,
		mailer.PlaceholderSupervisor: strings.Join(names, ", "),
		mailer.PlaceholderHours:      strconv.FormatFloat(owner.OvertimeHours, 'f', -1, 64),
		mailer.PlaceholderComment:    r.AdminComment,
	}

	seen := map[string]bool{}
	var to []string
	add := func(u domain.User) {
		if u.Email != "" && !seen[u.Email] {
			seen[u.Email] = true
			to = append(to, u.Email)
		}
	}
	if tpl.Recipients.Worker {
		add(owner)
	}
	if tpl.Recipients.Supervisor {
		if d, ok := s.store.Department(owner.DepartmentID); ok {
			for _, id := range d.SupervisorIDs {
				if u, ok := s.store.User(id); ok {
					add(u)
				}
			}
		}
	}
	if tpl.Recipients.Admin {
		for _, u := range s.store.UsersByRole(domain.RoleAdmin) {
			add(u)
		}
	}
	if len(to) == 0 {
		return
	}

	subject := mailer.Interpolate(tpl.Subject, values)
	body := mailer.Interpolate(tpl.Body, values)
	for _, addr := range to {
		s.sendAsync(smtp, []string{addr}, subject, body)
	}
}

func (s *notifyService) sendAsync(smtp domain.SmtpSettings, to []string, subject, text string) {
	cfg := mailer.SMTPConfig{Host: smtp.Host, Port: smtp.Port, User: smtp.User, Password: smtp.Password}
	msg := mailer.Message{To: to, Subject: subject, Text: text}
	if html, err := s.layout.Render(subject, text, s.cfg.Mail.PortalName); err == nil {
		msg.HTML = html
	} else {
		s.logger.Warn("渲染邮件布局失败，仅发送纯文本", zap.Error(err))
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timeout := s.cfg.Mail.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.sender.Send(ctx, cfg, msg); err != nil {
			s.logger.Warn("邮件发送失败", zap.Strings("to", to), zap.String("subject", subject), zap.Error(err))
		}
	}()
}

// formatDates 日期区间的显示文本
func formatDates(r domain.LeaveRequest) string {
	if r.EndDate == "" || r.EndDate == r.StartDate {
		return r.StartDate
	}
	return r.StartDate + " - " + r.EndDate
}
