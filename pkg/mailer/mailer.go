// Package mailer 负责邮件的 MIME 组装与 SMTP 投递。
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"
)

var (
	ErrNoRecipients  = errors.New("未指定收件人")
	ErrSMTPNotConfig = errors.New("SMTP 未配置")
)

// SMTPConfig SMTP 连接参数（来自 settings 表或测试发送请求）
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

// Message 待发送邮件；HTML 为空时仅发送纯文本
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Sender 邮件发送接口
type Sender interface {
	Send(ctx context.Context, cfg SMTPConfig, msg Message) error
}

// SMTPSender 基于 net/smtp 的发送实现
type SMTPSender struct {
	fromName string
	timeout  time.Duration
	logger   *zap.Logger
}

func NewSMTPSender(fromName string, timeout time.Duration, logger *zap.Logger) *SMTPSender {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &SMTPSender{fromName: fromName, timeout: timeout, logger: logger.Named("mailer")}
}

// Send 建立连接、认证并投递一封邮件
func (s *SMTPSender) Send(ctx context.Context, cfg SMTPConfig, msg Message) error {
	if cfg.Host == "" || cfg.Port == 0 {
		return ErrSMTPNotConfig
	}
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	from := cfg.User
	raw, err := BuildMIME(s.fromName, from, msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	client, err := s.dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if cfg.User != "" && cfg.Password != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)); err != nil {
				return fmt.Errorf("SMTP 认证失败: %w", err)
			}
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("设置发件人失败: %w", err)
	}
	for _, to := range msg.To {
		if err := client.Rcpt(to); err != nil {
			return fmt.Errorf("添加收件人 %s 失败: %w", to, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("开始写入邮件失败: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("写入邮件失败: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("提交邮件失败: %w", err)
	}

	s.logger.Info("邮件已发送",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return client.Quit()
}

// dial 465 端口使用隐式 TLS，其余端口在服务器支持时升级 STARTTLS
func (s *SMTPSender) dial(ctx context.Context, cfg SMTPConfig) (*smtp.Client, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	tlsCfg := &tls.Config{ServerName: cfg.Host}
	dialer := &net.Dialer{}

	var conn net.Conn
	var err error
	if cfg.Port == 465 {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsCfg}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("连接 SMTP 服务器 %s 失败: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建 SMTP 客户端失败: %w", err)
	}
	if cfg.Port != 465 {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(tlsCfg); err != nil {
				client.Close()
				return nil, fmt.Errorf("STARTTLS 失败: %w", err)
			}
		}
	}
	return client, nil
}

// BuildMIME 组装 multipart/alternative 邮件正文
func BuildMIME(fromName, fromAddr string, msg Message) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Name: fromName, Address: fromAddr}})

	to := make([]*mail.Address, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, &mail.Address{Address: strings.TrimSpace(addr)})
	}
	h.SetAddressList("To", to)
	h.SetSubject(msg.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("生成 Message-ID 失败: %w", err)
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("创建邮件失败: %w", err)
	}
	iw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("创建正文失败: %w", err)
	}

	if err := writePart(iw, "text/plain", msg.Text); err != nil {
		return nil, err
	}
	if msg.HTML != "" {
		if err := writePart(iw, "text/html", msg.HTML); err != nil {
			return nil, err
		}
	}

	if err := iw.Close(); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePart(iw *mail.InlineWriter, contentType, body string) error {
	var ph mail.InlineHeader
	ph.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	w, err := iw.CreatePart(ph)
	if err != nil {
		return fmt.Errorf("创建 %s 部分失败: %w", contentType, err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return err
	}
	return w.Close()
}
