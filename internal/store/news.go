package store

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/domain"
)

// NewsInput 公告内容；PublishAt 为空表示立即发布
type NewsInput struct {
	Title     string
	Content   string
	PublishAt *time.Time
	Pinned    bool
}

// News now 时刻已发布的公告，置顶在前，其余按发布时间倒序
func (s *Store) News(now time.Time) []domain.NewsPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.NewsPost{}
	for _, n := range s.data.news {
		if n.Published(now) {
			out = append(out, n)
		}
	}
	sortNews(out)
	return out
}

// AllNews 含定时未发布的全部公告（管理视图）
func (s *Store) AllNews() []domain.NewsPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]domain.NewsPost{}, s.data.news...)
	sortNews(out)
	return out
}

// NewsPost 按 ID 查找
func (s *Store) NewsPost(id string) (domain.NewsPost, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.data.news {
		if n.ID == id {
			return n, true
		}
	}
	return domain.NewsPost{}, false
}

// DueAnnouncements 已到发布时间但尚未通知员工的公告
func (s *Store) DueAnnouncements(now time.Time) []domain.NewsPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.NewsPost
	for _, n := range s.data.news {
		if !n.Announced && n.Published(now) {
			out = append(out, n)
		}
	}
	return out
}

// CreateNews 发布公告
func (s *Store) CreateNews(ctx context.Context, authorID string, in NewsInput) (domain.NewsPost, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.User(authorID); !ok {
		return domain.NewsPost{}, ErrForbidden
	}
	n := domain.NewsPost{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		CreatedAt: s.now(),
	}
	if err := applyNewsInput(&n, in); err != nil {
		return domain.NewsPost{}, err
	}
	row := newsRow(n)
	if err := s.repo.News.Create(ctx, &row); err != nil {
		return domain.NewsPost{}, s.writeFailed("CreateNews", EntityNews, err)
	}

	s.mu.Lock()
	s.data.news = append(s.data.news, n)
	s.mu.Unlock()

	s.notify(EntityNews, ActionCreated, n.ID, "")
	return n, nil
}

// UpdateNews 修改公告；推迟发布时间会重新触发发布通知
func (s *Store) UpdateNews(ctx context.Context, id string, in NewsInput) (domain.NewsPost, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, ok := s.NewsPost(id)
	if !ok {
		return domain.NewsPost{}, ErrNotFound
	}
	if err := applyNewsInput(&n, in); err != nil {
		return domain.NewsPost{}, err
	}
	if !n.Published(s.now()) {
		n.Announced = false
	}
	row := newsRow(n)
	if err := s.repo.News.Update(ctx, &row); err != nil {
		return domain.NewsPost{}, s.writeFailed("UpdateNews", EntityNews, err)
	}

	s.mu.Lock()
	for i := range s.data.news {
		if s.data.news[i].ID == id {
			s.data.news[i] = n
		}
	}
	s.mu.Unlock()

	s.notify(EntityNews, ActionUpdated, id, "")
	return n, nil
}

// DeleteNews 删除公告
func (s *Store) DeleteNews(ctx context.Context, id string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, ok := s.NewsPost(id); !ok {
		return ErrNotFound
	}
	if err := s.repo.News.Delete(ctx, id); err != nil {
		return s.writeFailed("DeleteNews", EntityNews, err)
	}

	s.mu.Lock()
	s.data.news = removeWhere(s.data.news, func(n domain.NewsPost) bool { return n.ID == id })
	s.mu.Unlock()

	s.notify(EntityNews, ActionDeleted, id, "")
	return nil
}

// MarkNewsAnnounced 记录公告已通知员工
func (s *Store) MarkNewsAnnounced(ctx context.Context, ids []string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}
	if err := s.repo.News.MarkAnnounced(ctx, ids); err != nil {
		return s.writeFailed("MarkNewsAnnounced", EntityNews, err)
	}

	s.mu.Lock()
	for i := range s.data.news {
		if containsString(ids, s.data.news[i].ID) {
			s.data.news[i].Announced = true
		}
	}
	s.mu.Unlock()
	return nil
}

func applyNewsInput(n *domain.NewsPost, in NewsInput) error {
	n.Title = strings.TrimSpace(in.Title)
	n.Content = strings.TrimSpace(in.Content)
	n.Pinned = in.Pinned
	n.PublishAt = nil
	if in.PublishAt != nil {
		at := in.PublishAt.UTC()
		n.PublishAt = &at
	}
	if n.Title == "" {
		return invalid("el título es obligatorio")
	}
	return nil
}

func sortNews(list []domain.NewsPost) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Pinned != list[j].Pinned {
			return list[i].Pinned
		}
		return newsTime(list[i]).After(newsTime(list[j]))
	})
}

func newsTime(n domain.NewsPost) time.Time {
	if n.PublishAt != nil {
		return *n.PublishAt
	}
	return n.CreatedAt
}
