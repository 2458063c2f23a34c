package jobs

import (
	"context"
	"time"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/service"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
)

// 任务名
const (
	JobRefresh   = "store_refresh"
	JobBirthdays = "birthday_greetings"
	JobNews      = "news_announcements"
)

// RegisterPortalJobs 注册门户的三个定时任务：缓存刷新、生日祝福、定时公告通知
func RegisterPortalJobs(s *Scheduler, cfg *config.JobsConfig, st *store.Store, notify service.NotifyService, now func() time.Time) error {
	if now == nil {
		now = time.Now
	}
	jobs := []Job{
		{
			Name:     JobRefresh,
			Schedule: cfg.RefreshSchedule,
			Timeout:  time.Minute,
			Handler: func(ctx context.Context) (int, error) {
				if err := st.Refresh(ctx); err != nil {
					return 0, err
				}
				return 1, nil
			},
		},
		{
			Name:     JobBirthdays,
			Schedule: cfg.BirthdaySchedule,
			Timeout:  time.Minute,
			Handler: func(ctx context.Context) (int, error) {
				return notify.BirthdayGreetings(ctx, now())
			},
		},
		{
			Name:     JobNews,
			Schedule: cfg.NewsSchedule,
			Timeout:  time.Minute,
			Handler: func(ctx context.Context) (int, error) {
				return notify.AnnounceNews(ctx, now())
			},
		},
	}
	for _, j := range jobs {
		if err := s.Register(j); err != nil {
			return err
		}
	}
	return nil
}
