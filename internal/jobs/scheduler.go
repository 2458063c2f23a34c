package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	ErrJobNotFound   = errors.New("任务不存在")
	ErrJobRunning    = errors.New("任务正在执行")
	ErrSchedulerBusy = errors.New("调度器已启动，不能再注册任务")
)

// Handler 任务处理函数，返回处理的记录数
type Handler func(ctx context.Context) (int, error)

// Job 定时任务定义
type Job struct {
	Name     string
	Schedule string // cron 表达式，含秒字段
	Timeout  time.Duration
	Handler  Handler
}

// Scheduler 进程内定时任务调度器
//
// 同一任务不会并发执行：上一次未结束时本次跳过。
type Scheduler struct {
	cron    *cron.Cron
	logger  *zap.Logger
	mu      sync.Mutex
	jobs    map[string]*entry
	started bool
}

type entry struct {
	job     Job
	running sync.Mutex
}

// NewScheduler 创建调度器
func NewScheduler(logger *zap.Logger) *Scheduler {
	logger = logger.Named("jobs")
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cronLogger{logger})),
		),
		logger: logger,
		jobs:   make(map[string]*entry),
	}
}

// Register 注册任务；schedule 为空时只能通过 RunNow 手动执行
func (s *Scheduler) Register(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return ErrSchedulerBusy
	}
	if job.Name == "" || job.Handler == nil {
		return fmt.Errorf("任务定义不完整: %q", job.Name)
	}

	e := &entry{job: job}
	if job.Schedule != "" {
		if _, err := s.cron.AddFunc(job.Schedule, func() { s.run(e) }); err != nil {
			return fmt.Errorf("任务 %s 的 cron 表达式无效: %w", job.Name, err)
		}
	}
	s.jobs[job.Name] = e

	s.logger.Info("注册定时任务", zap.String("job", job.Name), zap.String("schedule", job.Schedule))
	return nil
}

// Start 启动调度
func (s *Scheduler) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	s.cron.Start()
}

// Stop 停止调度并等待正在执行的任务结束
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("等待定时任务结束超时")
	}
}

// RunNow 立即同步执行一次任务
func (s *Scheduler) RunNow(name string) (int, error) {
	s.mu.Lock()
	e, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return 0, ErrJobNotFound
	}
	return s.execute(e)
}

// Jobs 已注册的任务名
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

func (s *Scheduler) run(e *entry) {
	if _, err := s.execute(e); errors.Is(err, ErrJobRunning) {
		s.logger.Debug("上一次执行尚未结束，跳过", zap.String("job", e.job.Name))
	}
}

func (s *Scheduler) execute(e *entry) (int, error) {
	if !e.running.TryLock() {
		return 0, ErrJobRunning
	}
	defer e.running.Unlock()

	ctx := context.Background()
	if e.job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.job.Timeout)
		defer cancel()
	}

	start := time.Now()
	n, err := e.job.Handler(ctx)
	fields := []zap.Field{
		zap.String("job", e.job.Name),
		zap.Int("processed", n),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		s.logger.Error("定时任务失败", append(fields, zap.Error(err))...)
		return n, err
	}
	s.logger.Info("定时任务完成", fields...)
	return n, nil
}

// cronLogger 将 cron 内部日志输出到 zap
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
