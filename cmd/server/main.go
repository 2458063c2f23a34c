package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/api/handler"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/api/middleware"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/api/router"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/cluster"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/jobs"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/repository"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/service"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/database"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/jwt"
	applogger "github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/logger"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/mailer"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/natsbus"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/redis"
	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("auto_balance", cfg.Feature.AutoBalance),
		zap.Bool("conflict_detection", cfg.Feature.ConflictDetection),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 首次加载缓存，失败时不启动
	st := store.New(repository.NewRepository(db), logger, store.Options{
		AutoBalance:       cfg.Feature.AutoBalance,
		ConflictDetection: cfg.Feature.ConflictDetection,
	})
	initCtx, initCancel := context.WithTimeout(context.Background(), time.Minute)
	if err := st.Init(initCtx); err != nil {
		initCancel()
		logger.Fatal("加载数据失败", zap.Error(err))
	}
	initCancel()

	// 5. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	deps := service.Deps{
		Sender: mailer.NewSMTPSender(cfg.Mail.FromName, cfg.Mail.Timeout, logger),
	}
	var limiter middleware.Limiter
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 注销与登录限流将不可用", zap.Error(err))
		rdb = nil
	} else {
		deps.Blacklist = rdb
		limiter = rdb
	}

	// 6. 对象存储（可选）
	if s3 := storage.NewS3(&cfg.Storage, logger); s3 != nil {
		deps.Uploader = s3
	}

	// 7. 依赖注入: Store → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := service.NewService(cfg, st, jwtMgr, deps, logger)
	h := handler.NewHandler(st, svc, logger)

	// 8. 多实例同步（可选）
	bgCtx, bgCancel := context.WithCancel(context.Background())
	bus, err := natsbus.Connect(&cfg.NATS, logger)
	if err != nil {
		logger.Warn("NATS 不可用，多实例同步关闭", zap.Error(err))
		bus = nil
	}
	bridgeDone := make(chan struct{})
	if bus.Enabled() {
		bridge := cluster.NewBridge(st, bus, time.Minute, logger)
		go func() {
			defer close(bridgeDone)
			if err := bridge.Run(bgCtx); err != nil {
				logger.Error("多实例同步异常退出", zap.Error(err))
			}
		}()
	} else {
		close(bridgeDone)
	}

	// 9. 定时任务
	scheduler := jobs.NewScheduler(logger)
	if cfg.Jobs.Enabled {
		if err := jobs.RegisterPortalJobs(scheduler, &cfg.Jobs, st, svc.Notify, time.Now); err != nil {
			logger.Fatal("注册定时任务失败", zap.Error(err))
		}
		scheduler.Start()
	}

	// 10. 初始化路由
	engine := router.Setup(cfg, h, svc.Auth, limiter, logger)

	// 11. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 12. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	scheduler.Stop(ctx)
	bgCancel()
	<-bridgeDone
	bus.Close()

	// 等待异步邮件发送完成
	svc.Notify.Wait()

	// 关闭数据库连接
	if err := sqlDB.Close(); err != nil {
		logger.Warn("关闭数据库连接失败", zap.Error(err))
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
