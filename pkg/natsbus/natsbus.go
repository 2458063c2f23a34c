// Package natsbus 在多个服务实例间广播缓存变更，URL 未配置时退化为空操作。
package natsbus

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
)

// Envelope 总线消息，Origin 用于忽略本实例自己发出的消息
type Envelope struct {
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

// Bus NATS 连接封装
type Bus struct {
	mu           sync.RWMutex
	nc           *nats.Conn
	subject      string
	origin       string
	drainTimeout time.Duration
	logger       *zap.Logger
}

// Connect 建立带自动重连的 NATS 连接；cfg.URL 为空时返回未连接的 Bus
func Connect(cfg *config.NATSConfig, logger *zap.Logger) (*Bus, error) {
	b := &Bus{
		subject:      cfg.Subject,
		origin:       uuid.NewString(),
		drainTimeout: cfg.DrainTimeout,
		logger:       logger.Named("nats"),
	}
	if cfg.URL == "" {
		b.logger.Info("未配置 NATS，跳过多实例同步")
		return b, nil
	}

	opts := []nats.Option{
		nats.Name("gda-rrhh"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			b.logger.Warn("NATS 连接断开", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			b.logger.Info("NATS 已重连", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			if err := nc.LastError(); err != nil {
				b.logger.Error("NATS 连接关闭", zap.Error(err))
				return
			}
			b.logger.Info("NATS 连接关闭")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			if sub != nil {
				b.logger.Error("NATS 订阅异常", zap.String("subject", sub.Subject), zap.Error(err))
				return
			}
			b.logger.Error("NATS 异步错误", zap.Error(err))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("连接 NATS 失败 (%s): %w", cfg.URL, err)
	}
	b.nc = nc
	b.logger.Info("NATS 连接成功", zap.String("url", nc.ConnectedUrl()), zap.String("subject", cfg.Subject))
	return b, nil
}

// Enabled 是否已建立连接
func (b *Bus) Enabled() bool {
	if b == nil {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.nc != nil
}

// Publish 将 payload 序列化后广播给其他实例
func (b *Bus) Publish(payload interface{}) error {
	if !b.Enabled() {
		return nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}
	data, err := json.Marshal(Envelope{Origin: b.origin, Payload: raw})
	if err != nil {
		return fmt.Errorf("序列化消息失败: %w", err)
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.nc.Publish(b.subject, data)
}

// Subscribe 订阅其他实例的消息，返回取消订阅函数
func (b *Bus) Subscribe(handler func(payload json.RawMessage)) (func(), error) {
	if !b.Enabled() {
		return func() {}, nil
	}

	b.mu.RLock()
	sub, err := b.nc.Subscribe(b.subject, func(msg *nats.Msg) {
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			b.logger.Warn("丢弃无法解析的 NATS 消息", zap.Error(err))
			return
		}
		if env.Origin == b.origin {
			return
		}
		handler(env.Payload)
	})
	b.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("订阅 %s 失败: %w", b.subject, err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			b.logger.Warn("取消订阅失败", zap.Error(err))
		}
	}, nil
}

// Close 排空并关闭连接，超过 drainTimeout 时强制关闭
func (b *Bus) Close() {
	if !b.Enabled() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	done := make(chan struct{})
	b.nc.SetClosedHandler(func(*nats.Conn) { close(done) })
	if err := b.nc.Drain(); err != nil {
		b.logger.Warn("NATS 排空失败", zap.Error(err))
		b.nc.Close()
		return
	}
	select {
	case <-done:
	case <-time.After(b.drainTimeout):
		b.logger.Warn("NATS 排空超时，强制关闭")
		b.nc.Close()
	}
	b.nc = nil
}
