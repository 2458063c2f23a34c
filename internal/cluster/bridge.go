// Package cluster 通过消息总线在多个实例之间同步缓存：本地变更广播出去，
// 收到其他实例的变更后整体刷新本地缓存。
package cluster

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store"
)

// Bus 消息总线，由 pkg/natsbus.Bus 实现
type Bus interface {
	Publish(payload interface{}) error
	Subscribe(handler func(payload json.RawMessage)) (func(), error)
}

// Refresher 可整体刷新的缓存
type Refresher interface {
	Subscribe() (<-chan store.Event, func())
	Refresh(ctx context.Context) error
}

// Bridge 缓存与总线之间的桥接
type Bridge struct {
	cache   Refresher
	bus     Bus
	logger  *zap.Logger
	timeout time.Duration

	pending chan struct{}
	wg      sync.WaitGroup
}

// NewBridge 创建桥接；refreshTimeout 为单次刷新的超时
func NewBridge(cache Refresher, bus Bus, refreshTimeout time.Duration, logger *zap.Logger) *Bridge {
	if refreshTimeout <= 0 {
		refreshTimeout = time.Minute
	}
	return &Bridge{
		cache:   cache,
		bus:     bus,
		logger:  logger.Named("cluster"),
		timeout: refreshTimeout,
		pending: make(chan struct{}, 1),
	}
}

// Run 启动桥接，ctx 取消后停止并返回
func (b *Bridge) Run(ctx context.Context) error {
	unsubscribe, err := b.bus.Subscribe(func(payload json.RawMessage) {
		var ev store.Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			b.logger.Warn("丢弃无法解析的变更消息", zap.Error(err))
			return
		}
		b.logger.Debug("收到其他实例的变更",
			zap.String("entity", string(ev.Entity)),
			zap.String("action", string(ev.Action)),
		)
		b.requestRefresh()
	})
	if err != nil {
		return err
	}
	defer unsubscribe()

	events, cancel := b.cache.Subscribe()
	defer cancel()

	b.wg.Add(1)
	go b.refreshLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			b.wg.Wait()
			return nil
		case ev, ok := <-events:
			if !ok {
				b.wg.Wait()
				return nil
			}
			// 刷新产生的信号只在本实例内有意义，不再广播，避免实例间互相触发
			if ev.Action == store.ActionRefreshed {
				continue
			}
			if err := b.bus.Publish(ev); err != nil {
				b.logger.Warn("广播变更失败", zap.String("entity", string(ev.Entity)), zap.Error(err))
			}
		}
	}
}

// requestRefresh 合并短时间内的多次刷新请求
func (b *Bridge) requestRefresh() {
	select {
	case b.pending <- struct{}{}:
	default:
	}
}

func (b *Bridge) refreshLoop(ctx context.Context) {
	defer b.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.pending:
			rctx, cancel := context.WithTimeout(ctx, b.timeout)
			if err := b.cache.Refresh(rctx); err != nil {
				b.logger.Error("刷新缓存失败", zap.Error(err))
			}
			cancel()
		}
	}
}
