package natsbus

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/config"
)

func TestConnect_EmptyURLIsNoop(t *testing.T) {
	b, err := Connect(&config.NATSConfig{Subject: "rrhh.store.changed"}, zap.NewNop())
	if err != nil {
		t.Fatalf("空 URL 不应返回错误: %v", err)
	}
	if b.Enabled() {
		t.Error("空 URL 时不应处于连接状态")
	}
	if err := b.Publish(map[string]string{"entity": "users"}); err != nil {
		t.Errorf("未连接时 Publish 应为空操作: %v", err)
	}

	called := false
	cancel, err := b.Subscribe(func(json.RawMessage) { called = true })
	if err != nil {
		t.Fatalf("未连接时 Subscribe 不应返回错误: %v", err)
	}
	cancel()
	b.Close()
	if called {
		t.Error("未连接时不应收到消息")
	}
}

func TestEnabled_NilBus(t *testing.T) {
	var b *Bus
	if b.Enabled() {
		t.Error("nil Bus 不应处于连接状态")
	}
}
