package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ildenunez/ildenunez-GDA-RRHH-sub000/internal/store/storetest"
)

var (
	errBackendDown = storetest.ErrBackendDown
	fixedNow       = storetest.FixedNow
)

type testEnv struct {
	backend *storetest.Backend
	store   *Store
}

func newMockBackend() *storetest.Backend {
	return storetest.NewBackend()
}

func newTestEnv(opts Options) *testEnv {
	b := newMockBackend()
	b.Seed()
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	s := New(b.Repository(), zap.NewNop(), opts)
	if err := s.Init(context.Background()); err != nil {
		panic(err)
	}
	return &testEnv{backend: b, store: s}
}
