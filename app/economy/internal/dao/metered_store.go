package dao

import (
	"context"
	"time"

	"github.com/lk2023060901/xdooria-economy/app/economy/internal/metrics"
)

// MeteredStore 记录存储操作次数与延迟
type MeteredStore struct {
	next    StateStore
	metrics *metrics.EconomyMetrics
}

var _ StateStore = (*MeteredStore)(nil)

// NewMeteredStore 包装 StateStore
func NewMeteredStore(next StateStore, m *metrics.EconomyMetrics) *MeteredStore {
	return &MeteredStore{next: next, metrics: m}
}

func (s *MeteredStore) Load(ctx context.Context, namespace string, playerID int64, out any) (bool, error) {
	start := time.Now()
	found, err := s.next.Load(ctx, namespace, playerID, out)
	s.metrics.RecordStoreOp("load", err == nil, time.Since(start).Seconds())
	return found, err
}

func (s *MeteredStore) Save(ctx context.Context, namespace string, playerID int64, value any) error {
	start := time.Now()
	err := s.next.Save(ctx, namespace, playerID, value)
	s.metrics.RecordStoreOp("save", err == nil, time.Since(start).Seconds())
	return err
}

func (s *MeteredStore) Delete(ctx context.Context, namespace string, playerID int64) error {
	start := time.Now()
	err := s.next.Delete(ctx, namespace, playerID)
	s.metrics.RecordStoreOp("delete", err == nil, time.Since(start).Seconds())
	return err
}
