package dao

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/cockroachdb/errors"
)

type memoryKey struct {
	namespace string
	playerID  int64
}

// MemoryStore 进程内存储，用于本地开发与测试
type MemoryStore struct {
	mu   sync.RWMutex
	data map[memoryKey][]byte
}

var _ StateStore = (*MemoryStore)(nil)

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[memoryKey][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, namespace string, playerID int64, out any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[memoryKey{namespace, playerID}]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, errors.Wrapf(err, "failed to unmarshal %s/%d", namespace, playerID)
	}
	return true, nil
}

func (s *MemoryStore) Save(_ context.Context, namespace string, playerID int64, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s/%d", namespace, playerID)
	}
	s.mu.Lock()
	s.data[memoryKey{namespace, playerID}] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, namespace string, playerID int64) error {
	s.mu.Lock()
	delete(s.data, memoryKey{namespace, playerID})
	s.mu.Unlock()
	return nil
}
