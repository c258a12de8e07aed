package dao

import (
	"context"
	"encoding/json"

	"github.com/lk2023060901/xdooria-economy/pkg/logger"
)

// TieredStore 缓存 + 主存储：读先查缓存，未命中回源并回填；写先落主存储再刷新缓存
type TieredStore struct {
	cache   StateStore
	primary StateStore
	logger  logger.Logger
}

var _ StateStore = (*TieredStore)(nil)

// NewTieredStore 创建分层存储
func NewTieredStore(cache, primary StateStore, l logger.Logger) *TieredStore {
	return &TieredStore{
		cache:   cache,
		primary: primary,
		logger:  l.Named("dao.tiered"),
	}
}

func (s *TieredStore) Load(ctx context.Context, namespace string, playerID int64, out any) (bool, error) {
	found, err := s.cache.Load(ctx, namespace, playerID, out)
	if err != nil {
		// 缓存故障时继续回源
		s.logger.Warn("cache load failed",
			"namespace", namespace,
			"player_id", playerID,
			"error", err,
		)
	}
	if found && err == nil {
		return true, nil
	}

	var raw json.RawMessage
	found, err = s.primary.Load(ctx, namespace, playerID, &raw)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}

	if err := s.cache.Save(ctx, namespace, playerID, raw); err != nil {
		s.logger.Warn("cache backfill failed",
			"namespace", namespace,
			"player_id", playerID,
			"error", err,
		)
	}
	return true, nil
}

func (s *TieredStore) Save(ctx context.Context, namespace string, playerID int64, value any) error {
	if err := s.primary.Save(ctx, namespace, playerID, value); err != nil {
		return err
	}
	if err := s.cache.Save(ctx, namespace, playerID, value); err != nil {
		s.logger.Warn("cache refresh failed, invalidating",
			"namespace", namespace,
			"player_id", playerID,
			"error", err,
		)
		if err := s.cache.Delete(ctx, namespace, playerID); err != nil {
			s.logger.Error("cache invalidation failed",
				"namespace", namespace,
				"player_id", playerID,
				"error", err,
			)
		}
	}
	return nil
}

func (s *TieredStore) Delete(ctx context.Context, namespace string, playerID int64) error {
	if err := s.primary.Delete(ctx, namespace, playerID); err != nil {
		return err
	}
	return s.cache.Delete(ctx, namespace, playerID)
}
