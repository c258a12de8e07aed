package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/pkg/database/postgres"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
)

// sqlClient PostgresStore 依赖的客户端能力，*postgres.Client 实现
type sqlClient interface {
	QueryRow(ctx context.Context, sql string, args ...any) *postgres.Row
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}

// PostgresStore 以 (namespace, player_id) 为主键保存 jsonb
type PostgresStore struct {
	db     sqlClient
	table  string
	logger logger.Logger
	now    func() time.Time
}

var _ StateStore = (*PostgresStore)(nil)

// NewPostgresStore 创建 PostgreSQL 存储
func NewPostgresStore(db *postgres.Client, cfg *Config, l logger.Logger) *PostgresStore {
	return newPostgresStore(db, cfg, l)
}

func newPostgresStore(db sqlClient, cfg *Config, l logger.Logger) *PostgresStore {
	table := cfg.Table
	if table == "" {
		table = DefaultConfig().Table
	}
	return &PostgresStore{
		db:     db,
		table:  table,
		logger: l.Named("dao.postgres"),
		now:    time.Now,
	}
}

// EnsureSchema 建表（已存在时跳过）
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	namespace  TEXT        NOT NULL,
	player_id  BIGINT      NOT NULL,
	payload    JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (namespace, player_id)
)`, s.table)
	if _, err := s.db.Exec(ctx, ddl); err != nil {
		return errors.Wrapf(err, "failed to create table %s", s.table)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, namespace string, playerID int64, out any) (bool, error) {
	query, args, err := squirrel.
		Select("payload").
		From(s.table).
		Where(squirrel.Eq{"namespace": namespace, "player_id": playerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "failed to build query")
	}

	var payload []byte
	if err := s.db.QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, postgres.ErrNoRows) {
			return false, nil
		}
		s.logger.Error("failed to load state",
			"namespace", namespace,
			"player_id", playerID,
			"error", err,
		)
		return false, errors.Wrap(err, "failed to load state")
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return false, errors.Wrapf(err, "failed to unmarshal %s/%d", namespace, playerID)
	}
	return true, nil
}

func (s *PostgresStore) Save(ctx context.Context, namespace string, playerID int64, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s/%d", namespace, playerID)
	}

	query, args, err := squirrel.
		Insert(s.table).
		Columns("namespace", "player_id", "payload", "updated_at").
		Values(namespace, playerID, payload, s.now()).
		Suffix("ON CONFLICT (namespace, player_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}

	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		s.logger.Error("failed to save state",
			"namespace", namespace,
			"player_id", playerID,
			"error", err,
		)
		return errors.Wrap(err, "failed to save state")
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, namespace string, playerID int64) error {
	query, args, err := squirrel.
		Delete(s.table).
		Where(squirrel.Eq{"namespace": namespace, "player_id": playerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build query")
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return errors.Wrap(err, "failed to delete state")
	}
	return nil
}
