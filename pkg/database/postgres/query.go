package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
)

// Row 单行结果，Scan 时将 pgx.ErrNoRows 映射为 ErrNoRows
type Row struct {
	row    pgx.Row
	cancel context.CancelFunc
}

// NewRow 包装任意 pgx.Row
func NewRow(row pgx.Row) *Row {
	return &Row{row: row, cancel: func() {}}
}

// Scan 读取列值
func (r *Row) Scan(dest ...any) error {
	defer r.cancel()
	if err := r.row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoRows
		}
		return errors.Wrap(err, "scan failed")
	}
	return nil
}

func (c *Client) withQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.QueryTimeout > 0 {
		return context.WithTimeout(ctx, c.cfg.QueryTimeout)
	}
	return ctx, func() {}
}

// QueryRow 在从库上执行单行查询
func (c *Client) QueryRow(ctx context.Context, sql string, args ...any) *Row {
	ctx, cancel := c.withQueryTimeout(ctx)
	return &Row{row: c.reader().QueryRow(ctx, sql, args...), cancel: cancel}
}

// Exec 在主库上执行写操作，返回影响行数
func (c *Client) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	ctx, cancel := c.withQueryTimeout(ctx)
	defer cancel()

	tag, err := c.master.Exec(ctx, sql, args...)
	if err != nil {
		return 0, errors.Wrap(err, "exec failed")
	}
	return tag.RowsAffected(), nil
}
