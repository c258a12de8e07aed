package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
)

// KV 字符串读写能力，*Client 实现该接口
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

var _ KV = (*Client)(nil)

// GetInto 读取 JSON 并反序列化到 out，键不存在时返回 ErrNil
func GetInto(c KV, ctx context.Context, key string, out any) error {
	val, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return errors.Wrapf(err, "unmarshal object %s failed", key)
	}
	return nil
}

// GetObject 读取并反序列化 JSON 对象
func GetObject[T any](c KV, ctx context.Context, key string) (*T, error) {
	var obj T
	if err := GetInto(c, ctx, key, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// SetObject 序列化为 JSON 后写入
func SetObject(c KV, ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "marshal object %s failed", key)
	}
	return c.Set(ctx, key, data, expiration)
}
