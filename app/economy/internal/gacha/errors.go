package gacha

import "github.com/cockroachdb/errors"

var (
	// ErrEmptyPool 卡池没有任何物品
	ErrEmptyPool = errors.New("banner item pool is empty")
	// ErrInvalidPullCount 每次只能单抽或十连
	ErrInvalidPullCount = errors.New("pull count must be 1 or 10")
	// ErrInvalidSimulation 模拟次数越界
	ErrInvalidSimulation = errors.New("invalid simulation size")
)
