package manager

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gacha"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/ledger"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
)

// ErrProfileEvicted 档案已被驱逐，需要重新获取
var ErrProfileEvicted = errors.New("player profile evicted")

// Profile 单个玩家的经济状态容器
//
// Ledger、Gacha、Cosmetics 均非并发安全，只能在 Do 回调内访问。
type Profile struct {
	PlayerID  int64
	Ledger    *ledger.Ledger
	Gacha     *gacha.Manager
	Cosmetics *model.CosmeticInventory

	mu      sync.Mutex
	evicted bool
}

// Do 串行执行一次读写；档案被驱逐后不再执行 fn，返回 ErrProfileEvicted
func (p *Profile) Do(fn func(p *Profile) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.evicted {
		return ErrProfileEvicted
	}
	return fn(p)
}
