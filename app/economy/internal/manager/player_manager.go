package manager

import (
	"context"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/repository"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// PlayerManager 玩家状态注册表：内存缓存 + 仓储回源
type PlayerManager struct {
	logger logger.Logger
	repo   repository.PlayerRepository

	group singleflight.Group

	mu       sync.RWMutex
	profiles map[int64]*Profile
}

// NewPlayerManager 创建玩家管理器
func NewPlayerManager(l logger.Logger, repo repository.PlayerRepository) *PlayerManager {
	return &PlayerManager{
		logger:   l.Named("manager.player"),
		repo:     repo,
		profiles: make(map[int64]*Profile),
	}
}

// maxEvictedRetries 档案被驱逐后重新获取的次数上限
const maxEvictedRetries = 3

// Get 获取玩家状态，未加载时从仓储加载；同一玩家的并发加载只执行一次
//
// 加载不受首个调用方取消的影响，合并等待的其他调用方不会因此失败。
func (m *PlayerManager) Get(ctx context.Context, playerID int64) (*Profile, error) {
	m.mu.RLock()
	p, ok := m.profiles[playerID]
	m.mu.RUnlock()
	if ok {
		return p, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := m.group.Do(strconv.FormatInt(playerID, 10), func() (any, error) {
		m.mu.RLock()
		p, ok := m.profiles[playerID]
		m.mu.RUnlock()
		if ok {
			return p, nil
		}

		p, err := m.load(loadCtx, playerID)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.profiles[playerID] = p
		m.mu.Unlock()

		m.logger.Debug("player profile loaded", "player_id", playerID)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Profile), nil
}

// Do 获取玩家状态并在其锁内执行 fn；排队期间档案被驱逐时重新加载后再执行
func (m *PlayerManager) Do(ctx context.Context, playerID int64, fn func(p *Profile) error) error {
	for attempt := 0; ; attempt++ {
		p, err := m.Get(ctx, playerID)
		if err != nil {
			return err
		}
		err = p.Do(fn)
		if !errors.Is(err, ErrProfileEvicted) || attempt >= maxEvictedRetries {
			return err
		}
		m.logger.Debug("player profile evicted while queued, retrying",
			"player_id", playerID,
			"attempt", attempt+1,
		)
	}
}

func (m *PlayerManager) load(ctx context.Context, playerID int64) (*Profile, error) {
	wallet, err := m.repo.LoadWallet(ctx, playerID)
	if err != nil {
		return nil, err
	}
	g, err := m.repo.LoadGacha(ctx, playerID)
	if err != nil {
		return nil, err
	}
	cosmetics, err := m.repo.LoadCosmetics(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		PlayerID:  playerID,
		Ledger:    wallet,
		Gacha:     g,
		Cosmetics: cosmetics,
	}, nil
}

// SaveWallet 持久化钱包，调用方需在 Profile.Do 内调用
func (m *PlayerManager) SaveWallet(ctx context.Context, p *Profile) error {
	return m.persist(p, m.repo.SaveWallet(ctx, p.PlayerID, p.Ledger))
}

// SaveCosmetics 持久化外观，调用方需在 Profile.Do 内调用
func (m *PlayerManager) SaveCosmetics(ctx context.Context, p *Profile) error {
	return m.persist(p, m.repo.SaveCosmetics(ctx, p.PlayerID, p.Cosmetics))
}

// SavePull 持久化一次抽卡：先写钱包再写抽卡状态，调用方需在 Profile.Do 内调用
//
// 抽卡状态写入失败时把钱包回写为 walletBefore，扣费不会单独落盘。
func (m *PlayerManager) SavePull(ctx context.Context, p *Profile, walletBefore model.WalletState) error {
	if err := m.SaveWallet(ctx, p); err != nil {
		return err
	}
	if err := m.repo.SaveGacha(ctx, p.PlayerID, p.Gacha); err != nil {
		return m.persist(p, m.rollbackWallet(ctx, p, walletBefore, err))
	}
	return nil
}

// SavePurchase 持久化一次购买：先写钱包再写外观，调用方需在 Profile.Do 内调用
//
// 外观写入失败时把钱包回写为 walletBefore。
func (m *PlayerManager) SavePurchase(ctx context.Context, p *Profile, walletBefore model.WalletState) error {
	if err := m.SaveWallet(ctx, p); err != nil {
		return err
	}
	if err := m.repo.SaveCosmetics(ctx, p.PlayerID, p.Cosmetics); err != nil {
		return m.persist(p, m.rollbackWallet(ctx, p, walletBefore, err))
	}
	return nil
}

// Save 持久化全部命名空间，调用方需在 Profile.Do 内调用
func (m *PlayerManager) Save(ctx context.Context, p *Profile) error {
	if err := m.SaveWallet(ctx, p); err != nil {
		return err
	}
	if err := m.persist(p, m.repo.SaveGacha(ctx, p.PlayerID, p.Gacha)); err != nil {
		return err
	}
	return m.SaveCosmetics(ctx, p)
}

// rollbackWallet 第二个命名空间写入失败后回写扣费前的钱包
func (m *PlayerManager) rollbackWallet(ctx context.Context, p *Profile, before model.WalletState, cause error) error {
	p.Ledger.Restore(before)
	if err := m.repo.SaveWallet(context.WithoutCancel(ctx), p.PlayerID, p.Ledger); err != nil {
		m.logger.Error("failed to roll back wallet after partial save",
			"player_id", p.PlayerID,
			"error", err,
		)
		return errors.CombineErrors(cause, err)
	}
	return cause
}

// persist 写入失败时驱逐内存状态，下次访问从存储重新加载
//
// 调用方持有 p 的锁，排队中的请求解锁后得到 ErrProfileEvicted。
func (m *PlayerManager) persist(p *Profile, err error) error {
	if err == nil {
		return nil
	}
	m.logger.Error("failed to persist player state, evicting",
		"player_id", p.PlayerID,
		"error", err,
	)
	p.evicted = true
	m.evict(p)
	return errors.Wrap(err, "failed to persist player state")
}

func (m *PlayerManager) evict(p *Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.profiles[p.PlayerID]; ok && cur == p {
		delete(m.profiles, p.PlayerID)
	}
}

// Evict 从内存移除玩家状态，等待进行中的操作结束；不能在 Profile.Do 内调用
func (m *PlayerManager) Evict(playerID int64) {
	m.mu.RLock()
	p, ok := m.profiles[playerID]
	m.mu.RUnlock()
	if !ok {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.evicted = true
	m.evict(p)
}

// Count 已加载的玩家数
func (m *PlayerManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.profiles)
}
