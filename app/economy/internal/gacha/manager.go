package gacha

import (
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/lk2023060901/xdooria-economy/pkg/idgen"
)

// MaxHistory 抽卡记录保留上限
const MaxHistory = 50

var localSessionSeq atomic.Int64

// Manager 单个玩家的抽卡状态：保底计数、抽卡记录与物品持有数
//
// 非并发安全，由调用方串行访问。
type Manager struct {
	rng       RandomSource
	trackers  map[string]model.PityTracker
	history   []model.PullSession // 新的在前
	inventory map[string]int

	now   func() time.Time
	idGen idgen.Generator
}

// Option 管理器选项
type Option func(*Manager)

// WithClock 设置时钟
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator 设置抽卡记录 ID 生成器
func WithIDGenerator(g idgen.Generator) Option {
	return func(m *Manager) {
		if g != nil {
			m.idGen = g
		}
	}
}

// NewManager 创建抽卡管理器，rng 为 nil 时使用 DefaultRNG
func NewManager(rng RandomSource, opts ...Option) *Manager {
	if rng == nil {
		rng = DefaultRNG()
	}
	m := &Manager{
		rng:       rng,
		trackers:  make(map[string]model.PityTracker),
		inventory: make(map[string]int),
		now:       time.Now,
		idGen: idgen.GeneratorFunc(func() (int64, error) {
			return localSessionSeq.Add(1), nil
		}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ExecutePull 执行单抽或十连
//
// 整批结果在工作副本上计算，全部成功后才写回保底、持有数与记录；
// 任何错误都不会留下部分结果。扣费由调用方在此之前完成。
func (m *Manager) ExecutePull(b *model.Banner, count int) ([]model.GachaResult, error) {
	if count != 1 && count != 10 {
		return nil, errors.Wrapf(ErrInvalidPullCount, "got %d", count)
	}
	if b == nil || len(b.Pool) == 0 {
		return nil, ErrEmptyPool
	}

	tiers := b.Tiers()
	pity := m.trackers[b.ID].PullCount
	gained := make(map[string]int)
	results := make([]model.GachaResult, 0, count)

	for i := 0; i < count; i++ {
		pity++
		forced := pity >= b.PityThreshold

		var rarity model.Rarity
		if forced {
			rarity = ForcedRarity(tiers, m.rng)
		} else {
			rarity = RollRarity(tiers, ComputeDropRates(b, pity), m.rng)
		}

		item, err := SelectItem(b.Pool, rarity, b.RateUpItemIDs, m.rng)
		if err != nil {
			return nil, err
		}

		results = append(results, model.GachaResult{
			Item:       item,
			IsNew:      m.inventory[item.ID]+gained[item.ID] == 0,
			IsPity:     forced,
			IsRateUp:   b.IsRateUp(item.ID),
			PullNumber: pity,
		})

		if forced || b.IsHighRarity(rarity) {
			pity = 0
		}
		gained[item.ID]++
	}

	id, err := m.idGen.NextID()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate pull session id")
	}

	m.trackers[b.ID] = model.PityTracker{BannerID: b.ID, PullCount: pity}
	for itemID, n := range gained {
		m.inventory[itemID] += n
	}
	session := model.PullSession{
		ID:        id,
		BannerID:  b.ID,
		Results:   results,
		Timestamp: m.now(),
	}
	m.pushSession(session)

	return append([]model.GachaResult(nil), results...), nil
}

func (m *Manager) pushSession(s model.PullSession) {
	n := len(m.history) + 1
	if n > MaxHistory {
		n = MaxHistory
	}
	h := make([]model.PullSession, n)
	h[0] = s
	copy(h[1:], m.history)
	m.history = h
}

// PityCount 当前保底计数，未抽过返回 0
func (m *Manager) PityCount(bannerID string) int {
	return m.trackers[bannerID].PullCount
}

// Tracker 返回卡池保底状态
func (m *Manager) Tracker(bannerID string) (model.PityTracker, bool) {
	t, ok := m.trackers[bannerID]
	return t, ok
}

// RecentPulls 返回最近 limit 次抽卡，新的在前
func (m *Manager) RecentPulls(limit int) []model.PullSession {
	if limit <= 0 {
		return []model.PullSession{}
	}
	if limit > len(m.history) {
		limit = len(m.history)
	}
	out := make([]model.PullSession, limit)
	for i := 0; i < limit; i++ {
		out[i] = m.history[i].Clone()
	}
	return out
}

// RarityStats 统计保留记录中各稀有度的出货数
func (m *Manager) RarityStats() map[model.Rarity]int {
	stats := make(map[model.Rarity]int)
	for _, s := range m.history {
		for _, r := range s.Results {
			stats[r.Item.Rarity]++
		}
	}
	return stats
}

// TotalPulls 保留记录中的抽数
func (m *Manager) TotalPulls() int {
	total := 0
	for _, s := range m.history {
		total += len(s.Results)
	}
	return total
}

// OwnedCount 物品持有数
func (m *Manager) OwnedCount(itemID string) int {
	return m.inventory[itemID]
}

// Inventory 返回持有数副本
func (m *Manager) Inventory() map[string]int {
	out := make(map[string]int, len(m.inventory))
	for k, v := range m.inventory {
		out[k] = v
	}
	return out
}

// Snapshot 导出快照
func (m *Manager) Snapshot() model.GachaState {
	trackers := make(map[string]model.PityTracker, len(m.trackers))
	for k, v := range m.trackers {
		trackers[k] = v
	}
	return model.GachaState{
		PityTrackers: trackers,
		PullHistory:  m.RecentPulls(MaxHistory),
		Inventory:    m.Inventory(),
	}
}

// Restore 从快照恢复，负数计数归零，记录截断到 MaxHistory
func (m *Manager) Restore(state model.GachaState) {
	m.trackers = make(map[string]model.PityTracker, len(state.PityTrackers))
	for id, t := range state.PityTrackers {
		if t.PullCount < 0 {
			t.PullCount = 0
		}
		t.BannerID = id
		m.trackers[id] = t
	}

	m.inventory = make(map[string]int, len(state.Inventory))
	for id, n := range state.Inventory {
		if n > 0 {
			m.inventory[id] = n
		}
	}

	n := len(state.PullHistory)
	if n > MaxHistory {
		n = MaxHistory
	}
	m.history = make([]model.PullSession, n)
	for i := 0; i < n; i++ {
		m.history[i] = state.PullHistory[i].Clone()
	}
}
