package model

import (
	"sort"
	"time"
)

// Rarity 稀有度
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

var rarityRank = map[Rarity]int{
	RarityCommon:    0,
	RarityUncommon:  1,
	RarityRare:      2,
	RarityEpic:      3,
	RarityLegendary: 4,
}

// Rank 返回全局排序位置，未知稀有度返回 -1
func (r Rarity) Rank() int {
	if rank, ok := rarityRank[r]; ok {
		return rank
	}
	return -1
}

// Valid 是否为已知稀有度
func (r Rarity) Valid() bool {
	return r.Rank() >= 0
}

// Easing 软保底曲线
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
)

// SoftPity 软保底：保底计数超过 StartAt 后逐步压低低稀有度权重
type SoftPity struct {
	StartAt int    `json:"start_at" yaml:"start_at"`
	Easing  Easing `json:"easing" yaml:"easing"`
}

// Item 奖池物品
type Item struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Rarity   Rarity `json:"rarity" yaml:"rarity"`
	Category string `json:"category,omitempty" yaml:"category"`
}

// PullCost 抽卡消耗
type PullCost struct {
	Currency Currency `json:"currency" yaml:"currency"`
	Single   int64    `json:"single" yaml:"single"`
	Ten      int64    `json:"ten,omitempty" yaml:"ten"` // 为 0 时按 10 × Single
}

// Banner 卡池静态配置
type Banner struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	BaseRates     map[Rarity]int `json:"base_rates" yaml:"base_rates"`
	PityThreshold int            `json:"pity_threshold" yaml:"pity_threshold"`
	SoftPity      *SoftPity      `json:"soft_pity,omitempty" yaml:"soft_pity"`
	Pool          []Item         `json:"pool" yaml:"pool"`
	RateUpItemIDs []string       `json:"rate_up_item_ids,omitempty" yaml:"rate_up_item_ids"`
	Cost          PullCost       `json:"cost" yaml:"cost"`
}

// Tiers 返回卡池的声明顺序：BaseRates 与 Pool 中出现的稀有度，按全局排序从低到高
func (b *Banner) Tiers() []Rarity {
	seen := make(map[Rarity]struct{}, len(rarityRank))
	for r := range b.BaseRates {
		seen[r] = struct{}{}
	}
	for _, it := range b.Pool {
		seen[it.Rarity] = struct{}{}
	}

	tiers := make([]Rarity, 0, len(seen))
	for r := range seen {
		tiers = append(tiers, r)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Rank() < tiers[j].Rank() })
	return tiers
}

// IsHighRarity 是否属于卡池最高的两档
func (b *Banner) IsHighRarity(r Rarity) bool {
	tiers := b.Tiers()
	n := len(tiers)
	for i := n - 1; i >= 0 && i >= n-2; i-- {
		if tiers[i] == r {
			return true
		}
	}
	return false
}

// IsRateUp 物品是否在 UP 列表中
func (b *Banner) IsRateUp(itemID string) bool {
	for _, id := range b.RateUpItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// CostFor 返回 count 连抽的价格
func (b *Banner) CostFor(count int) int64 {
	if count == 10 && b.Cost.Ten > 0 {
		return b.Cost.Ten
	}
	return int64(count) * b.Cost.Single
}

// PityTracker 单个卡池的保底计数
type PityTracker struct {
	BannerID           string `json:"banner_id"`
	PullCount          int    `json:"pull_count"`
	LastHighRarityPull int    `json:"last_high_rarity_pull"`
	GuaranteedRateUp   bool   `json:"guaranteed_rate_up"`
}

// GachaResult 单次抽取结果
type GachaResult struct {
	Item       Item `json:"item"`
	IsNew      bool `json:"is_new"`
	IsPity     bool `json:"is_pity"`
	IsRateUp   bool `json:"is_rate_up"`
	PullNumber int  `json:"pull_number"` // 本保底周期内的序号，从 1 开始
}

// PullSession 一次单抽或十连的记录
type PullSession struct {
	ID        int64         `json:"id"`
	BannerID  string        `json:"banner_id"`
	Results   []GachaResult `json:"results"`
	Timestamp time.Time     `json:"timestamp"`
}

// Clone 深拷贝
func (s PullSession) Clone() PullSession {
	s.Results = append([]GachaResult(nil), s.Results...)
	return s
}
