package service

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gacha"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gameconfig"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/ledger"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/manager"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/metrics"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
)

// DefaultRecentPulls 状态查询默认返回的抽卡记录数
const DefaultRecentPulls = 10

// PullOutcome 一次抽卡的结果
type PullOutcome struct {
	BannerID string              `json:"banner_id"`
	Results  []model.GachaResult `json:"results"`
	Cost     Balance             `json:"cost"`
	Balance  int64               `json:"balance"` // 扣费后的余额
	Pity     int                 `json:"pity"`
}

// BannerPity 单个卡池的保底进度
type BannerPity struct {
	BannerID  string `json:"banner_id"`
	PullCount int    `json:"pull_count"`
	Threshold int    `json:"threshold"`
}

// GachaStatus 玩家抽卡状态
type GachaStatus struct {
	Pity        []BannerPity         `json:"pity"`
	RecentPulls []model.PullSession  `json:"recent_pulls"`
	RarityStats map[model.Rarity]int `json:"rarity_stats"`
	TotalPulls  int                  `json:"total_pulls"`
	Inventory   map[string]int       `json:"inventory"`
}

// GachaService 抽卡服务
type GachaService struct {
	logger  logger.Logger
	players *manager.PlayerManager
	games   *gameconfig.Store
	metrics *metrics.EconomyMetrics
}

func NewGachaService(
	l logger.Logger,
	players *manager.PlayerManager,
	games *gameconfig.Store,
	m *metrics.EconomyMetrics,
) *GachaService {
	return &GachaService{
		logger:  l.Named("service.gacha"),
		players: players,
		games:   games,
		metrics: m,
	}
}

// Banners 按配置顺序返回卡池
func (s *GachaService) Banners() []*model.Banner {
	return s.games.Catalog().Banners()
}

// Pull 单抽或十连：校验、扣费、抽取、持久化
//
// 余额不足时返回 ledger.ErrInsufficientFunds，余额与保底均不变。
// 抽取或持久化失败时扣费回滚。
func (s *GachaService) Pull(ctx context.Context, playerID int64, bannerID string, count int) (*PullOutcome, error) {
	if count != 1 && count != 10 {
		return nil, errors.Wrapf(gacha.ErrInvalidPullCount, "got %d", count)
	}
	b, err := s.games.Catalog().Banner(bannerID)
	if err != nil {
		return nil, err
	}
	cost := b.CostFor(count)

	var out *PullOutcome
	err = s.players.Do(ctx, playerID, func(p *manager.Profile) error {
		if !p.Ledger.CanAfford(b.Cost.Currency, cost) {
			s.metrics.RecordLedgerOp("pull", ledgerResult(ledger.ErrInsufficientFunds))
			return errors.Wrapf(ledger.ErrInsufficientFunds, "pull %s x%d costs %d %s, have %d",
				b.ID, count, cost, b.Cost.Currency, p.Ledger.GetBalance(b.Cost.Currency))
		}

		before := p.Ledger.Snapshot()
		if cost > 0 {
			if _, err := p.Ledger.Debit(b.Cost.Currency, cost, fmt.Sprintf("gacha %s x%d", b.ID, count)); err != nil {
				s.metrics.RecordLedgerOp("pull", ledgerResult(err))
				return err
			}
		}

		results, err := p.Gacha.ExecutePull(b, count)
		if err != nil {
			p.Ledger.Restore(before)
			return err
		}
		if err := s.players.SavePull(ctx, p, before); err != nil {
			s.metrics.RecordLedgerOp("pull", ledgerResult(err))
			return err
		}
		s.metrics.RecordLedgerOp("pull", ledgerResult(nil))

		out = &PullOutcome{
			BannerID: b.ID,
			Results:  results,
			Cost:     Balance{Currency: b.Cost.Currency, Amount: cost},
			Balance:  p.Ledger.GetBalance(b.Cost.Currency),
			Pity:     p.Gacha.PityCount(b.ID),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	forced := 0
	for _, r := range out.Results {
		s.metrics.RecordPull(b.ID, string(r.Item.Rarity), r.IsPity)
		if r.IsPity {
			forced++
		}
	}
	s.logger.InfoContext(ctx, "gacha pull executed",
		"player_id", playerID,
		"banner_id", b.ID,
		"count", count,
		"forced", forced,
		"pity", out.Pity,
	)
	return out, nil
}

// Status 保底进度、最近 limit 次抽卡与统计；limit <= 0 时取 DefaultRecentPulls
func (s *GachaService) Status(ctx context.Context, playerID int64, limit int) (*GachaStatus, error) {
	if limit <= 0 {
		limit = DefaultRecentPulls
	}
	banners := s.games.Catalog().Banners()

	status := &GachaStatus{}
	err := s.players.Do(ctx, playerID, func(p *manager.Profile) error {
		status.Pity = status.Pity[:0]
		for _, b := range banners {
			status.Pity = append(status.Pity, BannerPity{
				BannerID:  b.ID,
				PullCount: p.Gacha.PityCount(b.ID),
				Threshold: b.PityThreshold,
			})
		}
		status.RecentPulls = p.Gacha.RecentPulls(limit)
		status.RarityStats = p.Gacha.RarityStats()
		status.TotalPulls = p.Gacha.TotalPulls()
		status.Inventory = p.Gacha.Inventory()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// DropRates 玩家下一抽各稀有度的归一化概率（不含硬保底）
func (s *GachaService) DropRates(ctx context.Context, playerID int64, bannerID string) (map[model.Rarity]float64, error) {
	b, err := s.games.Catalog().Banner(bannerID)
	if err != nil {
		return nil, err
	}
	var weights map[model.Rarity]float64
	err = s.players.Do(ctx, playerID, func(p *manager.Profile) error {
		weights = gacha.ComputeDropRates(b, p.Gacha.PityCount(b.ID)+1)
		return nil
	})
	if err != nil {
		return nil, err
	}

	total := 0.0
	for _, w := range weights {
		total += w
	}
	rates := make(map[model.Rarity]float64, len(weights))
	for r, w := range weights {
		if total > 0 {
			rates[r] = w / total
		}
	}
	return rates, nil
}

// Simulate 对卡池做离线模拟，seed 为 0 时使用系统随机源
func (s *GachaService) Simulate(bannerID string, pulls int, seed uint64) (gacha.SimulationReport, error) {
	b, err := s.games.Catalog().Banner(bannerID)
	if err != nil {
		return gacha.SimulationReport{}, err
	}
	rng := gacha.DefaultRNG()
	if seed != 0 {
		rng = gacha.NewSeededRNG(seed)
	}
	return gacha.Simulate(b, pulls, rng)
}
