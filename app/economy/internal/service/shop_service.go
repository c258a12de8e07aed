package service

import (
	"context"
	"time"

	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gameconfig"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/manager"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/metrics"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
)

// PurchaseResult 购买结果
type PurchaseResult struct {
	Item    model.ShopItem `json:"item"`
	IsNew   bool           `json:"is_new"`
	Balance int64          `json:"balance"`
}

// ShopService 外观商店
type ShopService struct {
	logger  logger.Logger
	players *manager.PlayerManager
	games   *gameconfig.Store
	metrics *metrics.EconomyMetrics
	now     func() time.Time
}

func NewShopService(
	l logger.Logger,
	players *manager.PlayerManager,
	games *gameconfig.Store,
	m *metrics.EconomyMetrics,
) *ShopService {
	return &ShopService{
		logger:  l.Named("service.shop"),
		players: players,
		games:   games,
		metrics: m,
		now:     time.Now,
	}
}

// Items 商品列表
func (s *ShopService) Items() []model.ShopItem {
	return s.games.Catalog().ShopItems()
}

// Purchase 购买外观：扣费后放入背包
func (s *ShopService) Purchase(ctx context.Context, playerID int64, itemID string) (*PurchaseResult, error) {
	item, err := s.games.Catalog().ShopItem(itemID)
	if err != nil {
		return nil, err
	}

	var out *PurchaseResult
	err = s.players.Do(ctx, playerID, func(p *manager.Profile) error {
		before := p.Ledger.Snapshot()
		if _, err := p.Ledger.Debit(item.Currency, item.Price, "shop "+item.ItemID); err != nil {
			return err
		}
		isNew := p.Cosmetics.Add(item.ItemID, item.Category, s.now())
		if err := s.players.SavePurchase(ctx, p, before); err != nil {
			return err
		}
		out = &PurchaseResult{
			Item:    item,
			IsNew:   isNew,
			Balance: p.Ledger.GetBalance(item.Currency),
		}
		return nil
	})
	s.metrics.RecordLedgerOp("purchase", ledgerResult(err))
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "cosmetic purchased",
		"player_id", playerID,
		"item_id", item.ItemID,
		"price", item.Price,
		"currency", item.Currency,
	)
	return out, nil
}

// Equip 装备外观，同分类的其他外观自动卸下
func (s *ShopService) Equip(ctx context.Context, playerID int64, itemID string) error {
	return s.players.Do(ctx, playerID, func(p *manager.Profile) error {
		if err := p.Cosmetics.Equip(itemID); err != nil {
			return err
		}
		return s.players.SaveCosmetics(ctx, p)
	})
}

// Inventory 已拥有的外观
func (s *ShopService) Inventory(ctx context.Context, playerID int64) ([]model.OwnedCosmetic, error) {
	var out []model.OwnedCosmetic
	err := s.players.Do(ctx, playerID, func(p *manager.Profile) error {
		out = p.Cosmetics.Items()
		return nil
	})
	return out, err
}
