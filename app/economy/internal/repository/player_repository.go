package repository

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/dao"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gacha"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/gameconfig"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/ledger"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/lk2023060901/xdooria-economy/pkg/idgen"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
)

// PlayerRepository 玩家状态仓储接口，按命名空间读写，缺失时返回初始状态
type PlayerRepository interface {
	// ===== 钱包 =====
	LoadWallet(ctx context.Context, playerID int64) (*ledger.Ledger, error)
	SaveWallet(ctx context.Context, playerID int64, l *ledger.Ledger) error

	// ===== 抽卡 =====
	LoadGacha(ctx context.Context, playerID int64) (*gacha.Manager, error)
	SaveGacha(ctx context.Context, playerID int64, m *gacha.Manager) error

	// ===== 外观 =====
	LoadCosmetics(ctx context.Context, playerID int64) (*model.CosmeticInventory, error)
	SaveCosmetics(ctx context.Context, playerID int64, inv *model.CosmeticInventory) error
}

// playerRepositoryImpl 玩家仓储实现
type playerRepositoryImpl struct {
	store  dao.StateStore
	games  *gameconfig.Store
	rng    gacha.RandomSource
	idGen  idgen.Generator
	logger logger.Logger
}

// NewPlayerRepository 创建玩家仓储，rng 会被所有玩家共享，需可并发使用
func NewPlayerRepository(
	store dao.StateStore,
	games *gameconfig.Store,
	rng gacha.RandomSource,
	idGen idgen.Generator,
	l logger.Logger,
) PlayerRepository {
	return &playerRepositoryImpl{
		store:  store,
		games:  games,
		rng:    rng,
		idGen:  idGen,
		logger: l.Named("repository.player"),
	}
}

func (r *playerRepositoryImpl) LoadWallet(ctx context.Context, playerID int64) (*ledger.Ledger, error) {
	l := r.games.Catalog().NewLedger()

	var state model.WalletState
	found, err := r.store.Load(ctx, model.NamespaceWallet, playerID, &state)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load wallet of player %d", playerID)
	}
	if !found {
		r.logger.Debug("wallet not found, using starting balances", "player_id", playerID)
		return l, nil
	}

	l.Restore(state)
	return l, nil
}

func (r *playerRepositoryImpl) SaveWallet(ctx context.Context, playerID int64, l *ledger.Ledger) error {
	if err := r.store.Save(ctx, model.NamespaceWallet, playerID, l.Snapshot()); err != nil {
		return errors.Wrapf(err, "failed to save wallet of player %d", playerID)
	}
	return nil
}

func (r *playerRepositoryImpl) LoadGacha(ctx context.Context, playerID int64) (*gacha.Manager, error) {
	m := gacha.NewManager(r.rng, gacha.WithIDGenerator(r.idGen))

	var state model.GachaState
	found, err := r.store.Load(ctx, model.NamespaceGacha, playerID, &state)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load gacha state of player %d", playerID)
	}
	if found {
		m.Restore(state)
	}
	return m, nil
}

func (r *playerRepositoryImpl) SaveGacha(ctx context.Context, playerID int64, m *gacha.Manager) error {
	if err := r.store.Save(ctx, model.NamespaceGacha, playerID, m.Snapshot()); err != nil {
		return errors.Wrapf(err, "failed to save gacha state of player %d", playerID)
	}
	return nil
}

func (r *playerRepositoryImpl) LoadCosmetics(ctx context.Context, playerID int64) (*model.CosmeticInventory, error) {
	inv := model.NewCosmeticInventory()

	var state model.CosmeticState
	found, err := r.store.Load(ctx, model.NamespaceCosmetics, playerID, &state)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load cosmetics of player %d", playerID)
	}
	if found {
		inv.Restore(state)
	}
	return inv, nil
}

func (r *playerRepositoryImpl) SaveCosmetics(ctx context.Context, playerID int64, inv *model.CosmeticInventory) error {
	if err := r.store.Save(ctx, model.NamespaceCosmetics, playerID, inv.Snapshot()); err != nil {
		return errors.Wrapf(err, "failed to save cosmetics of player %d", playerID)
	}
	return nil
}
