package service

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/ledger"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/manager"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/metrics"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/lk2023060901/xdooria-economy/pkg/logger"
)

// Balance 单个货币余额
type Balance struct {
	Currency model.Currency `json:"currency"`
	Amount   int64          `json:"amount"`
}

// WalletService 钱包服务
type WalletService struct {
	logger  logger.Logger
	players *manager.PlayerManager
	metrics *metrics.EconomyMetrics
}

func NewWalletService(l logger.Logger, players *manager.PlayerManager, m *metrics.EconomyMetrics) *WalletService {
	return &WalletService{
		logger:  l.Named("service.wallet"),
		players: players,
		metrics: m,
	}
}

// Balances 按配置顺序返回余额
func (s *WalletService) Balances(ctx context.Context, playerID int64) ([]Balance, error) {
	var out []Balance
	err := s.players.Do(ctx, playerID, func(p *manager.Profile) error {
		out = balancesOf(p.Ledger)
		return nil
	})
	return out, err
}

func balancesOf(l *ledger.Ledger) []Balance {
	currencies := l.Currencies()
	out := make([]Balance, 0, len(currencies))
	for _, c := range currencies {
		out = append(out, Balance{Currency: c, Amount: l.GetBalance(c)})
	}
	return out
}

// History 最近 limit 条流水，新的在前
func (s *WalletService) History(ctx context.Context, playerID int64, limit int) ([]model.Transaction, error) {
	var out []model.Transaction
	err := s.players.Do(ctx, playerID, func(p *manager.Profile) error {
		out = p.Ledger.History(limit)
		return nil
	})
	return out, err
}

// Credit 入账（奖励）
func (s *WalletService) Credit(ctx context.Context, playerID int64, c model.Currency, amount int64, description string) (model.Transaction, error) {
	var tx model.Transaction
	err := s.mutate(ctx, playerID, "credit", func(p *manager.Profile) error {
		var err error
		tx, err = p.Ledger.Credit(c, amount, description, model.KindReward)
		return err
	})
	return tx, err
}

// Debit 出账
func (s *WalletService) Debit(ctx context.Context, playerID int64, c model.Currency, amount int64, description string) (model.Transaction, error) {
	var tx model.Transaction
	err := s.mutate(ctx, playerID, "debit", func(p *manager.Profile) error {
		var err error
		tx, err = p.Ledger.Debit(c, amount, description)
		return err
	})
	return tx, err
}

// Exchange 兑换货币，返回到账数量
func (s *WalletService) Exchange(ctx context.Context, playerID int64, from, to model.Currency, amount int64) (int64, error) {
	var received int64
	err := s.mutate(ctx, playerID, "exchange", func(p *manager.Profile) error {
		var err error
		received, err = p.Ledger.Exchange(from, to, amount)
		return err
	})
	if err == nil {
		s.logger.InfoContext(ctx, "currency exchanged",
			"player_id", playerID,
			"from", from,
			"to", to,
			"amount", amount,
			"received", received,
		)
	}
	return received, err
}

// SetBalance 直接设置余额（管理操作）
func (s *WalletService) SetBalance(ctx context.Context, playerID int64, c model.Currency, amount int64) error {
	err := s.mutate(ctx, playerID, "set_balance", func(p *manager.Profile) error {
		return p.Ledger.SetBalance(c, amount)
	})
	if err == nil {
		s.logger.WarnContext(ctx, "balance overridden",
			"player_id", playerID,
			"currency", c,
			"amount", amount,
		)
	}
	return err
}

// Reset 恢复初始余额并清空流水
func (s *WalletService) Reset(ctx context.Context, playerID int64) error {
	return s.mutate(ctx, playerID, "reset", func(p *manager.Profile) error {
		p.Ledger.Reset()
		return nil
	})
}

// mutate 在玩家锁内执行账本变更并持久化钱包
func (s *WalletService) mutate(ctx context.Context, playerID int64, op string, fn func(p *manager.Profile) error) error {
	err := s.players.Do(ctx, playerID, func(p *manager.Profile) error {
		if err := fn(p); err != nil {
			return err
		}
		return s.players.SaveWallet(ctx, p)
	})
	s.metrics.RecordLedgerOp(op, ledgerResult(err))
	if err != nil && isRecoverable(err) {
		s.logger.InfoContext(ctx, "ledger operation rejected",
			"player_id", playerID,
			"op", op,
			"reason", err.Error(),
		)
	}
	return err
}

// isRecoverable 可恢复的业务错误，不改变任何状态
func isRecoverable(err error) bool {
	return errors.Is(err, ledger.ErrInsufficientFunds) ||
		errors.Is(err, ledger.ErrDegenerateRate) ||
		errors.Is(err, ledger.ErrSameCurrency) ||
		errors.Is(err, ledger.ErrInvalidAmount) ||
		errors.Is(err, ledger.ErrBalanceOverflow)
}

func ledgerResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "insufficient_funds"
	case isRecoverable(err), errors.Is(err, ledger.ErrUnknownCurrency):
		return "rejected"
	default:
		return "error"
	}
}
