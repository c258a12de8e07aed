package ledger

import (
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
)

// MaxTransactions 流水保留上限
const MaxTransactions = 100

// Ledger 单个玩家的货币账本，非并发安全，由调用方串行访问
type Ledger struct {
	currencies   []model.Currency
	defaults     map[model.Currency]int64
	balances     map[model.Currency]int64
	transactions []model.Transaction // 新的在前
	rates        *RateTable

	now   func() time.Time
	newID func() string
}

// Option 账本选项
type Option func(*Ledger)

// WithClock 设置时钟
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator 设置流水 ID 生成器
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) { l.newID = fn }
}

// New 创建账本，currencies 的顺序即展示顺序，starting 为初始余额
func New(currencies []model.Currency, starting map[model.Currency]int64, rates *RateTable, opts ...Option) *Ledger {
	l := &Ledger{
		currencies: append([]model.Currency(nil), currencies...),
		defaults:   make(map[model.Currency]int64, len(currencies)),
		rates:      rates,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, c := range currencies {
		v := starting[c]
		if v < 0 {
			v = 0
		}
		l.defaults[c] = v
	}
	for _, opt := range opts {
		opt(l)
	}
	l.Reset()
	return l
}

func (l *Ledger) known(c model.Currency) bool {
	_, ok := l.defaults[c]
	return ok
}

// GetBalance 查询余额，未知货币返回 0
func (l *Ledger) GetBalance(c model.Currency) int64 {
	return l.balances[c]
}

// CanAfford amount 非负且余额足够
func (l *Ledger) CanAfford(c model.Currency, amount int64) bool {
	return amount >= 0 && l.balances[c] >= amount
}

// Credit 入账，kind 为空时记为 reward；余额将超出 int64 时返回 ErrBalanceOverflow 且不变更
func (l *Ledger) Credit(c model.Currency, amount int64, description string, kind model.TransactionKind) (model.Transaction, error) {
	if amount <= 0 {
		return model.Transaction{}, errors.Wrapf(ErrInvalidAmount, "credit %d %s", amount, c)
	}
	if !l.known(c) {
		return model.Transaction{}, errors.Wrapf(ErrUnknownCurrency, "%s", c)
	}
	if amount > math.MaxInt64-l.balances[c] {
		return model.Transaction{}, errors.Wrapf(ErrBalanceOverflow, "credit %d %s, have %d", amount, c, l.balances[c])
	}
	if kind == "" {
		kind = model.KindReward
	}
	l.balances[c] += amount
	return l.record(kind, c, amount, description), nil
}

// Debit 出账，余额不足时返回 ErrInsufficientFunds 且不产生任何变更
func (l *Ledger) Debit(c model.Currency, amount int64, description string) (model.Transaction, error) {
	if amount <= 0 {
		return model.Transaction{}, errors.Wrapf(ErrInvalidAmount, "debit %d %s", amount, c)
	}
	if !l.known(c) {
		return model.Transaction{}, errors.Wrapf(ErrUnknownCurrency, "%s", c)
	}
	if !l.CanAfford(c, amount) {
		return model.Transaction{}, errors.Wrapf(ErrInsufficientFunds, "need %d %s, have %d", amount, c, l.balances[c])
	}
	l.balances[c] -= amount
	return l.record(model.KindSpend, c, -amount, description), nil
}

// Exchange 按汇率兑换，返回到账数量；流水依次追加出账与入账两条
func (l *Ledger) Exchange(from, to model.Currency, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, errors.Wrapf(ErrInvalidAmount, "exchange %d %s", amount, from)
	}
	if from == to {
		return 0, errors.Wrapf(ErrSameCurrency, "%s", from)
	}
	if !l.known(from) {
		return 0, errors.Wrapf(ErrUnknownCurrency, "%s", from)
	}
	if !l.known(to) {
		return 0, errors.Wrapf(ErrUnknownCurrency, "%s", to)
	}

	received, err := l.rates.Convert(from, to, amount)
	if err != nil {
		return 0, err
	}
	if received <= 0 {
		return 0, errors.Wrapf(ErrDegenerateRate, "%d %s -> %s", amount, from, to)
	}
	if !l.CanAfford(from, amount) {
		return 0, errors.Wrapf(ErrInsufficientFunds, "need %d %s, have %d", amount, from, l.balances[from])
	}
	if received > math.MaxInt64-l.balances[to] {
		return 0, errors.Wrapf(ErrBalanceOverflow, "exchange %d %s -> %d %s, have %d", amount, from, received, to, l.balances[to])
	}

	l.balances[from] -= amount
	l.record(model.KindExchange, from, -amount, "exchange to "+string(to))
	l.balances[to] += received
	l.record(model.KindExchange, to, received, "exchange from "+string(from))
	return received, nil
}

// SetBalance 直接覆盖余额，不记流水，负数按 0 处理
func (l *Ledger) SetBalance(c model.Currency, amount int64) error {
	if !l.known(c) {
		return errors.Wrapf(ErrUnknownCurrency, "%s", c)
	}
	if amount < 0 {
		amount = 0
	}
	l.balances[c] = amount
	return nil
}

// Reset 恢复初始余额并清空流水
func (l *Ledger) Reset() {
	l.balances = make(map[model.Currency]int64, len(l.defaults))
	for c, v := range l.defaults {
		l.balances[c] = v
	}
	l.transactions = nil
}

// History 返回最近 limit 条流水，新的在前
func (l *Ledger) History(limit int) []model.Transaction {
	if limit <= 0 {
		return []model.Transaction{}
	}
	if limit > len(l.transactions) {
		limit = len(l.transactions)
	}
	return append([]model.Transaction{}, l.transactions[:limit]...)
}

// Currencies 返回配置的货币列表
func (l *Ledger) Currencies() []model.Currency {
	return append([]model.Currency(nil), l.currencies...)
}

// Balances 返回全部余额副本
func (l *Ledger) Balances() map[model.Currency]int64 {
	out := make(map[model.Currency]int64, len(l.balances))
	for c, v := range l.balances {
		out[c] = v
	}
	return out
}

func (l *Ledger) record(kind model.TransactionKind, c model.Currency, amount int64, description string) model.Transaction {
	tx := model.Transaction{
		ID:           l.newID(),
		Kind:         kind,
		Currency:     c,
		Amount:       amount,
		BalanceAfter: l.balances[c],
		Description:  description,
		Timestamp:    l.now(),
	}

	n := len(l.transactions) + 1
	if n > MaxTransactions {
		n = MaxTransactions
	}
	txs := make([]model.Transaction, n)
	txs[0] = tx
	copy(txs[1:], l.transactions)
	l.transactions = txs
	return tx
}

// Snapshot 导出快照
func (l *Ledger) Snapshot() model.WalletState {
	return model.WalletState{
		Balances:     l.Balances(),
		Transactions: l.History(MaxTransactions),
	}
}

// Restore 从快照恢复；缺失的货币取初始值，负数归零，未配置的货币丢弃
func (l *Ledger) Restore(state model.WalletState) {
	l.Reset()
	for c, v := range state.Balances {
		if !l.known(c) {
			continue
		}
		if v < 0 {
			v = 0
		}
		l.balances[c] = v
	}
	n := len(state.Transactions)
	if n > MaxTransactions {
		n = MaxTransactions
	}
	l.transactions = append([]model.Transaction(nil), state.Transactions[:n]...)
}
