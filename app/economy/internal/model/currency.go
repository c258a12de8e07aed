package model

import "time"

// Currency 货币名称
type Currency string

const (
	CurrencyGems     Currency = "gems"
	CurrencyCoins    Currency = "coins"
	CurrencyTickets  Currency = "tickets"
	CurrencyTokens   Currency = "tokens"
	CurrencyCrystals Currency = "crystals"
)

// TransactionKind 账本流水类型
type TransactionKind string

const (
	KindReward   TransactionKind = "reward"
	KindSpend    TransactionKind = "spend"
	KindExchange TransactionKind = "exchange"
)

// Transaction 账本流水，写入后不再修改
type Transaction struct {
	ID           string          `json:"id"`
	Kind         TransactionKind `json:"kind"`
	Currency     Currency        `json:"currency"`
	Amount       int64           `json:"amount"` // 入账为正，出账为负
	BalanceAfter int64           `json:"balance_after"`
	Description  string          `json:"description"`
	Timestamp    time.Time       `json:"timestamp"`
}
