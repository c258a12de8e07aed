package ledger

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidAmount 金额必须为正数
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInsufficientFunds 余额不足
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrDegenerateRate 兑换汇率未定义或换算结果为 0
	ErrDegenerateRate = errors.New("degenerate exchange rate")
	// ErrSameCurrency 源货币与目标货币相同
	ErrSameCurrency = errors.New("exchange between the same currency")
	// ErrUnknownCurrency 未配置的货币
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrBalanceOverflow 入账后余额超出 int64 上限
	ErrBalanceOverflow = errors.New("balance overflow")
	// ErrInvalidRate 汇率不能为负
	ErrInvalidRate = errors.New("invalid exchange rate")
)
