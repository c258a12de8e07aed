package ledger

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/shopspring/decimal"
)

type pair struct {
	from, to model.Currency
}

// RateTable 货币兑换汇率表，汇率为 1 单位 from 可换得的 to 数量
type RateTable struct {
	rates map[pair]decimal.Decimal
}

// NewRateTable 创建空汇率表
func NewRateTable() *RateTable {
	return &RateTable{rates: make(map[pair]decimal.Decimal)}
}

// Set 设置汇率
func (t *RateTable) Set(from, to model.Currency, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return errors.Wrapf(ErrInvalidRate, "%s->%s: %s", from, to, rate)
	}
	t.rates[pair{from, to}] = rate
	return nil
}

// SetString 解析十进制字符串汇率，如 "0.01"
func (t *RateTable) SetString(from, to model.Currency, rate string) error {
	d, err := decimal.NewFromString(rate)
	if err != nil {
		return errors.Wrapf(ErrInvalidRate, "%s->%s: %q", from, to, rate)
	}
	return t.Set(from, to, d)
}

// Rate 返回汇率，未定义时为 0
func (t *RateTable) Rate(from, to model.Currency) decimal.Decimal {
	if t == nil {
		return decimal.Zero
	}
	return t.rates[pair{from, to}]
}

var maxAmount = decimal.NewFromInt(math.MaxInt64)

// Convert 计算 amount 可兑换的数量，向下取整；结果超出 int64 时返回 ErrBalanceOverflow
func (t *RateTable) Convert(from, to model.Currency, amount int64) (int64, error) {
	v := t.Rate(from, to).Mul(decimal.NewFromInt(amount)).Floor()
	if v.GreaterThan(maxAmount) {
		return 0, errors.Wrapf(ErrBalanceOverflow, "%d %s -> %s", amount, from, to)
	}
	return v.IntPart(), nil
}

// Len 汇率条目数
func (t *RateTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rates)
}
