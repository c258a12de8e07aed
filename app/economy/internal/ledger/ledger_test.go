package ledger

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/xdooria-economy/app/economy/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCurrencies = []model.Currency{
	model.CurrencyGems, model.CurrencyCoins, model.CurrencyTickets, model.CurrencyTokens, model.CurrencyCrystals,
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	rates := NewRateTable()
	require.NoError(t, rates.SetString(model.CurrencyCoins, model.CurrencyGems, "0.01"))
	require.NoError(t, rates.SetString(model.CurrencyGems, model.CurrencyCoins, "100"))
	require.NoError(t, rates.SetString(model.CurrencyGems, model.CurrencyTickets, "0"))

	seq := 0
	return New(testCurrencies, map[model.Currency]int64{
		model.CurrencyCoins: 5000,
		model.CurrencyGems:  100,
	}, rates,
		WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("tx-%d", seq) }),
	)
}

func TestDebitInsufficientFunds(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Debit(model.CurrencyGems, 150, "test")
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	assert.Equal(t, int64(100), l.GetBalance(model.CurrencyGems))
	assert.Empty(t, l.History(10))
}

func TestCreditBalanceAfter(t *testing.T) {
	l := newTestLedger(t)

	tx, err := l.Credit(model.CurrencyCoins, 50, "level up bonus", "")
	require.NoError(t, err)
	assert.Equal(t, model.KindReward, tx.Kind)
	assert.Equal(t, int64(5050), l.GetBalance(model.CurrencyCoins))

	h := l.History(1)
	require.Len(t, h, 1)
	assert.Equal(t, int64(5050), h[0].BalanceAfter)
	assert.Equal(t, "tx-1", h[0].ID)
}

func TestDebit(t *testing.T) {
	l := newTestLedger(t)

	tx, err := l.Debit(model.CurrencyGems, 100, "pull")
	require.NoError(t, err)
	assert.Equal(t, int64(-100), tx.Amount)
	assert.Equal(t, model.KindSpend, tx.Kind)
	assert.Equal(t, int64(0), tx.BalanceAfter)
	assert.Equal(t, int64(0), l.GetBalance(model.CurrencyGems))
}

func TestInvalidArguments(t *testing.T) {
	l := newTestLedger(t)

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"credit zero", func() error { _, err := l.Credit(model.CurrencyCoins, 0, "", ""); return err }, ErrInvalidAmount},
		{"debit negative", func() error { _, err := l.Debit(model.CurrencyCoins, -5, ""); return err }, ErrInvalidAmount},
		{"credit unknown", func() error { _, err := l.Credit("stars", 5, "", ""); return err }, ErrUnknownCurrency},
		{"debit unknown", func() error { _, err := l.Debit("stars", 5, ""); return err }, ErrUnknownCurrency},
		{"exchange zero", func() error { _, err := l.Exchange(model.CurrencyCoins, model.CurrencyGems, 0); return err }, ErrInvalidAmount},
		{"exchange same", func() error { _, err := l.Exchange(model.CurrencyGems, model.CurrencyGems, 10); return err }, ErrSameCurrency},
		{"exchange unknown", func() error { _, err := l.Exchange("stars", model.CurrencyGems, 10); return err }, ErrUnknownCurrency},
		{"exchange undefined rate", func() error { _, err := l.Exchange(model.CurrencyTickets, model.CurrencyGems, 1); return err }, ErrDegenerateRate},
		{"exchange zero rate", func() error { _, err := l.Exchange(model.CurrencyGems, model.CurrencyTickets, 10); return err }, ErrDegenerateRate},
		{"exchange rounds to zero", func() error { _, err := l.Exchange(model.CurrencyCoins, model.CurrencyGems, 99); return err }, ErrDegenerateRate},
		{"exchange insufficient", func() error { _, err := l.Exchange(model.CurrencyGems, model.CurrencyCoins, 101); return err }, ErrInsufficientFunds},
		{"set unknown", func() error { return l.SetBalance("stars", 1) }, ErrUnknownCurrency},
		{"credit overflow", func() error { _, err := l.Credit(model.CurrencyCoins, math.MaxInt64, "", ""); return err }, ErrBalanceOverflow},
		{"exchange product overflow", func() error {
			_, err := l.Exchange(model.CurrencyGems, model.CurrencyCoins, math.MaxInt64/40)
			return err
		}, ErrBalanceOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := l.Balances()
			err := tt.run()
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, before, l.Balances())
			assert.Empty(t, l.History(10))
		})
	}
}

func TestExchangeConservation(t *testing.T) {
	l := newTestLedger(t)

	received, err := l.Exchange(model.CurrencyCoins, model.CurrencyGems, 1250)
	require.NoError(t, err)
	assert.Equal(t, int64(12), received)
	assert.Equal(t, int64(3750), l.GetBalance(model.CurrencyCoins))
	assert.Equal(t, int64(112), l.GetBalance(model.CurrencyGems))

	h := l.History(10)
	require.Len(t, h, 2)
	assert.Equal(t, model.CurrencyGems, h[0].Currency)
	assert.Equal(t, int64(12), h[0].Amount)
	assert.Equal(t, int64(112), h[0].BalanceAfter)
	assert.Equal(t, model.CurrencyCoins, h[1].Currency)
	assert.Equal(t, int64(-1250), h[1].Amount)
	for _, tx := range h {
		assert.Equal(t, model.KindExchange, tx.Kind)
	}
}

func TestTransactionLogBound(t *testing.T) {
	l := newTestLedger(t)

	for i := 1; i <= MaxTransactions+20; i++ {
		_, err := l.Credit(model.CurrencyTokens, 1, fmt.Sprintf("grant %d", i), "")
		require.NoError(t, err)
	}

	h := l.History(1000)
	require.Len(t, h, MaxTransactions)
	assert.Equal(t, fmt.Sprintf("grant %d", MaxTransactions+20), h[0].Description)
	assert.Equal(t, "grant 21", h[MaxTransactions-1].Description)
	assert.Equal(t, int64(MaxTransactions+20), l.GetBalance(model.CurrencyTokens))
}

func TestHistoryLimit(t *testing.T) {
	l := newTestLedger(t)
	for i := 0; i < 3; i++ {
		_, _ = l.Credit(model.CurrencyCoins, 1, "", "")
	}

	assert.Empty(t, l.History(0))
	assert.Empty(t, l.History(-1))
	assert.Len(t, l.History(2), 2)
	assert.Len(t, l.History(10), 3)

	h := l.History(1)
	h[0].Amount = 999
	assert.Equal(t, int64(1), l.History(1)[0].Amount)
}

func TestNonNegativity(t *testing.T) {
	l := newTestLedger(t)
	ops := []func(){
		func() { _, _ = l.Debit(model.CurrencyGems, 60, "") },
		func() { _, _ = l.Debit(model.CurrencyGems, 60, "") },
		func() { _, _ = l.Exchange(model.CurrencyGems, model.CurrencyCoins, 50) },
		func() { _, _ = l.Exchange(model.CurrencyCoins, model.CurrencyGems, 10000) },
		func() { _, _ = l.Credit(model.CurrencyGems, 7, "", "") },
		func() { _ = l.SetBalance(model.CurrencyCoins, -300) },
		func() { _, _ = l.Debit(model.CurrencyCoins, 1, "") },
	}
	for _, op := range ops {
		op()
		for _, c := range l.Currencies() {
			assert.GreaterOrEqual(t, l.GetBalance(c), int64(0), "currency %s", c)
		}
	}
}

func TestSetBalanceAndReset(t *testing.T) {
	l := newTestLedger(t)

	require.NoError(t, l.SetBalance(model.CurrencyGems, 9999))
	assert.Equal(t, int64(9999), l.GetBalance(model.CurrencyGems))
	assert.Empty(t, l.History(10))

	_, _ = l.Credit(model.CurrencyCoins, 10, "", "")
	l.Reset()
	assert.Equal(t, int64(100), l.GetBalance(model.CurrencyGems))
	assert.Equal(t, int64(5000), l.GetBalance(model.CurrencyCoins))
	assert.Empty(t, l.History(10))
}

func TestCanAfford(t *testing.T) {
	l := newTestLedger(t)
	assert.True(t, l.CanAfford(model.CurrencyGems, 100))
	assert.True(t, l.CanAfford(model.CurrencyGems, 0))
	assert.False(t, l.CanAfford(model.CurrencyGems, 101))
	assert.False(t, l.CanAfford(model.CurrencyGems, -1))
	assert.Equal(t, int64(0), l.GetBalance("stars"))
}

func TestSnapshotRestore(t *testing.T) {
	l := newTestLedger(t)
	_, _ = l.Credit(model.CurrencyCoins, 10, "bonus", "")
	snap := l.Snapshot()

	other := newTestLedger(t)
	snap.Balances[model.CurrencyTickets] = -3
	snap.Balances["stars"] = 5
	delete(snap.Balances, model.CurrencyGems)
	other.Restore(snap)

	assert.Equal(t, int64(5010), other.GetBalance(model.CurrencyCoins))
	assert.Equal(t, int64(100), other.GetBalance(model.CurrencyGems))
	assert.Equal(t, int64(0), other.GetBalance(model.CurrencyTickets))
	assert.Equal(t, int64(0), other.GetBalance("stars"))
	assert.Len(t, other.History(10), 1)
}

func TestRateTable(t *testing.T) {
	rt := NewRateTable()
	assert.True(t, errors.Is(rt.SetString(model.CurrencyCoins, model.CurrencyGems, "-1"), ErrInvalidRate))
	assert.True(t, errors.Is(rt.SetString(model.CurrencyCoins, model.CurrencyGems, "abc"), ErrInvalidRate))
	require.NoError(t, rt.SetString(model.CurrencyCoins, model.CurrencyGems, "0.015"))
	require.NoError(t, rt.SetString(model.CurrencyGems, model.CurrencyCoins, "80"))

	tests := []struct {
		from, to model.Currency
		amount   int64
		want     int64
		wantErr  error
	}{
		{model.CurrencyCoins, model.CurrencyGems, 100, 1, nil},
		{model.CurrencyCoins, model.CurrencyGems, 1000, 15, nil},
		{model.CurrencyGems, model.CurrencyTickets, 1000, 0, nil},
		{model.CurrencyGems, model.CurrencyCoins, math.MaxInt64 / 80, math.MaxInt64 / 80 * 80, nil},
		{model.CurrencyGems, model.CurrencyCoins, math.MaxInt64 / 40, 0, ErrBalanceOverflow},
	}
	for _, tt := range tests {
		got, err := rt.Convert(tt.from, tt.to, tt.amount)
		if tt.wantErr != nil {
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestBalanceUpperBound(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.Credit(model.CurrencyCoins, math.MaxInt64-5000, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), l.GetBalance(model.CurrencyCoins))

	_, err = l.Credit(model.CurrencyCoins, 1, "", "")
	assert.True(t, errors.Is(err, ErrBalanceOverflow))

	// 汇率正常，但到账后余额会溢出
	_, err = l.Exchange(model.CurrencyGems, model.CurrencyCoins, 1)
	assert.True(t, errors.Is(err, ErrBalanceOverflow))
	assert.Equal(t, int64(100), l.GetBalance(model.CurrencyGems))
	assert.Equal(t, int64(math.MaxInt64), l.GetBalance(model.CurrencyCoins))
	assert.Len(t, l.History(10), 1)
}
