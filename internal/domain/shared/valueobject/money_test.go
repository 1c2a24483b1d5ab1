package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid money", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(599.00), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(599.00)))
	})

	t.Run("empty currency rejected", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(10), "")
		assert.Error(t, err)
	})

	t.Run("from string", func(t *testing.T) {
		m, err := NewMoneyFromString("1234.56", USD)
		require.NoError(t, err)
		assert.Equal(t, "1234.56", m.StringFixed(2))
	})

	t.Run("invalid string rejected", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", USD)
		assert.Error(t, err)
	})
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoneyUSDFromFloat(100.50)
	b := NewMoneyUSDFromFloat(49.50)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "150.00", sum.StringFixed(2))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "51.00", diff.StringFixed(2))
	})

	t.Run("multiply by int", func(t *testing.T) {
		m := b.MultiplyByInt(3)
		assert.Equal(t, "148.50", m.StringFixed(2))
	})

	t.Run("currency mismatch", func(t *testing.T) {
		eur, _ := NewMoneyFromFloat(10, EUR)
		_, err := a.Add(eur)
		assert.Error(t, err)
		_, err = a.Subtract(eur)
		assert.Error(t, err)
	})
}

func TestMoneyComparison(t *testing.T) {
	a := NewMoneyUSDFromFloat(100)
	b := NewMoneyUSDFromFloat(200)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, a.Equals(NewMoneyUSDFromFloat(100)))
	assert.False(t, a.Equals(b))
}

func TestMoneyApplyFractionDiscount(t *testing.T) {
	price := NewMoneyUSDFromFloat(599)

	t.Run("half off", func(t *testing.T) {
		got := price.ApplyFractionDiscount(decimal.NewFromFloat(0.5))
		assert.Equal(t, "299.50", got.StringFixed(2))
	})

	t.Run("full discount yields zero", func(t *testing.T) {
		got := price.ApplyFractionDiscount(decimal.NewFromInt(1))
		assert.True(t, got.IsZero())
	})

	t.Run("zero fraction leaves price unchanged", func(t *testing.T) {
		got := price.ApplyFractionDiscount(decimal.Zero)
		assert.True(t, got.Equals(price.Round(2)))
	})

	t.Run("rounds to cents", func(t *testing.T) {
		got := NewMoneyUSDFromFloat(100).ApplyFractionDiscount(decimal.NewFromFloat(0.333))
		assert.Equal(t, "66.70", got.StringFixed(2))
	})
}

func TestMoneyJSON(t *testing.T) {
	m := NewMoneyUSDFromFloat(49.99)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"49.99","currency":"USD"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyScan(t *testing.T) {
	t.Run("string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("19.95"))
		assert.Equal(t, "19.95", m.StringFixed(2))
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("nil value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(true))
	})
}
