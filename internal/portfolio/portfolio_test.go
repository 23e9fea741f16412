package portfolio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holdingsFixture() []Holding {
	return []Holding{
		{Ticker: "AAPL", Shares: 10, AverageCost: 150, BookValue: 1500},
		{Ticker: "MSFT", Shares: 5, AverageCost: 200, BookValue: 1000},
	}
}

func TestWithAllocation_Percentages(t *testing.T) {
	rows := WithAllocation(holdingsFixture())

	require.Len(t, rows, 2)
	assert.InDelta(t, 60.0, rows[0].Percentage, 1e-6)
	assert.InDelta(t, 40.0, rows[1].Percentage, 1e-6)
}

func TestWithAllocation_PercentagesSumTo100(t *testing.T) {
	tests := []struct {
		name     string
		holdings []Holding
	}{
		{
			name:     "two holdings",
			holdings: holdingsFixture(),
		},
		{
			name: "uneven book values",
			holdings: []Holding{
				{Ticker: "A", BookValue: 1},
				{Ticker: "B", BookValue: 3},
				{Ticker: "C", BookValue: 7},
				{Ticker: "D", BookValue: 0.01},
			},
		},
		{
			name:     "single holding",
			holdings: []Holding{{Ticker: "AAPL", BookValue: 42}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := WithAllocation(tt.holdings)
			var sum float64
			for _, r := range rows {
				sum += r.Percentage
			}
			assert.InDelta(t, 100.0, sum, 1e-6)
		})
	}
}

func TestWithAllocation_ZeroBookValue(t *testing.T) {
	rows := WithAllocation([]Holding{
		{Ticker: "AAPL", BookValue: 0},
		{Ticker: "MSFT", BookValue: 0},
	})

	for _, r := range rows {
		assert.Zero(t, r.Percentage)
		assert.False(t, math.IsNaN(r.Percentage))
	}
}

func TestWithAllocation_Empty(t *testing.T) {
	rows := WithAllocation(nil)
	assert.Empty(t, rows)
}

func TestWithAllocation_PaletteWraps(t *testing.T) {
	holdings := make([]Holding, 8)
	for i := range holdings {
		holdings[i] = Holding{Ticker: string(rune('A' + i)), BookValue: 1}
	}

	rows := WithAllocation(holdings)

	require.Len(t, Palette, 6)
	assert.Equal(t, rows[0].Color, rows[6].Color)
	assert.Equal(t, rows[1].Color, rows[7].Color)
	assert.NotEqual(t, rows[0].Color, rows[1].Color)

	// Deterministic across calls
	again := WithAllocation(holdings)
	for i := range rows {
		assert.Equal(t, rows[i].Color, again[i].Color)
	}
}

func TestMergePrices(t *testing.T) {
	rows := WithAllocation(holdingsFixture())
	applePrice := 210.0

	merged := MergePrices(rows, map[string]*float64{
		"AAPL": &applePrice,
		"MSFT": nil, // unavailable sentinel
	})

	require.Len(t, merged, 2)
	require.NotNil(t, merged[0].MarketValue)
	assert.Equal(t, 210.0, *merged[0].MarketValue)
	assert.Nil(t, merged[1].MarketValue)

	// Percentages unchanged by the merge
	assert.InDelta(t, 60.0, merged[0].Percentage, 1e-6)
	assert.InDelta(t, 40.0, merged[1].Percentage, 1e-6)
}

func TestMergePrices_MissingTicker(t *testing.T) {
	rows := WithAllocation(holdingsFixture())

	merged := MergePrices(rows, map[string]*float64{})

	for _, r := range merged {
		assert.Nil(t, r.MarketValue)
	}
}

func TestMergePrices_OneFailureDoesNotTouchSiblings(t *testing.T) {
	rows := WithAllocation(holdingsFixture())
	applePrice := 210.0
	first := MergePrices(rows, map[string]*float64{"AAPL": &applePrice})

	// A later merge where AAPL fails must not disturb MSFT's row or any
	// percentage.
	msftPrice := 430.0
	second := MergePrices(first, map[string]*float64{"MSFT": &msftPrice})

	assert.Nil(t, second[0].MarketValue)
	require.NotNil(t, second[1].MarketValue)
	assert.Equal(t, 430.0, *second[1].MarketValue)
	assert.InDelta(t, 60.0, second[0].Percentage, 1e-6)
	assert.InDelta(t, 40.0, second[1].Percentage, 1e-6)
}

func TestMergePrices_InputUntouched(t *testing.T) {
	rows := WithAllocation(holdingsFixture())
	price := 99.0

	_ = MergePrices(rows, map[string]*float64{"AAPL": &price})

	assert.Nil(t, rows[0].MarketValue)
}

func TestTotals(t *testing.T) {
	rows := WithAllocation(holdingsFixture())
	assert.InDelta(t, 2500.0, TotalBookValue(rows), 1e-6)

	applePrice := 200.0
	merged := MergePrices(rows, map[string]*float64{"AAPL": &applePrice})
	total, known := TotalMarketValue(merged)
	assert.InDelta(t, 2000.0, total, 1e-6)
	assert.Equal(t, 1, known)
}
