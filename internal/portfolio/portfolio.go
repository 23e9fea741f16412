// Package portfolio holds the portfolio data model and the pure derivation
// steps that turn backend holdings into display rows.
package portfolio

import "github.com/charmbracelet/lipgloss"

// Holding is one portfolio position as returned by the backend. BookValue is
// supplied by the backend (shares × average cost) and is not recomputed here.
type Holding struct {
	Ticker      string  `json:"ticker"`
	Shares      float64 `json:"shares"`
	AverageCost float64 `json:"average_cost"`
	BookValue   float64 `json:"book_value"`
}

// Row is a display row derived from a Holding. MarketValue is nil while the
// price is unknown or unavailable, which is distinct from a zero price.
// Percentage and Color depend only on the holdings set, never on prices.
type Row struct {
	Holding

	MarketValue *float64
	Percentage  float64
	Color       lipgloss.Color
}

// Palette is the fixed set of allocation colors. Assignment is by row
// position, wrapping when the portfolio has more rows than colors.
var Palette = []lipgloss.Color{
	"#FF6384",
	"#36A2EB",
	"#FFCE56",
	"#4BC0C0",
	"#9966FF",
	"#FF9F40",
}

// WithAllocation derives fresh display rows from the given holdings: each
// row's Percentage is its share of total book value (every row 0 when the
// total is 0) and its Color is drawn from the palette by row index. Market
// values start unknown.
func WithAllocation(holdings []Holding) []Row {
	var total float64
	for _, h := range holdings {
		total += h.BookValue
	}

	rows := make([]Row, len(holdings))
	for i, h := range holdings {
		pct := 0.0
		if total > 0 {
			pct = h.BookValue / total * 100
		}
		rows[i] = Row{
			Holding:    h,
			Percentage: pct,
			Color:      Palette[i%len(Palette)],
		}
	}
	return rows
}

// MergePrices returns a copy of rows with each MarketValue overwritten by the
// fetched price for its ticker. A missing or nil entry marks the price
// unavailable. All other fields pass through unchanged.
func MergePrices(rows []Row, priceByTicker map[string]*float64) []Row {
	merged := make([]Row, len(rows))
	for i, r := range rows {
		r.MarketValue = priceByTicker[r.Ticker]
		merged[i] = r
	}
	return merged
}

// TotalBookValue sums the book value across rows.
func TotalBookValue(rows []Row) float64 {
	var total float64
	for _, r := range rows {
		total += r.BookValue
	}
	return total
}

// TotalMarketValue sums the known market values across rows. The second
// return reports how many rows had a known price.
func TotalMarketValue(rows []Row) (float64, int) {
	var total float64
	known := 0
	for _, r := range rows {
		if r.MarketValue != nil {
			total += *r.MarketValue * r.Shares
			known++
		}
	}
	return total, known
}
