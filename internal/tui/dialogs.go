package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stockr-hq/stockr-cli/internal/portfolio"
)

// SellDialog collects the share count and price for a sell transaction on one
// holding. Key routing (submit, cancel, focus) is owned by the portfolio
// model; the dialog owns its inputs and validation.
type SellDialog struct {
	Ticker    string
	MaxShares float64
	Shares    textinput.Model
	Price     textinput.Model
	Err       error

	focus int
}

// NewSellDialog creates a sell dialog for the given row. The price input is
// pre-filled with the row's market value when one is known.
func NewSellDialog(row portfolio.Row) *SellDialog {
	shares := textinput.New()
	shares.Placeholder = fmt.Sprintf("up to %s", formatShares(row.Shares))
	shares.CharLimit = 12
	shares.Width = 16
	shares.Focus()

	price := textinput.New()
	price.Placeholder = "price per share"
	price.CharLimit = 12
	price.Width = 16
	if row.MarketValue != nil {
		price.SetValue(fmt.Sprintf("%.2f", *row.MarketValue))
	}

	return &SellDialog{
		Ticker:    row.Ticker,
		MaxShares: row.Shares,
		Shares:    shares,
		Price:     price,
	}
}

// Values parses and validates the inputs.
func (d *SellDialog) Values() (shares, price float64, err error) {
	shares, err = strconv.ParseFloat(strings.TrimSpace(d.Shares.Value()), 64)
	if err != nil || shares <= 0 {
		return 0, 0, fmt.Errorf("enter a positive number of shares")
	}
	if shares > d.MaxShares {
		return 0, 0, fmt.Errorf("only %s shares held", formatShares(d.MaxShares))
	}
	price, err = strconv.ParseFloat(strings.TrimSpace(d.Price.Value()), 64)
	if err != nil || price <= 0 {
		return 0, 0, fmt.Errorf("enter a positive price")
	}
	return shares, price, nil
}

// NextField moves focus between the shares and price inputs.
func (d *SellDialog) NextField() {
	d.focus = (d.focus + 1) % 2
	if d.focus == 0 {
		d.Shares.Focus()
		d.Price.Blur()
	} else {
		d.Shares.Blur()
		d.Price.Focus()
	}
}

// Update forwards a message to the focused input.
func (d *SellDialog) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if d.focus == 0 {
		d.Shares, cmd = d.Shares.Update(msg)
	} else {
		d.Price, cmd = d.Price.Update(msg)
	}
	return cmd
}

// View renders the dialog.
func (d *SellDialog) View() string {
	var b strings.Builder
	b.WriteString(SummaryStyle.Render(fmt.Sprintf("Sell %s", d.Ticker)))
	b.WriteString("\n\n")
	b.WriteString(LabelStyle.Render("Shares: "))
	b.WriteString(d.Shares.View())
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Price:  "))
	b.WriteString(d.Price.View())
	b.WriteString("\n\n")
	if d.Err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.Err)))
		b.WriteString("\n\n")
	}
	b.WriteString(LabelStyle.Render("Press Enter to sell, Tab to switch, Esc to cancel"))
	return b.String()
}

// AddDialog collects a new position: ticker, shares and purchase price.
type AddDialog struct {
	Ticker textinput.Model
	Shares textinput.Model
	Price  textinput.Model
	Err    error

	focus int
}

// NewAddDialog creates an empty add dialog with the ticker input focused.
func NewAddDialog() *AddDialog {
	ticker := textinput.New()
	ticker.Placeholder = "e.g. AAPL"
	ticker.CharLimit = 10
	ticker.Width = 16
	ticker.Focus()

	shares := textinput.New()
	shares.Placeholder = "shares"
	shares.CharLimit = 12
	shares.Width = 16

	price := textinput.New()
	price.Placeholder = "price per share"
	price.CharLimit = 12
	price.Width = 16

	return &AddDialog{
		Ticker: ticker,
		Shares: shares,
		Price:  price,
	}
}

// Values parses and validates the inputs. The ticker is uppercased.
func (d *AddDialog) Values() (ticker string, shares, price float64, err error) {
	ticker = strings.ToUpper(strings.TrimSpace(d.Ticker.Value()))
	if ticker == "" {
		return "", 0, 0, fmt.Errorf("enter a ticker symbol")
	}
	shares, err = strconv.ParseFloat(strings.TrimSpace(d.Shares.Value()), 64)
	if err != nil || shares <= 0 {
		return "", 0, 0, fmt.Errorf("enter a positive number of shares")
	}
	price, err = strconv.ParseFloat(strings.TrimSpace(d.Price.Value()), 64)
	if err != nil || price <= 0 {
		return "", 0, 0, fmt.Errorf("enter a positive price")
	}
	return ticker, shares, price, nil
}

// NextField moves focus across ticker, shares and price.
func (d *AddDialog) NextField() {
	d.focus = (d.focus + 1) % 3
	inputs := []*textinput.Model{&d.Ticker, &d.Shares, &d.Price}
	for i, in := range inputs {
		if i == d.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// Update forwards a message to the focused input.
func (d *AddDialog) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch d.focus {
	case 0:
		d.Ticker, cmd = d.Ticker.Update(msg)
	case 1:
		d.Shares, cmd = d.Shares.Update(msg)
	default:
		d.Price, cmd = d.Price.Update(msg)
	}
	return cmd
}

// View renders the dialog.
func (d *AddDialog) View() string {
	var b strings.Builder
	b.WriteString(SummaryStyle.Render("Add Asset"))
	b.WriteString("\n\n")
	b.WriteString(LabelStyle.Render("Ticker: "))
	b.WriteString(d.Ticker.View())
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Shares: "))
	b.WriteString(d.Shares.View())
	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Price:  "))
	b.WriteString(d.Price.View())
	b.WriteString("\n\n")
	if d.Err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", d.Err)))
		b.WriteString("\n\n")
	}
	b.WriteString(LabelStyle.Render("Press Enter to add, Tab to switch, Esc to cancel"))
	return b.String()
}

// formatShares renders a share count without trailing zeros.
func formatShares(shares float64) string {
	return strconv.FormatFloat(shares, 'f', -1, 64)
}
