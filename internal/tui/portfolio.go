package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/stockr-hq/stockr-cli/internal/api"
	"github.com/stockr-hq/stockr-cli/internal/portfolio"
)

// PortfolioState tracks the holdings load lifecycle.
type PortfolioState int

const (
	// PortfolioStateIdle means no portfolio is selected.
	PortfolioStateIdle PortfolioState = iota
	// PortfolioStateLoading means a holdings fetch is in flight.
	PortfolioStateLoading
	// PortfolioStateReady means holdings are loaded (possibly empty).
	PortfolioStateReady
	// PortfolioStateError means the last holdings fetch failed.
	PortfolioStateError
)

const allocationBarWidth = 30

// PortfolioModel drives the portfolio panel: a holdings table with derived
// allocation, per-row action menu, and sell/add dialogs. Prices load after
// holdings and refresh independently; a prior table stays visible while
// either is in flight.
type PortfolioModel struct {
	client *api.Client
	logger zerolog.Logger

	PortfolioID string
	State       PortfolioState
	Rows        []portfolio.Row
	Err         error

	// PricesLoading is independent of State: holdings can be ready while a
	// price refresh is still settling.
	PricesLoading bool
	LastUpdated   time.Time

	// MenuTicker is the ticker whose action menu is open, or empty. At most
	// one menu is open at a time.
	MenuTicker string
	Sell       *SellDialog
	Add        *AddDialog

	Table table.Model
}

// NewPortfolioModel creates the portfolio panel for the given portfolio id.
func NewPortfolioModel(client *api.Client, logger zerolog.Logger, portfolioID string) PortfolioModel {
	columns := []table.Column{
		{Title: "Ticker", Width: 8},
		{Title: "Shares", Width: 10},
		{Title: "Avg Cost", Width: 10},
		{Title: "Book Value", Width: 12},
		{Title: "Price", Width: 10},
		{Title: "Portfolio %", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(TableStyles())

	state := PortfolioStateIdle
	if portfolioID != "" {
		state = PortfolioStateLoading
	}

	return PortfolioModel{
		client:      client,
		logger:      logger,
		PortfolioID: portfolioID,
		State:       state,
		Table:       t,
	}
}

// Reload starts a full holdings fetch. Prior rows stay on screen until the
// fresh result lands.
func (m *PortfolioModel) Reload() tea.Cmd {
	if m.PortfolioID == "" {
		m.State = PortfolioStateIdle
		return nil
	}
	m.State = PortfolioStateLoading
	return FetchHoldings(m.client, m.PortfolioID)
}

// RefreshPrices starts a price-only refresh for the current rows. Holdings
// are not refetched.
func (m *PortfolioModel) RefreshPrices() tea.Cmd {
	if m.State != PortfolioStateReady || len(m.Rows) == 0 {
		return nil
	}
	m.PricesLoading = true
	return FetchPrices(m.client, m.PortfolioID, tickersOf(m.Rows))
}

// SetPortfolio switches the panel to another portfolio and reloads. Results
// still in flight for the old portfolio will be discarded on arrival.
func (m *PortfolioModel) SetPortfolio(portfolioID string) tea.Cmd {
	m.PortfolioID = portfolioID
	m.Rows = nil
	m.Err = nil
	m.PricesLoading = false
	m.MenuTicker = ""
	m.Sell = nil
	m.Add = nil
	m.Table.SetRows(nil)
	return m.Reload()
}

// DialogOpen reports whether a sell or add dialog is capturing input.
func (m PortfolioModel) DialogOpen() bool {
	return m.Sell != nil || m.Add != nil
}

// Update handles messages for the portfolio panel.
func (m PortfolioModel) Update(msg tea.Msg) (PortfolioModel, tea.Cmd) {
	switch msg := msg.(type) {
	case holdingsLoadedMsg:
		if msg.portfolioID != m.PortfolioID {
			return m, nil
		}
		m.Rows = portfolio.WithAllocation(msg.holdings)
		m.State = PortfolioStateReady
		m.Err = nil
		m.LastUpdated = time.Now()
		m.updateTable()
		if len(m.Rows) == 0 {
			return m, nil
		}
		m.PricesLoading = true
		return m, FetchPrices(m.client, m.PortfolioID, tickersOf(m.Rows))

	case holdingsErrorMsg:
		if msg.portfolioID != m.PortfolioID {
			return m, nil
		}
		m.State = PortfolioStateError
		m.Err = msg.err
		return m, nil

	case pricesLoadedMsg:
		if msg.portfolioID != m.PortfolioID {
			return m, nil
		}
		m.PricesLoading = false
		m.Rows = portfolio.MergePrices(m.Rows, msg.prices)
		m.LastUpdated = time.Now()
		m.updateTable()
		return m, nil

	case sellCompletedMsg:
		if msg.portfolioID != m.PortfolioID {
			return m, nil
		}
		m.Sell = nil
		m.MenuTicker = ""
		return m, m.Reload()

	case sellFailedMsg:
		if msg.portfolioID != m.PortfolioID {
			return m, nil
		}
		if m.Sell != nil {
			m.Sell.Err = msg.err
		}
		return m, nil

	case assetAddedMsg:
		if msg.portfolioID != m.PortfolioID {
			return m, nil
		}
		m.Add = nil
		m.MenuTicker = ""
		return m, m.Reload()

	case addFailedMsg:
		if msg.portfolioID != m.PortfolioID {
			return m, nil
		}
		if m.Add != nil {
			m.Add.Err = msg.err
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m PortfolioModel) handleKey(msg tea.KeyMsg) (PortfolioModel, tea.Cmd) {
	if m.Sell != nil {
		return m.handleSellKey(msg)
	}
	if m.Add != nil {
		return m.handleAddKey(msg)
	}

	switch msg.String() {
	case "enter", "m":
		// Toggle the menu for the selected row. Opening a menu on another
		// row closes the previous one.
		row := m.selectedRow()
		if row == nil {
			return m, nil
		}
		if m.MenuTicker == row.Ticker {
			m.MenuTicker = ""
		} else {
			m.MenuTicker = row.Ticker
		}
		return m, nil

	case "esc":
		m.MenuTicker = ""
		return m, nil

	case "s":
		if m.MenuTicker == "" {
			return m, nil
		}
		if row := m.rowByTicker(m.MenuTicker); row != nil {
			m.Sell = NewSellDialog(*row)
		}
		return m, nil

	case "a":
		m.MenuTicker = ""
		m.Add = NewAddDialog()
		return m, nil

	case "r":
		return m, m.RefreshPrices()

	case "R":
		return m, m.Reload()
	}

	// Moving the selection closes any open menu.
	m.MenuTicker = ""
	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m PortfolioModel) handleSellKey(msg tea.KeyMsg) (PortfolioModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Sell = nil
		return m, nil
	case "tab", "shift+tab":
		m.Sell.NextField()
		return m, nil
	case "enter":
		shares, price, err := m.Sell.Values()
		if err != nil {
			m.Sell.Err = err
			return m, nil
		}
		m.Sell.Err = nil
		return m, submitSell(m.client, m.PortfolioID, m.Sell.Ticker, shares, price)
	}
	return m, m.Sell.Update(msg)
}

func (m PortfolioModel) handleAddKey(msg tea.KeyMsg) (PortfolioModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Add = nil
		return m, nil
	case "tab", "shift+tab":
		m.Add.NextField()
		return m, nil
	case "enter":
		ticker, shares, price, err := m.Add.Values()
		if err != nil {
			m.Add.Err = err
			return m, nil
		}
		m.Add.Err = nil
		return m, submitAdd(m.client, m.PortfolioID, ticker, shares, price)
	}
	return m, m.Add.Update(msg)
}

// selectedRow returns the row under the table cursor, or nil.
func (m PortfolioModel) selectedRow() *portfolio.Row {
	i := m.Table.Cursor()
	if i < 0 || i >= len(m.Rows) {
		return nil
	}
	return &m.Rows[i]
}

func (m PortfolioModel) rowByTicker(ticker string) *portfolio.Row {
	for i := range m.Rows {
		if m.Rows[i].Ticker == ticker {
			return &m.Rows[i]
		}
	}
	return nil
}

func (m *PortfolioModel) updateTable() {
	rows := make([]table.Row, len(m.Rows))
	for i, r := range m.Rows {
		price := "N/A"
		if r.MarketValue != nil {
			price = fmt.Sprintf("$%.2f", *r.MarketValue)
		}
		rows[i] = table.Row{
			r.Ticker,
			formatShares(r.Shares),
			fmt.Sprintf("$%.2f", r.AverageCost),
			fmt.Sprintf("$%.2f", r.BookValue),
			price,
			fmt.Sprintf("%.2f%%", r.Percentage),
		}
	}
	m.Table.SetRows(rows)
	if m.Table.Cursor() >= len(rows) && len(rows) > 0 {
		m.Table.SetCursor(len(rows) - 1)
	}
}

// View renders the portfolio panel.
func (m PortfolioModel) View() string {
	if m.Sell != nil {
		return InputStyle.Render(m.Sell.View())
	}
	if m.Add != nil {
		return InputStyle.Render(m.Add.View())
	}

	switch m.State {
	case PortfolioStateIdle:
		return DescStyle.Render("No portfolio selected. Run 'stockr configure' to set one.")

	case PortfolioStateLoading:
		if len(m.Rows) == 0 {
			return DescStyle.Render("Loading portfolio...")
		}

	case PortfolioStateError:
		var b strings.Builder
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
		b.WriteString("\n")
		b.WriteString(DescStyle.Render("Press R to retry."))
		if len(m.Rows) > 0 {
			b.WriteString("\n\n")
			b.WriteString(m.Table.View())
		}
		return b.String()
	}

	if len(m.Rows) == 0 {
		return DescStyle.Render("No assets in portfolio. Press 'a' to add one.")
	}

	var b strings.Builder
	b.WriteString(m.summaryView())
	b.WriteString("\n")
	b.WriteString(m.Table.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())

	if m.MenuTicker != "" {
		b.WriteString("\n\n")
		b.WriteString(m.menuView())
	}

	return b.String()
}

// summaryView renders the totals and the colored allocation bar.
func (m PortfolioModel) summaryView() string {
	var b strings.Builder

	bookTotal := portfolio.TotalBookValue(m.Rows)
	marketTotal, known := portfolio.TotalMarketValue(m.Rows)

	b.WriteString(LabelStyle.Render("Book Value: "))
	b.WriteString(ValueStyle.Render(fmt.Sprintf("$%.2f", bookTotal)))
	b.WriteString("   ")
	b.WriteString(LabelStyle.Render("Market Value: "))
	if known == 0 {
		b.WriteString(ValueStyle.Render("N/A"))
	} else {
		b.WriteString(ValueStyle.Render(fmt.Sprintf("$%.2f", marketTotal)))
		if known < len(m.Rows) {
			b.WriteString(WarningStyle.Render(fmt.Sprintf(" (%d/%d priced)", known, len(m.Rows))))
		}
	}
	b.WriteString("\n")
	b.WriteString(allocationBar(m.Rows))
	b.WriteString("\n")

	return b.String()
}

// allocationBar draws one fixed-width bar segmented by each row's share of
// the portfolio, in the row's palette color.
func allocationBar(rows []portfolio.Row) string {
	var b strings.Builder
	used := 0
	for i, r := range rows {
		width := int(r.Percentage / 100 * allocationBarWidth)
		if i == len(rows)-1 {
			width = allocationBarWidth - used
		}
		if width <= 0 {
			continue
		}
		used += width
		seg := lipgloss.NewStyle().Foreground(r.Color).Render(strings.Repeat("█", width))
		b.WriteString(seg)
	}
	return b.String()
}

func (m PortfolioModel) statusLine() string {
	if m.PricesLoading {
		return DescStyle.Render("Refreshing prices...")
	}
	if !m.LastUpdated.IsZero() {
		return DescStyle.Render("Updated " + m.LastUpdated.Format("15:04:05"))
	}
	return ""
}

func (m PortfolioModel) menuView() string {
	var b strings.Builder
	b.WriteString(SummaryStyle.Render(m.MenuTicker))
	b.WriteString("\n")
	b.WriteString(KeyStyle.Render("s"))
	b.WriteString(DescStyle.Render(" sell   "))
	b.WriteString(KeyStyle.Render("esc"))
	b.WriteString(DescStyle.Render(" close"))
	return MenuStyle.Render(b.String())
}

func tickersOf(rows []portfolio.Row) []string {
	tickers := make([]string, len(rows))
	for i, r := range rows {
		tickers[i] = r.Ticker
	}
	return tickers
}

// FetchHoldings returns a command that loads the holdings list.
func FetchHoldings(client *api.Client, portfolioID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		holdings, err := client.GetPortfolio(ctx, portfolioID)
		if err != nil {
			return holdingsErrorMsg{portfolioID: portfolioID, err: err}
		}
		return holdingsLoadedMsg{portfolioID: portfolioID, holdings: holdings}
	}
}

// FetchPrices returns a command that fans out price requests for the given
// tickers and reports the settled result. It never reports an error; missing
// prices come back as nil entries.
func FetchPrices(client *api.Client, portfolioID string, tickers []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		prices := client.GetCurrentPrices(ctx, tickers)
		return pricesLoadedMsg{portfolioID: portfolioID, prices: prices}
	}
}

func submitSell(client *api.Client, portfolioID, ticker string, shares, price float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := client.SellAsset(ctx, portfolioID, ticker, shares, price); err != nil {
			return sellFailedMsg{portfolioID: portfolioID, err: err}
		}
		return sellCompletedMsg{portfolioID: portfolioID}
	}
}

func submitAdd(client *api.Client, portfolioID, ticker string, shares, price float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := client.AddAsset(ctx, portfolioID, ticker, shares, price); err != nil {
			return addFailedMsg{portfolioID: portfolioID, err: err}
		}
		return assetAddedMsg{portfolioID: portfolioID}
	}
}
