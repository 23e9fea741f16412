// Package tui implements the interactive portfolio dashboard.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/stockr-hq/stockr-cli/internal/api"
)

// Model is the root dashboard model. It owns the portfolio panel, the
// periodic refresh timer, and global key handling.
type Model struct {
	Portfolio PortfolioModel

	logger       zerolog.Logger
	refreshEvery time.Duration

	// refreshSeq counts completed transactions. Panels that show derived
	// portfolio data watch it to know when to refetch.
	refreshSeq int

	width  int
	height int
}

// NewModel creates the dashboard for the given portfolio.
func NewModel(client *api.Client, logger zerolog.Logger, portfolioID string, refreshEvery time.Duration) Model {
	return Model{
		Portfolio:    NewPortfolioModel(client, logger, portfolioID),
		logger:       logger,
		refreshEvery: refreshEvery,
	}
}

// Init starts the initial holdings load and the refresh timer.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick()}
	if m.Portfolio.PortfolioID != "" {
		cmds = append(cmds, FetchHoldings(m.Portfolio.client, m.Portfolio.PortfolioID))
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			// While a dialog is open, 'q' is just input.
			if !m.Portfolio.DialogOpen() {
				return m, tea.Quit
			}
		}

	case tickMsg:
		var cmd tea.Cmd
		// Skip the refresh while the user is mid-dialog or a load is
		// already in flight.
		if !m.Portfolio.DialogOpen() && !m.Portfolio.PricesLoading && m.Portfolio.State == PortfolioStateReady {
			cmd = m.Portfolio.RefreshPrices()
		}
		return m, tea.Batch(m.tick(), cmd)

	case assetAddedMsg:
		m.refreshSeq++
	case sellCompletedMsg:
		m.refreshSeq++
	}

	var cmd tea.Cmd
	m.Portfolio, cmd = m.Portfolio.Update(msg)
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder

	title := "Stockr"
	if m.Portfolio.PortfolioID != "" {
		title = fmt.Sprintf("Stockr · %s", m.Portfolio.PortfolioID)
	}
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(ContentStyle.Render(m.Portfolio.View()))
	b.WriteString("\n\n")
	b.WriteString(m.footer())

	return b.String()
}

func (m Model) footer() string {
	if m.Portfolio.DialogOpen() {
		return ""
	}

	keys := []struct{ key, desc string }{
		{"enter", "menu"},
		{"a", "add"},
		{"r", "prices"},
		{"R", "reload"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, KeyStyle.Render(k.key)+DescStyle.Render(" "+k.desc))
	}
	return "  " + strings.Join(parts, DescStyle.Render("  ·  "))
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refreshEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
