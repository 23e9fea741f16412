package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot(t *testing.T) Model {
	t.Helper()
	return NewModel(testClient("http://invalid.test"), zerolog.Nop(), "1", 30*time.Second)
}

func asRoot(t *testing.T, m tea.Model) Model {
	t.Helper()
	root, ok := m.(Model)
	require.True(t, ok)
	return root
}

func TestModel_InitLoadsHoldings(t *testing.T) {
	m := newTestRoot(t)

	assert.Equal(t, PortfolioStateLoading, m.Portfolio.State)
	assert.NotNil(t, m.Init())
}

func TestModel_QuitKeys(t *testing.T) {
	m := newTestRoot(t)

	_, cmd := m.Update(keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_QuitSuppressedWhileDialogOpen(t *testing.T) {
	m := newTestRoot(t)
	next, _ := m.Update(holdingsLoadedMsg{portfolioID: "1", holdings: testHoldings()})
	m = asRoot(t, next)
	next, _ = m.Update(keyPress("a"))
	m = asRoot(t, next)
	require.True(t, m.Portfolio.DialogOpen())

	next, cmd := m.Update(keyPress("q"))
	m = asRoot(t, next)

	// 'q' went to the dialog input, not to quit.
	if cmd != nil {
		assert.NotEqual(t, tea.QuitMsg{}, cmd())
	}
	assert.True(t, m.Portfolio.DialogOpen())
}

func TestModel_TickRefreshesPrices(t *testing.T) {
	m := newTestRoot(t)
	next, _ := m.Update(holdingsLoadedMsg{portfolioID: "1", holdings: testHoldings()})
	m = asRoot(t, next)
	price := 100.0
	next, _ = m.Update(pricesLoadedMsg{portfolioID: "1", prices: map[string]*float64{"AAPL": &price, "MSFT": &price}})
	m = asRoot(t, next)
	require.False(t, m.Portfolio.PricesLoading)

	next, cmd := m.Update(tickMsg(time.Now()))
	m = asRoot(t, next)

	assert.True(t, m.Portfolio.PricesLoading)
	assert.NotNil(t, cmd)
}

func TestModel_TickSkippedWhileDialogOpen(t *testing.T) {
	m := newTestRoot(t)
	next, _ := m.Update(holdingsLoadedMsg{portfolioID: "1", holdings: testHoldings()})
	m = asRoot(t, next)
	price := 100.0
	next, _ = m.Update(pricesLoadedMsg{portfolioID: "1", prices: map[string]*float64{"AAPL": &price, "MSFT": &price}})
	m = asRoot(t, next)
	next, _ = m.Update(keyPress("a"))
	m = asRoot(t, next)
	require.True(t, m.Portfolio.DialogOpen())

	next, _ = m.Update(tickMsg(time.Now()))
	m = asRoot(t, next)

	assert.False(t, m.Portfolio.PricesLoading)
}

func TestModel_TickSkippedWhileLoading(t *testing.T) {
	m := newTestRoot(t)
	require.Equal(t, PortfolioStateLoading, m.Portfolio.State)

	next, _ := m.Update(tickMsg(time.Now()))
	m = asRoot(t, next)

	assert.False(t, m.Portfolio.PricesLoading)
}

func TestModel_TransactionsBumpRefreshSeq(t *testing.T) {
	m := newTestRoot(t)
	next, _ := m.Update(holdingsLoadedMsg{portfolioID: "1", holdings: testHoldings()})
	m = asRoot(t, next)

	next, _ = m.Update(assetAddedMsg{portfolioID: "1"})
	m = asRoot(t, next)
	assert.Equal(t, 1, m.refreshSeq)

	next, _ = m.Update(sellCompletedMsg{portfolioID: "1"})
	m = asRoot(t, next)
	assert.Equal(t, 2, m.refreshSeq)
}

func TestModel_ViewShowsPortfolioID(t *testing.T) {
	m := newTestRoot(t)

	assert.Contains(t, m.View(), "Stockr")
	assert.Contains(t, m.View(), "1")
}
