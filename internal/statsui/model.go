// Package statsui provides the Bubble Tea history interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hoops/internal/model"
	"github.com/verte-zerg/hoops/internal/stats"
	"github.com/verte-zerg/hoops/internal/store"
)

const (
	tabOverview = iota
	tabGames
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea history UI.
type Model struct {
	store  *store.Store
	filter model.HistoryFilter

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	overview  viewport.Model
	games     table.Model

	width  int
	height int
}

// NewModel constructs a history UI model.
func NewModel(st *store.Store, filter model.HistoryFilter) *Model {
	m := &Model{
		store:    st,
		filter:   filter,
		tabs:     []string{"Overview", "Games"},
		overview: viewport.New(0, 0),
		games:    table.New(table.WithColumns(gameColumns(0)), table.WithFocused(true)),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			return m, nil
		case "=":
			m.filter.TrendWindow++
			m.refreshReport()
			return m, nil
		case "-":
			if m.filter.TrendWindow > 1 {
				m.filter.TrendWindow--
				m.refreshReport()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabGames {
			m.games, cmd = m.games.Update(msg)
		} else {
			m.overview, cmd = m.overview.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderTabs() + "\n" + m.renderFilterSummary()
	var body string
	if m.activeTab == tabGames {
		if len(m.report.Games) == 0 {
			body = "No games found."
		} else {
			body = tableMutedStyle.Render(m.games.View())
		}
	} else {
		body = m.overview.View()
	}
	footer := headerStyle.Render("Nav: left/right  Scroll: up/down  Window: -/=  Refresh: r  Quit: q")
	if m.errMsg != "" {
		footer += "\n" + errorStyle.Render(m.errMsg)
	}
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabGames {
		m.games.Focus()
	} else {
		m.games.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderFilterSummary() string {
	since := "any"
	if m.filter.Since != nil {
		since = m.filter.Since.Format("2006-01-02")
	}
	last := "all"
	if m.filter.Last > 0 {
		last = fmt.Sprintf("%d", m.filter.Last)
	}
	return headerStyle.Render(fmt.Sprintf("Settings: since=%s  last=%s  window=%d", since, last, m.filter.TrendWindow))
}

func (m *Model) bodyHeight() int {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	footerHeight := 1
	if m.errMsg != "" {
		footerHeight++
	}
	return max(1, m.height-tabsHeight-1-footerHeight)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	h := m.bodyHeight()
	m.overview.Width = m.width
	m.overview.Height = h
	m.games.SetColumns(gameColumns(m.width))
	m.games.SetWidth(m.width)
	m.games.SetHeight(h)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.filter)
	if err != nil {
		m.errMsg = err.Error()
		m.overview.SetContent("Failed to load history.")
		m.games.SetRows(nil)
		return
	}
	m.errMsg = ""
	m.report = report

	var buf bytes.Buffer
	if err := report.Render(&buf, m.filter.TrendWindow); err != nil {
		m.errMsg = err.Error()
	}
	m.overview.SetContent(buf.String())

	cells := stats.GameTableRows(report.Games)
	rows := make([]table.Row, 0, len(cells))
	for i := len(cells) - 1; i >= 0; i-- {
		rows = append(rows, table.Row(cells[i]))
	}
	m.games.SetRows(rows)
	m.updateLayout()
}

func gameColumns(totalWidth int) []table.Column {
	headers := stats.GameTableHeaders()
	widths := []int{5, 16, 6, 7, 9, 8, 6}
	fixed := 0
	for _, w := range widths {
		fixed += w + 2
	}
	if extra := totalWidth - fixed; extra > 0 {
		widths[1] += extra
	}
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	return cols
}
