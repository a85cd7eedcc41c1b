// Package tui provides the Bubble Tea game host.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hoops/internal/model"
	"github.com/verte-zerg/hoops/internal/notify"
	"github.com/verte-zerg/hoops/internal/reward"
	"github.com/verte-zerg/hoops/internal/score"
	"github.com/verte-zerg/hoops/internal/session"
)

const (
	frameTime     = time.Second / 30
	bonusLifetime = 2 * time.Second
)

// GameSaver persists finished games.
type GameSaver interface {
	InsertGame(ctx context.Context, rec model.GameRecord) (int64, error)
}

type frameMsg time.Time

// Model implements the Bubble Tea game UI. It mirrors core state from
// notifications and forwards input as commands.
type Model struct {
	cfg    model.GameConfig
	ctrl   *session.Controller
	engine *score.Engine
	saver  GameSaver
	pick   score.BonusPicker

	keys    keyMap
	help    help.Model
	timeBar progress.Model

	width  int
	height int

	state     model.SessionState
	remaining float64
	score     int
	shots     model.ShotStats

	bonusText  string
	bonusUntil time.Time

	lastFrame time.Time
	startedAt time.Time
	summary   model.GameStats
	bestScore int
	errMsg    string

	unsubscribe []func()
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	hudStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	bonusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB020")).Bold(true)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6EA8FE")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	starStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD84D"))
	cardStyle   = lipgloss.NewStyle().
			Padding(1, 3).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
)

// NewModel wires a game UI to an existing controller and engine.
// saver may be nil, in which case finished games are not stored.
// The engine is detached from automatic resets; the model resets it
// when a new game starts so pausing keeps the running totals.
func NewModel(cfg model.GameConfig, ctrl *session.Controller, engine *score.Engine, saver GameSaver, pick score.BonusPicker, bestScore int) *Model {
	m := &Model{
		cfg:       cfg,
		ctrl:      ctrl,
		engine:    engine,
		saver:     saver,
		pick:      pick,
		keys:      newKeyMap(),
		help:      help.New(),
		timeBar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		state:     ctrl.State(),
		remaining: ctrl.Remaining(),
		bestScore: bestScore,
	}
	engine.Detach()
	m.subscribe()
	m.updateKeys()
	return m
}

func (m *Model) subscribe() {
	track := func(sub interface{ Unsubscribe(notify.Handle) bool }, h notify.Handle) {
		m.unsubscribe = append(m.unsubscribe, func() { sub.Unsubscribe(h) })
	}
	states := m.ctrl.StateChanged()
	track(states, states.Subscribe(m.onStateChanged))
	times := m.ctrl.TimeUpdated()
	track(times, times.Subscribe(func(v float64) { m.remaining = v }))
	finished := m.ctrl.GameFinished()
	track(finished, finished.Subscribe(func(struct{}) { m.onGameFinished() }))
	scores := m.engine.ScoreUpdated()
	track(scores, scores.Subscribe(func(v int) { m.score = v }))
	shots := m.engine.ShotStatsUpdated()
	track(shots, shots.Subscribe(func(v model.ShotStats) { m.shots = v }))
	bonuses := m.engine.BonusAwarded()
	track(bonuses, bonuses.Subscribe(m.onBonus))
}

// Close drops every core subscription held by the UI.
func (m *Model) Close() {
	for _, fn := range m.unsubscribe {
		fn()
	}
	m.unsubscribe = nil
}

func (m *Model) onStateChanged(s model.SessionState) {
	m.state = s
	switch s {
	case model.StatePlaying:
		if m.startedAt.IsZero() {
			m.startedAt = time.Now()
		}
		m.remaining = m.ctrl.Remaining()
	case model.StateMainMenu:
		m.startedAt = time.Time{}
		m.bonusText = ""
	}
	m.updateKeys()
}

func (m *Model) onBonus(points int) {
	m.bonusText = reward.BonusLabel(points)
	m.bonusUntil = time.Now().Add(bonusLifetime)
}

func (m *Model) onGameFinished() {
	m.summary = m.engine.Snapshot()
	if m.summary.FinalScore > m.bestScore {
		m.bestScore = m.summary.FinalScore
	}
	m.saveGame()
	m.startedAt = time.Time{}
	m.bonusText = ""
	// Reward is a presentation state; the controller stays in GameOver.
	m.state = model.StateReward
	m.updateKeys()
}

func (m *Model) saveGame() {
	if m.saver == nil {
		return
	}
	endedAt := time.Now()
	startedAt := m.startedAt
	if startedAt.IsZero() {
		startedAt = endedAt
	}
	rec := model.GameRecord{
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Duration:  m.ctrl.Duration(),
		Stats:     m.summary,
	}
	if _, err := m.saver.InsertGame(context.Background(), rec); err != nil {
		m.errMsg = fmt.Sprintf("failed to save game: %v", err)
		logErrf("failed to save game: %v\n", err)
	}
}

func (m *Model) updateKeys() {
	playing := m.state == model.StatePlaying
	m.keys.Start.SetEnabled(m.state == model.StateMainMenu || m.state == model.StateReward || m.state == model.StateGameOver)
	m.keys.Pause.SetEnabled(playing || m.state == model.StatePaused)
	m.keys.Menu.SetEnabled(m.state != model.StateMainMenu)
	for _, b := range []*key.Binding{&m.keys.Made, &m.keys.Perfect, &m.keys.Bank, &m.keys.Swish, &m.keys.Miss} {
		b.SetEnabled(playing)
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.lastFrame = time.Now()
	return frameTick()
}

func frameTick() tea.Cmd {
	return tea.Tick(frameTime, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.timeBar.Width = max(10, min(60, msg.Width-10))
		return m, nil
	case frameMsg:
		m.advance(time.Time(msg))
		return m, frameTick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) advance(now time.Time) {
	dt := now.Sub(m.lastFrame).Seconds()
	m.lastFrame = now
	if dt > 0 {
		m.ctrl.Tick(dt)
	}
	if m.bonusText != "" && !now.Before(m.bonusUntil) {
		m.bonusText = ""
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		m.errMsg = ""
		m.ctrl.StartNewGame()
		m.engine.Reset()
	case key.Matches(msg, m.keys.Pause):
		if m.ctrl.IsPaused() {
			m.ctrl.Resume()
		} else {
			m.ctrl.Pause()
		}
	case key.Matches(msg, m.keys.Menu):
		m.ctrl.ReturnToMainMenu()
	case key.Matches(msg, m.keys.Made):
		m.shoot(model.ShotOutcome{Successful: true})
	case key.Matches(msg, m.keys.Perfect):
		m.shoot(model.ShotOutcome{Successful: true, Perfect: true})
	case key.Matches(msg, m.keys.Bank):
		m.shoot(model.ShotOutcome{Successful: true, BackboardBonus: true})
	case key.Matches(msg, m.keys.Swish):
		m.shoot(model.ShotOutcome{Successful: true, Perfect: true, BackboardBonus: true})
	case key.Matches(msg, m.keys.Miss):
		m.shoot(model.ShotOutcome{})
	}
	return m, nil
}

func (m *Model) shoot(outcome model.ShotOutcome) {
	if !m.ctrl.IsPlaying() {
		return
	}
	m.engine.RegisterShot(outcome, m.pick)
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.state {
	case model.StateMainMenu:
		body = m.renderMenu()
	case model.StatePlaying, model.StatePaused:
		body = m.renderPlaying()
	default:
		body = m.renderReward()
	}
	lines := []string{body}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	lines = append(lines, m.help.View(m.keys))
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) renderMenu() string {
	lines := []string{
		titleStyle.Render("HOOPS"),
		mutedStyle.Render(fmt.Sprintf("%s on the clock", reward.FormatClock(m.cfg.Duration))),
	}
	if m.bestScore > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Best: %d", m.bestScore)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderHUD() string {
	segments := []string{
		fmt.Sprintf("Score: %d", m.score),
		fmt.Sprintf("Time: %s", reward.FormatClock(m.remaining)),
		fmt.Sprintf("Shots: %d/%d", m.shots.Successful, m.shots.Total),
	}
	return hudStyle.Render(strings.Join(segments, "   "))
}

func (m *Model) renderPlaying() string {
	frac := 0.0
	if d := m.ctrl.Duration(); d > 0 {
		frac = m.remaining / d
	}
	lines := []string{m.renderHUD(), m.timeBar.ViewAs(frac)}
	switch {
	case m.state == model.StatePaused:
		lines = append(lines, pausedStyle.Render("PAUSED"))
	case m.bonusText != "":
		lines = append(lines, bonusStyle.Render(m.bonusText))
	default:
		lines = append(lines, "")
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderReward() string {
	thresholds := m.cfg.StarThresholds
	earned := reward.Stars(m.summary.FinalScore, thresholds)
	lines := []string{
		titleStyle.Render("TIME!"),
		starStyle.Render(reward.StarBar(earned, len(thresholds))),
		"",
	}
	lines = append(lines, reward.Summary(m.summary)...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
