package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/hoops/internal/model"
	"github.com/verte-zerg/hoops/internal/score"
	"github.com/verte-zerg/hoops/internal/session"
)

type fakeSaver struct {
	records []model.GameRecord
	err     error
}

func (f *fakeSaver) InsertGame(_ context.Context, rec model.GameRecord) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.records = append(f.records, rec)
	return int64(len(f.records)), nil
}

func newTestModel(t *testing.T, saver GameSaver) *Model {
	t.Helper()
	cfg := model.GameConfig{
		Duration:          10,
		PerfectShotPoints: 3,
		NormalShotPoints:  2,
		BonusPoints:       []int{4, 6, 8},
		StarThresholds:    []int{5, 10, 20},
	}
	ctrl, err := session.New(cfg.Duration)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	engine, err := score.New(score.DefaultConfig(), ctrl.StateChanged())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	m := NewModel(cfg, ctrl, engine, saver, func() int { return 6 }, 0)
	t.Cleanup(m.Close)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func TestStartAndScore(t *testing.T) {
	m := newTestModel(t, nil)
	press(m,
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}},
		runes("f"),
		runes("b"),
		runes("x"),
	)
	if m.state != model.StatePlaying {
		t.Fatalf("state = %v, want Playing", m.state)
	}
	if m.score != 2+3+8 {
		t.Fatalf("score = %d, want 13", m.score)
	}
	if m.shots != (model.ShotStats{Successful: 3, Total: 4}) {
		t.Fatalf("shots = %+v", m.shots)
	}
	if m.bonusText != "6 BONUS!" {
		t.Fatalf("bonus text = %q", m.bonusText)
	}
	if !strings.Contains(m.renderHUD(), "Score: 13") {
		t.Fatalf("hud missing score: %s", m.renderHUD())
	}
}

func TestShotsIgnoredOutsidePlaying(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if m.shots.Total != 0 {
		t.Fatalf("menu shot should be ignored, got %+v", m.shots)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("p"), runes("f"))
	if m.state != model.StatePaused {
		t.Fatalf("state = %v, want Paused", m.state)
	}
	if m.shots.Total != 0 {
		t.Fatalf("paused shot should be ignored, got %+v", m.shots)
	}
	press(m, runes("p"))
	if m.state != model.StatePlaying {
		t.Fatalf("state = %v, want Playing", m.state)
	}
}

func TestTimerRunsOutToReward(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestModel(t, saver)
	press(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("f"), runes("f"))

	start := time.Now()
	m.lastFrame = start
	m.advance(start.Add(4 * time.Second))
	if m.remaining != 6 {
		t.Fatalf("remaining = %v, want 6", m.remaining)
	}
	m.advance(start.Add(11 * time.Second))

	if m.state != model.StateReward {
		t.Fatalf("state = %v, want Reward", m.state)
	}
	if m.ctrl.State() != model.StateGameOver {
		t.Fatalf("controller state = %v, want GameOver", m.ctrl.State())
	}
	if len(saver.records) != 1 {
		t.Fatalf("expected one saved game, got %d", len(saver.records))
	}
	rec := saver.records[0]
	if rec.Stats.FinalScore != 6 || rec.Stats.PerfectShots != 2 || rec.Duration != 10 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	view := m.renderReward()
	for _, want := range []string{"Final Score: 6", "Accuracy: 100.0%", "★☆☆"} {
		if !strings.Contains(view, want) {
			t.Fatalf("reward view missing %q:\n%s", want, view)
		}
	}

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != model.StatePlaying || m.score != 0 || m.remaining != 10 {
		t.Fatalf("play again should reset: state=%v score=%d remaining=%v", m.state, m.score, m.remaining)
	}
}

func TestPauseKeepsScore(t *testing.T) {
	saver := &fakeSaver{}
	m := newTestModel(t, saver)
	press(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("f"), runes("f"), runes("f"))
	if m.score != 9 {
		t.Fatalf("score = %d, want 9", m.score)
	}

	press(m, runes("p"), runes("p"))
	if m.state != model.StatePlaying {
		t.Fatalf("state = %v, want Playing", m.state)
	}
	if m.score != 9 || m.shots != (model.ShotStats{Successful: 3, Total: 3}) {
		t.Fatalf("resume should keep totals: score=%d shots=%+v", m.score, m.shots)
	}

	start := time.Now()
	m.lastFrame = start
	m.advance(start.Add(11 * time.Second))
	if len(saver.records) != 1 {
		t.Fatalf("expected one saved game, got %d", len(saver.records))
	}
	if got := saver.records[0].Stats; got.FinalScore != 9 || got.TotalShots != 3 || got.PerfectShots != 3 {
		t.Fatalf("saved stats = %+v, want score 9 from 3 perfect shots", got)
	}
}

func TestSaveErrorIsShown(t *testing.T) {
	m := newTestModel(t, &fakeSaver{err: errors.New("disk full")})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	m.ctrl.EndGame()
	if !strings.Contains(m.errMsg, "disk full") {
		t.Fatalf("errMsg = %q", m.errMsg)
	}
}

func TestBonusPopupExpires(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("b"))
	if m.bonusText == "" {
		t.Fatalf("expected bonus popup")
	}
	m.lastFrame = m.bonusUntil.Add(-time.Second)
	m.advance(m.bonusUntil)
	if m.bonusText != "" {
		t.Fatalf("bonus popup should expire, got %q", m.bonusText)
	}
}

func TestMenuKeyReturnsToMenu(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, tea.KeyMsg{Type: tea.KeyEnter}, runes("m"))
	if m.state != model.StateMainMenu {
		t.Fatalf("state = %v, want MainMenu", m.state)
	}
	if !strings.Contains(m.View(), "HOOPS") {
		t.Fatalf("menu view missing title")
	}
}

func TestCloseDropsSubscriptions(t *testing.T) {
	m := newTestModel(t, nil)
	m.Close()
	m.ctrl.StartNewGame()
	if m.state != model.StateMainMenu {
		t.Fatalf("closed model should not follow state, got %v", m.state)
	}
}
