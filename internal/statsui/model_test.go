package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/hoops/internal/model"
	"github.com/verte-zerg/hoops/internal/store"
)

func TestModelLoadsHistory(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "hoops.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	ctx := context.Background()
	for i, score := range []int{8, 21} {
		end := time.Unix(1_700_000_000, 0).Add(time.Duration(i) * time.Hour)
		rec := model.GameRecord{
			StartedAt: end.Add(-time.Minute),
			EndedAt:   end,
			Duration:  60,
			Stats:     model.GameStats{FinalScore: score, TotalShots: 4, SuccessfulShots: 2, Accuracy: 50},
		}
		if _, err := st.InsertGame(ctx, rec); err != nil {
			t.Fatalf("insert game: %v", err)
		}
	}

	m := NewModel(st, model.HistoryFilter{TrendWindow: 5})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	if m.errMsg != "" {
		t.Fatalf("unexpected error: %s", m.errMsg)
	}
	view := m.View()
	if !strings.Contains(view, "Overview") || !strings.Contains(view, "window=5") {
		t.Fatalf("overview view missing header:\n%s", view)
	}
	if !strings.Contains(view, "Best Score: 21") {
		t.Fatalf("overview missing summary:\n%s", view)
	}

	rows := m.games.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][2] != "21" {
		t.Fatalf("newest game should be first, got %v", rows[0])
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabGames {
		t.Fatalf("expected games tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	if m.filter.TrendWindow != 4 {
		t.Fatalf("trend window = %d, want 4", m.filter.TrendWindow)
	}
}
