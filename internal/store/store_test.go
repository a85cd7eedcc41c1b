package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/hoops/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "hoops.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func record(offset time.Duration, score int) model.GameRecord {
	start := time.Unix(1_700_000_000, 0).UTC().Add(offset)
	return model.GameRecord{
		StartedAt: start,
		EndedAt:   start.Add(60 * time.Second),
		Duration:  60,
		Stats: model.GameStats{
			FinalScore:       score,
			TotalShots:       10,
			SuccessfulShots:  5,
			PerfectShots:     2,
			BackboardBonuses: 1,
			Accuracy:         50,
		},
	}
}

func TestInsertAndListGames(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for i, score := range []int{12, 40, 7} {
		if _, err := st.InsertGame(ctx, record(time.Duration(i)*time.Hour, score)); err != nil {
			t.Fatalf("insert game: %v", err)
		}
	}

	games, err := st.ListGames(ctx, model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 3 {
		t.Fatalf("expected 3 games, got %d", len(games))
	}
	if games[0].Stats.FinalScore != 12 || games[2].Stats.FinalScore != 7 {
		t.Fatalf("unexpected order: %+v", games)
	}
	if games[1].RunID == "" || games[1].RunID == games[0].RunID {
		t.Fatalf("expected distinct generated run ids, got %q and %q", games[0].RunID, games[1].RunID)
	}
	want := record(0, 12)
	if !games[0].EndedAt.Equal(want.EndedAt) || games[0].Stats != want.Stats {
		t.Fatalf("round trip mismatch: %+v", games[0])
	}
}

func TestListGamesSince(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := st.InsertGame(ctx, record(time.Duration(i)*24*time.Hour, i)); err != nil {
			t.Fatalf("insert game: %v", err)
		}
	}
	since := time.Unix(1_700_000_000, 0).UTC().Add(48 * time.Hour)
	games, err := st.ListGames(ctx, model.HistoryFilter{Since: &since})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games since cutoff, got %d", len(games))
	}
}

func TestBestGames(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for i, score := range []int{30, 90, 30, 60} {
		if _, err := st.InsertGame(ctx, record(time.Duration(i)*time.Minute, score)); err != nil {
			t.Fatalf("insert game: %v", err)
		}
	}
	best, err := st.BestGames(ctx, 3)
	if err != nil {
		t.Fatalf("best games: %v", err)
	}
	if len(best) != 3 {
		t.Fatalf("expected 3 games, got %d", len(best))
	}
	scores := []int{best[0].Stats.FinalScore, best[1].Stats.FinalScore, best[2].Stats.FinalScore}
	if scores[0] != 90 || scores[1] != 60 || scores[2] != 30 {
		t.Fatalf("unexpected scores: %v", scores)
	}
	if best[2].ID != 1 {
		t.Fatalf("tie should favor the earlier game, got id %d", best[2].ID)
	}

	none, err := st.BestGames(ctx, 0)
	if err != nil || none != nil {
		t.Fatalf("BestGames(0) = %v, %v", none, err)
	}
}

func TestInsertGameKeepsRunID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	rec := record(0, 5)
	rec.RunID = "fixed-run"
	if _, err := st.InsertGame(ctx, rec); err != nil {
		t.Fatalf("insert game: %v", err)
	}
	if _, err := st.InsertGame(ctx, rec); err == nil {
		t.Fatalf("expected duplicate run id to fail")
	}
	games, err := st.ListGames(ctx, model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 1 || games[0].RunID != "fixed-run" {
		t.Fatalf("unexpected games: %+v", games)
	}
}
