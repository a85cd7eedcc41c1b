package stats

import (
	"context"
	"io"
	"sort"

	"github.com/verte-zerg/hoops/internal/model"
	"github.com/verte-zerg/hoops/internal/store"
)

const bestGamesCount = 5

// Report contains precomputed data for stats rendering.
type Report struct {
	Games       []model.GameRecord
	WindowGames []model.GameRecord
	Best        []model.GameRecord
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, filter model.HistoryFilter) (Report, error) {
	games, err := st.ListGames(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	if filter.Last > 0 && len(games) > filter.Last {
		games = games[len(games)-filter.Last:]
	}
	return Report{
		Games:       games,
		WindowGames: lastGames(games, filter.TrendWindow),
		Best:        bestGames(games, bestGamesCount),
	}, nil
}

// Render writes the full plain-text report.
func (r Report) Render(w io.Writer, window int) error {
	if err := RenderSummary(w, r.Games); err != nil {
		return err
	}
	if len(r.Games) == 0 {
		return nil
	}
	if err := RenderTrends(w, r.Games, window); err != nil {
		return err
	}
	if len(r.Best) > 0 {
		if err := writeTable(w, "Best Games", GameTableHeaders(), GameTableRows(r.Best), gameTableAlign); err != nil {
			return err
		}
	}
	return RenderGameTable(w, r.WindowGames)
}

// bestGames ranks games the same way as store.BestGames: score, then
// earliest end, then insertion order.
func bestGames(games []model.GameRecord, n int) []model.GameRecord {
	ranked := append([]model.GameRecord(nil), games...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Stats.FinalScore != b.Stats.FinalScore {
			return a.Stats.FinalScore > b.Stats.FinalScore
		}
		if !a.EndedAt.Equal(b.EndedAt) {
			return a.EndedAt.Before(b.EndedAt)
		}
		return a.ID < b.ID
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func lastGames(games []model.GameRecord, window int) []model.GameRecord {
	if window <= 0 || len(games) <= window {
		return games
	}
	return games[len(games)-window:]
}
