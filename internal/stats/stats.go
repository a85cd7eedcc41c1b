// Package stats contains history statistics and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/verte-zerg/hoops/internal/model"
)

const sparkChars = " .:-=+*#%@"

var gameTableAlign = map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true, 6: true}

// Metrics are derived per-game rates.
type Metrics struct {
	Accuracy      float64
	PointsPerShot float64
	PerfectRate   float64
	BonusRate     float64
}

// GameMetrics derives rates from a game summary. Rates over made shots
// are 0 when nothing went in.
func GameMetrics(stats model.GameStats) Metrics {
	var m Metrics
	m.Accuracy = stats.Accuracy
	if stats.TotalShots > 0 {
		m.PointsPerShot = float64(stats.FinalScore) / float64(stats.TotalShots)
	}
	if stats.SuccessfulShots > 0 {
		m.PerfectRate = float64(stats.PerfectShots) / float64(stats.SuccessfulShots) * 100
		m.BonusRate = float64(stats.BackboardBonuses) / float64(stats.SuccessfulShots) * 100
	}
	return m
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints aggregate history numbers.
func RenderSummary(w io.Writer, games []model.GameRecord) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	var totalScore, totalAcc float64
	var shots, made, perfect, bonuses int
	best := games[0].Stats.FinalScore
	for _, g := range games {
		totalScore += float64(g.Stats.FinalScore)
		totalAcc += g.Stats.Accuracy
		shots += g.Stats.TotalShots
		made += g.Stats.SuccessfulShots
		perfect += g.Stats.PerfectShots
		bonuses += g.Stats.BackboardBonuses
		best = max(best, g.Stats.FinalScore)
	}
	count := float64(len(games))
	overall := 0.0
	if shots > 0 {
		overall = float64(made) / float64(shots) * 100
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", len(games)),
		fmt.Sprintf("Avg Score: %.2f", totalScore/count),
		fmt.Sprintf("Best Score: %d", best),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count),
		fmt.Sprintf("Overall Accuracy: %.2f%% (%d/%d)", overall, made, shots),
		fmt.Sprintf("Perfect Shots: %d", perfect),
		fmt.Sprintf("Backboard Bonuses: %d", bonuses),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrends prints smoothed score and accuracy sparklines.
func RenderTrends(w io.Writer, games []model.GameRecord, window int) error {
	if len(games) == 0 {
		return nil
	}
	scores := make([]float64, len(games))
	accs := make([]float64, len(games))
	for i, g := range games {
		scores[i] = float64(g.Stats.FinalScore)
		accs[i] = g.Stats.Accuracy
	}
	scores = MovingAverage(scores, window)
	accs = MovingAverage(accs, window)
	rows := [][]string{
		{"Score", Sparkline(scores), fmt.Sprintf("%.1f", scores[len(scores)-1])},
		{"Accuracy", Sparkline(accs), fmt.Sprintf("%.1f%%", accs[len(accs)-1])},
	}
	title := fmt.Sprintf("Trends (window %d)", window)
	return writeTable(w, title, []string{"Series", "Trend", "Latest"}, rows, map[int]bool{2: true})
}

// RenderGameTable prints one row per game.
func RenderGameTable(w io.Writer, games []model.GameRecord) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	return writeTable(w, "Games", GameTableHeaders(), GameTableRows(games), gameTableAlign)
}

// GameTableHeaders are the columns shared by the plain and TUI game tables.
func GameTableHeaders() []string {
	return []string{"#", "Ended", "Score", "Shots", "Accuracy", "Perfect", "Bonus"}
}

// GameTableRows formats games as table cells.
func GameTableRows(games []model.GameRecord) [][]string {
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{
			strconv.FormatInt(g.ID, 10),
			g.EndedAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(g.Stats.FinalScore),
			fmt.Sprintf("%d/%d", g.Stats.SuccessfulShots, g.Stats.TotalShots),
			fmt.Sprintf("%.1f%%", g.Stats.Accuracy),
			strconv.Itoa(g.Stats.PerfectShots),
			strconv.Itoa(g.Stats.BackboardBonuses),
		})
	}
	return rows
}
