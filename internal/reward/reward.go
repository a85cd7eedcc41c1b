// Package reward formats end-of-game summaries and HUD text.
package reward

import (
	"fmt"
	"math"
	"strings"

	"github.com/verte-zerg/hoops/internal/model"
)

const (
	starFilled = "★"
	starEmpty  = "☆"
)

// DefaultStarThresholds are the scores needed for one, two and three stars.
var DefaultStarThresholds = []int{20, 50, 100}

// Stars returns the number of stars earned: one past the index of the
// last threshold the score reaches.
func Stars(score int, thresholds []int) int {
	earned := 0
	for i, threshold := range thresholds {
		if score >= threshold {
			earned = i + 1
		}
	}
	return earned
}

// StarBar renders earned stars out of total.
func StarBar(earned, total int) string {
	if total < 0 {
		total = 0
	}
	if earned > total {
		earned = total
	}
	if earned < 0 {
		earned = 0
	}
	return strings.Repeat(starFilled, earned) + strings.Repeat(starEmpty, total-earned)
}

// Summary returns the reward card lines for stats.
func Summary(stats model.GameStats) []string {
	return []string{
		fmt.Sprintf("Final Score: %d", stats.FinalScore),
		fmt.Sprintf("Accuracy: %.1f%%", stats.Accuracy),
		fmt.Sprintf("Perfect Shots: %d", stats.PerfectShots),
		fmt.Sprintf("Backboard Bonuses: %d", stats.BackboardBonuses),
	}
}

// FormatClock renders seconds as MM:SS, rounding down.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// BonusLabel is the popup text for a backboard bonus.
func BonusLabel(points int) string {
	return fmt.Sprintf("%d BONUS!", points)
}
