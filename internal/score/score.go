// Package score accumulates shot outcomes into a running score and a
// derived statistics summary.
package score

import (
	"fmt"

	"github.com/verte-zerg/hoops/internal/model"
	"github.com/verte-zerg/hoops/internal/notify"
)

// BonusPicker draws one backboard bonus amount. The engine uses its
// result verbatim.
type BonusPicker func() int

// Config defines scoring settings.
type Config struct {
	PerfectShotPoints int
	NormalShotPoints  int
	BackboardBonuses  []int
}

// DefaultConfig returns the arcade defaults.
func DefaultConfig() Config {
	return Config{
		PerfectShotPoints: 3,
		NormalShotPoints:  2,
		BackboardBonuses:  []int{4, 6, 8},
	}
}

// Engine owns the running totals for the current game.
// It is not safe for concurrent use.
type Engine struct {
	perfectPoints int
	normalPoints  int
	bonuses       []int

	score            int
	totalShots       int
	successfulShots  int
	perfectShots     int
	backboardBonuses int

	states      notify.Subscriber[model.SessionState]
	stateHandle notify.Handle

	scoreUpdated     notify.Topic[int]
	shotStatsUpdated notify.Topic[model.ShotStats]
	bonusAwarded     notify.Topic[int]
}

// New validates cfg and returns an Engine. When states is non-nil the
// engine resets itself every time a session enters Playing.
func New(cfg Config, states notify.Subscriber[model.SessionState]) (*Engine, error) {
	if len(cfg.BackboardBonuses) == 0 {
		return nil, fmt.Errorf("backboard bonus list must not be empty: %w", model.ErrInvalidConfig)
	}
	if cfg.PerfectShotPoints < 0 || cfg.NormalShotPoints < 0 {
		return nil, fmt.Errorf("shot points must be >= 0: %w", model.ErrInvalidConfig)
	}
	for _, b := range cfg.BackboardBonuses {
		if b < 0 {
			return nil, fmt.Errorf("backboard bonus %d must be >= 0: %w", b, model.ErrInvalidConfig)
		}
	}
	e := &Engine{
		perfectPoints: cfg.PerfectShotPoints,
		normalPoints:  cfg.NormalShotPoints,
		bonuses:       append([]int(nil), cfg.BackboardBonuses...),
	}
	if states != nil {
		e.states = states
		e.stateHandle = states.Subscribe(e.onStateChanged)
	}
	return e, nil
}

// Detach drops the state subscription made by New.
func (e *Engine) Detach() {
	if e.states == nil {
		return
	}
	e.states.Unsubscribe(e.stateHandle)
	e.states = nil
	e.stateHandle = 0
}

func (e *Engine) onStateChanged(s model.SessionState) {
	if s == model.StatePlaying {
		e.Reset()
	}
}

// ScoreUpdated notifies with the running score after a made shot or a reset.
func (e *Engine) ScoreUpdated() notify.Subscriber[int] { return &e.scoreUpdated }

// ShotStatsUpdated notifies after every registered shot and every reset.
func (e *Engine) ShotStatsUpdated() notify.Subscriber[model.ShotStats] {
	return &e.shotStatsUpdated
}

// BonusAwarded notifies with the points drawn for each backboard bonus.
func (e *Engine) BonusAwarded() notify.Subscriber[int] { return &e.bonusAwarded }

// BonusAmounts returns a copy of the configured backboard bonus amounts.
func (e *Engine) BonusAmounts() []int {
	return append([]int(nil), e.bonuses...)
}

// Score returns the running score.
func (e *Engine) Score() int { return e.score }

// TotalShots returns the number of shots taken, made or missed.
func (e *Engine) TotalShots() int { return e.totalShots }

// SuccessfulShots returns the number of made shots.
func (e *Engine) SuccessfulShots() int { return e.successfulShots }

// PerfectShots returns the number of made shots that were perfect.
func (e *Engine) PerfectShots() int { return e.perfectShots }

// BackboardBonuses returns the number of bonuses awarded.
func (e *Engine) BackboardBonuses() int { return e.backboardBonuses }

// Reset zeroes all totals.
func (e *Engine) Reset() {
	e.score = 0
	e.totalShots = 0
	e.successfulShots = 0
	e.perfectShots = 0
	e.backboardBonuses = 0

	e.scoreUpdated.Publish(e.score)
	e.shotStatsUpdated.Publish(e.shotStats())
}

// RegisterShot records one shot. Misses only count toward the total.
// A nil pick falls back to the first configured bonus amount.
func (e *Engine) RegisterShot(outcome model.ShotOutcome, pick BonusPicker) {
	e.totalShots++

	if outcome.Successful {
		e.successfulShots++

		points := e.normalPoints
		if outcome.Perfect {
			points = e.perfectPoints
			e.perfectShots++
		}

		if outcome.BackboardBonus {
			bonus := e.bonuses[0]
			if pick != nil {
				bonus = pick()
			}
			points += bonus
			e.backboardBonuses++
			e.bonusAwarded.Publish(bonus)
		}

		e.score += points
		e.scoreUpdated.Publish(e.score)
	}

	e.shotStatsUpdated.Publish(e.shotStats())
}

// Accuracy returns the success percentage, or 0 before any shot.
func (e *Engine) Accuracy() float64 {
	if e.totalShots == 0 {
		return 0
	}
	return float64(e.successfulShots) / float64(e.totalShots) * 100
}

// Snapshot returns the current totals as GameStats.
func (e *Engine) Snapshot() model.GameStats {
	return model.GameStats{
		FinalScore:       e.score,
		TotalShots:       e.totalShots,
		SuccessfulShots:  e.successfulShots,
		PerfectShots:     e.perfectShots,
		BackboardBonuses: e.backboardBonuses,
		Accuracy:         e.Accuracy(),
	}
}

func (e *Engine) shotStats() model.ShotStats {
	return model.ShotStats{Successful: e.successfulShots, Total: e.totalShots}
}
