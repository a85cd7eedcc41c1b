// Package session implements the game-state machine and countdown timer.
package session

import (
	"fmt"
	"math"

	"github.com/verte-zerg/hoops/internal/model"
	"github.com/verte-zerg/hoops/internal/notify"
)

// Controller owns the session state and the countdown. It is driven by
// explicit commands and by Tick from a caller-owned frame loop.
// It is not safe for concurrent use.
type Controller struct {
	duration  float64
	remaining float64
	state     model.SessionState

	stateChanged notify.Topic[model.SessionState]
	timeUpdated  notify.Topic[float64]
	gameFinished notify.Topic[struct{}]
}

// New returns a Controller in MainMenu with a full timer.
func New(duration float64) (*Controller, error) {
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return nil, fmt.Errorf("session duration must be > 0, got %v: %w", duration, model.ErrInvalidConfig)
	}
	return &Controller{
		duration:  duration,
		remaining: duration,
		state:     model.StateMainMenu,
	}, nil
}

// StateChanged notifies on every transition, including re-entering the
// current state.
func (c *Controller) StateChanged() notify.Subscriber[model.SessionState] {
	return &c.stateChanged
}

// TimeUpdated notifies with the remaining seconds on every Tick while Playing.
func (c *Controller) TimeUpdated() notify.Subscriber[float64] {
	return &c.timeUpdated
}

// GameFinished notifies after the GameOver state change.
func (c *Controller) GameFinished() notify.Subscriber[struct{}] {
	return &c.gameFinished
}

// State returns the current session state.
func (c *Controller) State() model.SessionState { return c.state }

// Remaining returns the seconds left on the clock.
func (c *Controller) Remaining() float64 { return c.remaining }

// Duration returns the configured game length in seconds.
func (c *Controller) Duration() float64 { return c.duration }

// IsPlaying reports whether the clock is running.
func (c *Controller) IsPlaying() bool { return c.state == model.StatePlaying }

// IsPaused reports whether the game is paused.
func (c *Controller) IsPaused() bool { return c.state == model.StatePaused }

// IsActive reports whether a game is in progress, paused or not.
func (c *Controller) IsActive() bool {
	return c.state == model.StatePlaying || c.state == model.StatePaused
}

// StartNewGame refills the timer and enters Playing from any state.
func (c *Controller) StartNewGame() {
	c.remaining = c.duration
	c.setState(model.StatePlaying)
}

// Pause freezes the timer. No-op unless Playing.
func (c *Controller) Pause() {
	if c.state != model.StatePlaying {
		return
	}
	c.setState(model.StatePaused)
}

// Resume unfreezes the timer. No-op unless Paused.
func (c *Controller) Resume() {
	if c.state != model.StatePaused {
		return
	}
	c.setState(model.StatePlaying)
}

// EndGame forces GameOver from any state and then announces the finish.
func (c *Controller) EndGame() {
	c.setState(model.StateGameOver)
	c.gameFinished.Publish(struct{}{})
}

// ReturnToMainMenu forces MainMenu from any state.
func (c *Controller) ReturnToMainMenu() {
	c.setState(model.StateMainMenu)
}

// Tick advances the countdown by dt seconds while Playing. Negative or
// NaN deltas count as zero. When the timer runs out it is pinned to 0,
// the final time is published and the game ends.
func (c *Controller) Tick(dt float64) {
	if c.state != model.StatePlaying {
		return
	}
	if math.IsNaN(dt) || dt < 0 {
		dt = 0
	}
	c.remaining -= dt
	if c.remaining <= 0 {
		c.remaining = 0
		c.timeUpdated.Publish(c.remaining)
		c.EndGame()
		return
	}
	c.timeUpdated.Publish(c.remaining)
}

func (c *Controller) setState(next model.SessionState) {
	c.state = next
	c.stateChanged.Publish(next)
}
