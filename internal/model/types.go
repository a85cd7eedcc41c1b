// Package model defines shared data structures.
package model

import (
	"errors"
	"time"
)

// ErrInvalidConfig reports a construction-time configuration mistake.
var ErrInvalidConfig = errors.New("invalid configuration")

// SessionState is the current phase of a game session.
type SessionState int

const (
	StateMainMenu SessionState = iota
	StatePlaying
	StatePaused
	StateGameOver
	StateReward // Set by presentation only.
)

func (s SessionState) String() string {
	switch s {
	case StateMainMenu:
		return "MainMenu"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateGameOver:
		return "GameOver"
	case StateReward:
		return "Reward"
	default:
		return "Unknown"
	}
}

// ShotOutcome describes a single shot. Perfect and BackboardBonus only
// count when Successful is set.
type ShotOutcome struct {
	Successful     bool
	Perfect        bool
	BackboardBonus bool
}

// ShotStats is the payload of a shot-stats notification.
type ShotStats struct {
	Successful int
	Total      int
}

// GameStats is an immutable summary of a finished or running game.
type GameStats struct {
	FinalScore       int     `yaml:"final_score"`
	TotalShots       int     `yaml:"total_shots"`
	SuccessfulShots  int     `yaml:"successful_shots"`
	PerfectShots     int     `yaml:"perfect_shots"`
	BackboardBonuses int     `yaml:"backboard_bonuses"`
	Accuracy         float64 `yaml:"accuracy"`
}

// GameConfig holds the merged game settings.
type GameConfig struct {
	Duration          float64
	PerfectShotPoints int
	NormalShotPoints  int
	BonusPoints       []int
	StarThresholds    []int
}

// SimConfig defines headless simulation settings.
type SimConfig struct {
	Seed          int64
	Accuracy      float64
	PerfectRate   float64
	BackboardRate float64
	ShotsPerSec   float64
	FPS           int
}

// GameRecord captures a finished game for the history store.
type GameRecord struct {
	ID        int64     `yaml:"id"`
	RunID     string    `yaml:"run_id"`
	StartedAt time.Time `yaml:"started_at"`
	EndedAt   time.Time `yaml:"ended_at"`
	Duration  float64   `yaml:"duration_sec"`
	Stats     GameStats `yaml:"stats"`
}

// HistoryFilter defines filters for history queries.
type HistoryFilter struct {
	Since       *time.Time
	Last        int
	TrendWindow int
}
