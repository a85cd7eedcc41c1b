// Package generator provides random providers for bonuses and simulated shots.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/hoops/internal/model"
)

// Generator wraps a seeded random source.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// BonusPicker returns a uniform picker over amounts. The list is copied.
// An empty list yields a picker that always returns 0.
func (g *Generator) BonusPicker(amounts []int) func() int {
	values := append([]int(nil), amounts...)
	return func() int {
		if len(values) == 0 {
			return 0
		}
		return values[g.rnd.Intn(len(values))]
	}
}

// Shooter produces simulated shots at a steady average rate.
type Shooter struct {
	rnd           *rand.Rand
	accuracy      float64
	perfectRate   float64
	backboardRate float64
	shotsPerSec   float64
}

// Shooter builds a simulated shooter from cfg sharing g's source.
func (g *Generator) Shooter(cfg model.SimConfig) *Shooter {
	return &Shooter{
		rnd:           g.rnd,
		accuracy:      clamp01(cfg.Accuracy),
		perfectRate:   clamp01(cfg.PerfectRate),
		backboardRate: clamp01(cfg.BackboardRate),
		shotsPerSec:   cfg.ShotsPerSec,
	}
}

// Step reports whether a shot is taken during a frame of dt seconds.
func (s *Shooter) Step(dt float64) bool {
	if s.shotsPerSec <= 0 || dt <= 0 {
		return false
	}
	return s.rnd.Float64() < s.shotsPerSec*dt
}

// Shoot draws one shot outcome.
func (s *Shooter) Shoot() model.ShotOutcome {
	if s.rnd.Float64() >= s.accuracy {
		return model.ShotOutcome{}
	}
	return model.ShotOutcome{
		Successful:     true,
		Perfect:        s.rnd.Float64() < s.perfectRate,
		BackboardBonus: s.rnd.Float64() < s.backboardRate,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
