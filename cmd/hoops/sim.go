package main

import (
	"fmt"
	"io"

	"github.com/verte-zerg/hoops/internal/generator"
	"github.com/verte-zerg/hoops/internal/model"
	"github.com/verte-zerg/hoops/internal/reward"
)

type simResult struct {
	Stats   model.GameStats
	Frames  int
	Bonuses []int
}

// simulate plays one full game headless with a seeded shooter, advancing
// the clock by a fixed frame step until the controller reaches GameOver.
func simulate(cfg model.GameConfig, simCfg model.SimConfig) (simResult, error) {
	ctrl, engine, err := newCore(cfg)
	if err != nil {
		return simResult{}, err
	}

	var result simResult
	finished := false
	finishedTopic := ctrl.GameFinished()
	h := finishedTopic.Subscribe(func(struct{}) {
		finished = true
		result.Stats = engine.Snapshot()
	})
	defer finishedTopic.Unsubscribe(h)
	bonuses := engine.BonusAwarded()
	hb := bonuses.Subscribe(func(points int) {
		result.Bonuses = append(result.Bonuses, points)
	})
	defer bonuses.Unsubscribe(hb)

	gen := generator.NewSeeded(simCfg.Seed)
	pick := gen.BonusPicker(engine.BonusAmounts())
	shooter := gen.Shooter(simCfg)
	dt := 1 / float64(simCfg.FPS)

	ctrl.StartNewGame()
	engine.Reset()
	for ctrl.State() == model.StatePlaying {
		if shooter.Step(dt) {
			engine.RegisterShot(shooter.Shoot(), pick)
		}
		ctrl.Tick(dt)
		result.Frames++
	}
	if !finished {
		return simResult{}, fmt.Errorf("simulation stopped in state %s", ctrl.State())
	}
	return result, nil
}

func writeSimResult(w io.Writer, cfg model.GameConfig, simCfg model.SimConfig, result simResult) error {
	earned := reward.Stars(result.Stats.FinalScore, cfg.StarThresholds)
	lines := []string{
		fmt.Sprintf("Seed: %d", simCfg.Seed),
		fmt.Sprintf("Time: %s  Frames: %d", reward.FormatClock(cfg.Duration), result.Frames),
		reward.StarBar(earned, len(cfg.StarThresholds)),
	}
	lines = append(lines, reward.Summary(result.Stats)...)
	if len(result.Bonuses) > 0 {
		lines = append(lines, fmt.Sprintf("Bonus Awards: %v", result.Bonuses))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
