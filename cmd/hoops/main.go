// Package main provides the CLI entrypoint for hoops.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/hoops/internal/config"
	"github.com/verte-zerg/hoops/internal/generator"
	"github.com/verte-zerg/hoops/internal/model"
	"github.com/verte-zerg/hoops/internal/reward"
	"github.com/verte-zerg/hoops/internal/score"
	"github.com/verte-zerg/hoops/internal/session"
	"github.com/verte-zerg/hoops/internal/stats"
	"github.com/verte-zerg/hoops/internal/statsui"
	"github.com/verte-zerg/hoops/internal/store"
	"github.com/verte-zerg/hoops/internal/tui"
)

const (
	defaultDuration      = 60.0
	defaultPerfectPoints = 3
	defaultNormalPoints  = 2
	defaultTrendWindow   = 10
	defaultSimAccuracy   = 0.55
	defaultSimPerfect    = 0.3
	defaultSimBackboard  = 0.15
	defaultSimRate       = 0.8
	defaultSimFPS        = 60
	maxSimFPS            = 1000
	envFile              = ".env"
)

var (
	defaultBonusPoints    = []int{4, 6, 8}
	defaultStarThresholds = reward.DefaultStarThresholds
)

var (
	gameDuration       float64
	gamePerfectPoints  int
	gameNormalPoints   int
	gameBonusPoints    []int
	gameStarThresholds []int

	statsSince  string
	statsLast   int
	statsWindow int
	statsPlain  bool

	exportOut string

	simSeed      int64
	simAccuracy  float64
	simPerfect   float64
	simBackboard float64
	simRate      float64
	simFPS       int
	simSave      bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hoops",
		Short:         "Timed arcade basketball shootout",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return config.LoadEnv(envFile)
		},
		RunE: runPlayCmd,
	}

	addGameFlags(rootCmd)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSimCmd())

	return rootCmd
}

func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&gameDuration, "duration", defaultDuration, "game length in seconds")
	cmd.Flags().IntVar(&gamePerfectPoints, "perfect-points", defaultPerfectPoints, "points for a perfect shot")
	cmd.Flags().IntVar(&gameNormalPoints, "normal-points", defaultNormalPoints, "points for a normal shot")
	cmd.Flags().IntSliceVar(&gameBonusPoints, "bonus-points", defaultBonusPoints, "backboard bonus amounts")
	cmd.Flags().IntSliceVar(&gameStarThresholds, "star-thresholds", defaultStarThresholds, "scores needed for each star")
}

func loadGameConfig(cmd *cobra.Command) (model.GameConfig, config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.GameConfig{}, config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "duration", &gameDuration, fileCfg.Game.Duration)
	applyIntConfig(cmd, "perfect-points", &gamePerfectPoints, fileCfg.Game.PerfectPoints)
	applyIntConfig(cmd, "normal-points", &gameNormalPoints, fileCfg.Game.NormalPoints)
	applyIntsConfig(cmd, "bonus-points", &gameBonusPoints, fileCfg.Game.BonusPoints)
	applyIntsConfig(cmd, "star-thresholds", &gameStarThresholds, fileCfg.Game.StarThresholds)

	cfg := model.GameConfig{
		Duration:          gameDuration,
		PerfectShotPoints: gamePerfectPoints,
		NormalShotPoints:  gameNormalPoints,
		BonusPoints:       append([]int(nil), gameBonusPoints...),
		StarThresholds:    append([]int(nil), gameStarThresholds...),
	}
	if err := validateConfig(cfg); err != nil {
		return model.GameConfig{}, config.FileConfig{}, err
	}
	return cfg, fileCfg, nil
}

// newCore builds the controller and engine for one process lifetime.
// The engine is not subscribed to state changes: callers reset it after
// StartNewGame so a pause and resume keeps the running totals.
func newCore(cfg model.GameConfig) (*session.Controller, *score.Engine, error) {
	ctrl, err := session.New(cfg.Duration)
	if err != nil {
		return nil, nil, err
	}
	engine, err := score.New(score.Config{
		PerfectShotPoints: cfg.PerfectShotPoints,
		NormalShotPoints:  cfg.NormalShotPoints,
		BackboardBonuses:  cfg.BonusPoints,
	}, nil)
	if err != nil {
		return nil, nil, err
	}
	return ctrl, engine, nil
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadGameConfig(cmd)
	if err != nil {
		return err
	}
	ctrl, engine, err := newCore(cfg)
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	bestScore := 0
	best, err := st.BestGames(context.Background(), 1)
	if err != nil {
		logErrf("failed to load best score: %v\n", err)
	} else if len(best) > 0 {
		bestScore = best[0].Stats.FinalScore
	}

	gen := generator.New()
	m := tui.NewModel(cfg, ctrl, engine, st, gen.BonusPicker(engine.BonusAmounts()), bestScore)
	defer m.Close()
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show game history stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N games")
	cmd.Flags().IntVar(&statsWindow, "window", defaultTrendWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain text report instead of the TUI")
	return cmd
}

func historyFilter() (model.HistoryFilter, error) {
	filter := model.HistoryFilter{Last: statsLast, TrendWindow: statsWindow}
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.HistoryFilter{}, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if filter.Last < 0 {
		return model.HistoryFilter{}, fmt.Errorf("--last must be >= 0")
	}
	if filter.TrendWindow < 1 {
		return model.HistoryFilter{}, fmt.Errorf("--window must be > 0")
	}
	return filter, nil
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	filter, err := historyFilter()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		report, err := stats.BuildReport(context.Background(), st, filter)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return report.Render(cmd.OutOrStdout(), filter.TrendWindow)
	}

	program := tea.NewProgram(statsui.NewModel(st, filter), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage game history",
	}
	export := &cobra.Command{
		Use:   "export",
		Short: "Export game history as YAML",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	export.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout)")
	export.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	export.Flags().IntVar(&statsLast, "last", 0, "limit to last N games")
	cmd.AddCommand(export)
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	filter, err := historyFilter()
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	games, err := st.ListGames(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("failed to list games: %w", err)
	}
	if filter.Last > 0 && len(games) > filter.Last {
		games = games[len(games)-filter.Last:]
	}
	data, err := encodeHistory(games)
	if err != nil {
		return err
	}
	if exportOut == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	logErrf("Wrote %d games to %s\n", len(games), exportOut)
	return nil
}

type historyExport struct {
	Games []model.GameRecord `yaml:"games"`
}

func encodeHistory(games []model.GameRecord) ([]byte, error) {
	if games == nil {
		games = []model.GameRecord{}
	}
	data, err := yaml.Marshal(historyExport{Games: games})
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return data, nil
}

func newSimCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run a headless simulated game",
		Args:  cobra.NoArgs,
		RunE:  runSimCmd,
	}
	addGameFlags(cmd)
	cmd.Flags().Int64Var(&simSeed, "seed", 0, "random seed (0: time based)")
	cmd.Flags().Float64Var(&simAccuracy, "accuracy", defaultSimAccuracy, "probability a shot goes in (0-1)")
	cmd.Flags().Float64Var(&simPerfect, "perfect-rate", defaultSimPerfect, "probability a make is perfect (0-1)")
	cmd.Flags().Float64Var(&simBackboard, "backboard-rate", defaultSimBackboard, "probability a make earns a backboard bonus (0-1)")
	cmd.Flags().Float64Var(&simRate, "shots-per-sec", defaultSimRate, "average shots per second")
	cmd.Flags().IntVar(&simFPS, "fps", defaultSimFPS, "simulated frames per second")
	cmd.Flags().BoolVar(&simSave, "save", false, "store the result in game history")
	return cmd
}

func runSimCmd(cmd *cobra.Command, _ []string) error {
	cfg, fileCfg, err := loadGameConfig(cmd)
	if err != nil {
		return err
	}
	applyInt64Config(cmd, "seed", &simSeed, fileCfg.Sim.Seed)
	applyFloatConfig(cmd, "accuracy", &simAccuracy, fileCfg.Sim.Accuracy)
	applyFloatConfig(cmd, "perfect-rate", &simPerfect, fileCfg.Sim.PerfectRate)
	applyFloatConfig(cmd, "backboard-rate", &simBackboard, fileCfg.Sim.BackboardRate)
	applyFloatConfig(cmd, "shots-per-sec", &simRate, fileCfg.Sim.ShotsPerSec)
	applyIntConfig(cmd, "fps", &simFPS, fileCfg.Sim.FPS)

	simCfg := model.SimConfig{
		Seed:          simSeed,
		Accuracy:      simAccuracy,
		PerfectRate:   simPerfect,
		BackboardRate: simBackboard,
		ShotsPerSec:   simRate,
		FPS:           simFPS,
	}
	if simCfg.Seed == 0 {
		simCfg.Seed = time.Now().UnixNano()
	}
	if err := validateSimConfig(simCfg); err != nil {
		return err
	}

	startedAt := time.Now()
	result, err := simulate(cfg, simCfg)
	if err != nil {
		return err
	}
	if err := writeSimResult(cmd.OutOrStdout(), cfg, simCfg, result); err != nil {
		return err
	}
	if !simSave {
		return nil
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	rec := model.GameRecord{
		StartedAt: startedAt,
		EndedAt:   startedAt.Add(time.Duration(cfg.Duration * float64(time.Second))),
		Duration:  cfg.Duration,
		Stats:     result.Stats,
	}
	if _, err := st.InsertGame(context.Background(), rec); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}
	return nil
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntsConfig(cmd *cobra.Command, name string, target *[]int, value []int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]int(nil), value...)
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# hoops configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# duration = %.0f            # Game length in seconds
# perfect-points = %d        # Points for a perfect shot
# normal-points = %d         # Points for a normal shot
# bonus-points = %s    # Backboard bonus amounts, drawn uniformly
# star-thresholds = %s # Scores needed for one, two and three stars

[sim]
# seed = 0                 # Random seed (0: time based)
# accuracy = %.2f          # Probability a shot goes in (0-1)
# perfect-rate = %.2f      # Probability a make is perfect (0-1)
# backboard-rate = %.2f    # Probability a make earns a backboard bonus (0-1)
# shots-per-sec = %.1f      # Average shots per second
# fps = %d                 # Simulated frames per second (1-1000)
`,
		defaultDuration,
		defaultPerfectPoints,
		defaultNormalPoints,
		formatInts(defaultBonusPoints),
		formatInts(defaultStarThresholds),
		defaultSimAccuracy,
		defaultSimPerfect,
		defaultSimBackboard,
		defaultSimRate,
		defaultSimFPS,
	)
}

func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func validateConfig(cfg model.GameConfig) error {
	if math.IsNaN(cfg.Duration) || math.IsInf(cfg.Duration, 0) || cfg.Duration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if cfg.PerfectShotPoints < 0 {
		return fmt.Errorf("--perfect-points must be >= 0")
	}
	if cfg.NormalShotPoints < 0 {
		return fmt.Errorf("--normal-points must be >= 0")
	}
	if len(cfg.BonusPoints) == 0 {
		return fmt.Errorf("--bonus-points must not be empty")
	}
	for _, b := range cfg.BonusPoints {
		if b < 0 {
			return fmt.Errorf("--bonus-points must be >= 0")
		}
	}
	return nil
}

func validateSimConfig(cfg model.SimConfig) error {
	if !isProbability(cfg.Accuracy) {
		return fmt.Errorf("--accuracy must be between 0 and 1")
	}
	if !isProbability(cfg.PerfectRate) {
		return fmt.Errorf("--perfect-rate must be between 0 and 1")
	}
	if !isProbability(cfg.BackboardRate) {
		return fmt.Errorf("--backboard-rate must be between 0 and 1")
	}
	if math.IsNaN(cfg.ShotsPerSec) || math.IsInf(cfg.ShotsPerSec, 0) || cfg.ShotsPerSec < 0 {
		return fmt.Errorf("--shots-per-sec must be >= 0")
	}
	if cfg.FPS <= 0 || cfg.FPS > maxSimFPS {
		return fmt.Errorf("--fps must be between 1 and %d", maxSimFPS)
	}
	return nil
}

func isProbability(v float64) bool {
	return v >= 0 && v <= 1
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
