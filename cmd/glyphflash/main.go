// Package main provides the CLI entrypoint for glyphflash.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/glyphflash/internal/audio"
	"github.com/verte-zerg/glyphflash/internal/calibrate"
	"github.com/verte-zerg/glyphflash/internal/config"
	"github.com/verte-zerg/glyphflash/internal/game"
	"github.com/verte-zerg/glyphflash/internal/generator"
	"github.com/verte-zerg/glyphflash/internal/logging"
	"github.com/verte-zerg/glyphflash/internal/model"
	"github.com/verte-zerg/glyphflash/internal/scoring"
	"github.com/verte-zerg/glyphflash/internal/stats"
	"github.com/verte-zerg/glyphflash/internal/statsui"
	"github.com/verte-zerg/glyphflash/internal/store"
	"github.com/verte-zerg/glyphflash/internal/tui"
)

const (
	defaultLetters     = 3
	defaultProgression = "auto"
	defaultPolicy      = "simple"
	defaultPreRound    = 500 * time.Millisecond
	defaultLogLevel    = "info"
	maxFPS             = 240
	maxPreRound        = time.Second
	calibrateSamples   = 60
	calibrateTimeout   = 3 * time.Second
	summaryCurveWindow = 5
)

var (
	playLetters     int
	playProgression string
	playPolicy      string
	playRounds      int
	playReflash     bool
	playAutoReflash time.Duration
	playPreRound    time.Duration
	playFPS         int
	playCalibrate   bool
	playSound       bool
	playSeed        int64
	playLogLevel    string

	calibrateFPS int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "glyphflash",
		Short:         "Letter flash memory game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().IntVar(&playLetters, "letters", defaultLetters, "letters flashed per round (1-7)")
	rootCmd.Flags().StringVar(&playProgression, "progression", defaultProgression, "round progression: auto or manual")
	rootCmd.Flags().StringVar(&playPolicy, "policy", defaultPolicy, "scoring policy: simple or partial")
	rootCmd.Flags().IntVar(&playRounds, "rounds", 0, "rounds per game (0 = unlimited)")
	rootCmd.Flags().BoolVar(&playReflash, "reflash", true, "allow replaying the flash at a score cost")
	rootCmd.Flags().DurationVar(&playAutoReflash, "auto-reflash", 0, "replay the flash after this long without an answer (0 = off)")
	rootCmd.Flags().DurationVar(&playPreRound, "pre-round", defaultPreRound, "delay before each flash (0-1s)")
	rootCmd.Flags().IntVar(&playFPS, "fps", tui.DefaultFPS, "frame rate driving the game clock")
	rootCmd.Flags().BoolVar(&playCalibrate, "calibrate", false, "measure the frame interval and use it as the speed floor")
	rootCmd.Flags().BoolVar(&playSound, "sound", false, "play audio cues")
	rootCmd.Flags().Int64Var(&playSeed, "seed", 0, "fixed seed for letter sequences (0 = random)")
	rootCmd.Flags().StringVar(&playLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error, off)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCalibrateCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := resolveConfig(cmd, fileCfg.Game)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	gameCfg, err := buildGameConfig(cfg)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	log, closeLog, err := logging.Open(config.DefaultLogPath(), level)
	if err != nil {
		logErrf("failed to open log, continuing without it: %v\n", err)
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}()

	ctx := context.Background()
	st, err := store.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open session log: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close session log: %v\n", cerr)
		}
	}()

	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewWithSeed(cfg.Seed)
	}
	rec := tui.NewRecorder(st, log)
	machine := game.New(gameCfg, game.WithLogger(log), game.WithGenerator(gen), game.WithRecorder(rec))

	if cfg.Calibrate {
		res, err := measure(ctx, cfg.FPS)
		if err != nil {
			log.Warn().Err(err).Msg("calibration failed, keeping default speed floor")
		} else {
			log.Info().Dur("median", res.Median).Dur("floor", res.Floor).Int("samples", res.Samples).Msg("calibrated")
			if err := machine.SetMinSpeed(res.Floor); err != nil {
				return fmt.Errorf("failed to apply calibration: %w", err)
			}
		}
	}

	opts := tui.Options{
		FPS:      cfg.FPS,
		Recorder: rec,
		Logger:   log,
		History: statsui.NewModel(func(ctx context.Context) (stats.Report, error) {
			return stats.BuildReport(ctx, st)
		}),
	}
	if cfg.Sound {
		sm := audio.NewSoundManager()
		if err := sm.Initialize(); err != nil {
			log.Warn().Err(err).Msg("audio unavailable, playing silently")
		} else {
			defer sm.Cleanup()
			opts.Cues = sm
		}
	}

	program := tea.NewProgram(tui.NewModel(machine, opts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	machine.Abandon(time.Now())

	return printSummary(ctx, cmd, st, log)
}

func printSummary(ctx context.Context, cmd *cobra.Command, st *store.Store, log zerolog.Logger) error {
	report, err := stats.BuildReport(ctx, st)
	if err != nil {
		log.Error().Err(err).Msg("failed to build summary")
		return fmt.Errorf("failed to build summary: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Summary); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if len(report.Rounds) == 0 {
		return nil
	}
	if len(report.Rounds) > 1 {
		if err := stats.RenderCurves(out, report.Rounds, summaryCurveWindow, 0, 0, false); err != nil {
			return fmt.Errorf("failed to write curves: %w", err)
		}
	}
	if err := stats.RenderRoundTable(out, report.Rounds); err != nil {
		return fmt.Errorf("failed to write rounds: %w", err)
	}
	if hardest := stats.HardestLetters(report.Letters, 3); len(hardest) > 0 {
		if _, err := fmt.Fprintf(out, "\nHardest letters: %s\n", strings.Join(hardest, " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
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
		if err := os.WriteFile(path, []byte(config.Sample()), 0o644); err != nil {
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

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Measure the frame interval and derived speed floor",
		Args:  cobra.NoArgs,
		RunE:  runCalibrateCmd,
	}
	cmd.Flags().IntVar(&calibrateFPS, "fps", tui.DefaultFPS, "frame rate to measure")
	return cmd
}

func runCalibrateCmd(cmd *cobra.Command, _ []string) error {
	if calibrateFPS <= 0 || calibrateFPS > maxFPS {
		return fmt.Errorf("--fps must be between 1 and %d", maxFPS)
	}
	logErrln("Measuring frame interval...")
	res, err := measure(cmd.Context(), calibrateFPS)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Samples: %d\nMedian frame: %s\nSpeed floor: %s\n", res.Samples, res.Median, res.Floor); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func measure(ctx context.Context, fps int) (calibrate.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, calibrateTimeout)
	defer cancel()
	res, err := calibrate.Measure(ctx, time.Second/time.Duration(fps), calibrateSamples)
	if err != nil {
		return calibrate.Result{}, fmt.Errorf("failed to calibrate: %w", err)
	}
	return res, nil
}

// resolveConfig overlays file values onto flags that were not set
// explicitly.
func resolveConfig(cmd *cobra.Command, file config.GameConfig) (model.Config, error) {
	applyIntConfig(cmd, "letters", &playLetters, file.Letters)
	applyStringConfig(cmd, "progression", &playProgression, file.Progression)
	applyStringConfig(cmd, "policy", &playPolicy, file.Policy)
	applyIntConfig(cmd, "rounds", &playRounds, file.Rounds)
	applyBoolConfig(cmd, "reflash", &playReflash, file.Reflash)
	applyIntConfig(cmd, "fps", &playFPS, file.FPS)
	applyBoolConfig(cmd, "calibrate", &playCalibrate, file.Calibrate)
	applyBoolConfig(cmd, "sound", &playSound, file.Sound)
	applyInt64Config(cmd, "seed", &playSeed, file.Seed)
	applyStringConfig(cmd, "log-level", &playLogLevel, file.LogLevel)
	if err := applyDurationConfig(cmd, "auto-reflash", &playAutoReflash, file.AutoReflash); err != nil {
		return model.Config{}, err
	}
	if err := applyDurationConfig(cmd, "pre-round", &playPreRound, file.PreRound); err != nil {
		return model.Config{}, err
	}

	return model.Config{
		Letters:     playLetters,
		Progression: playProgression,
		Policy:      playPolicy,
		Rounds:      playRounds,
		Reflash:     playReflash,
		AutoReflash: playAutoReflash,
		PreRound:    playPreRound,
		FPS:         playFPS,
		Calibrate:   playCalibrate,
		Sound:       playSound,
		Seed:        playSeed,
		LogLevel:    playLogLevel,
	}, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Letters < 1 || cfg.Letters > game.MaxLetters {
		return fmt.Errorf("--letters must be between 1 and %d", game.MaxLetters)
	}
	if cfg.Rounds < 0 {
		return fmt.Errorf("--rounds must be >= 0")
	}
	if cfg.FPS <= 0 || cfg.FPS > maxFPS {
		return fmt.Errorf("--fps must be between 1 and %d", maxFPS)
	}
	if cfg.AutoReflash < 0 {
		return fmt.Errorf("--auto-reflash must be >= 0")
	}
	if cfg.PreRound < 0 || cfg.PreRound > maxPreRound {
		return fmt.Errorf("--pre-round must be between 0 and %s", maxPreRound)
	}
	if _, err := game.ParseProgression(cfg.Progression); err != nil {
		return fmt.Errorf("--progression must be auto or manual")
	}
	if _, err := scoring.ParsePolicy(cfg.Policy); err != nil {
		return fmt.Errorf("--policy must be simple or partial")
	}
	return nil
}

func buildGameConfig(cfg model.Config) (game.Config, error) {
	progression, err := game.ParseProgression(cfg.Progression)
	if err != nil {
		return game.Config{}, fmt.Errorf("invalid --progression: %w", err)
	}
	policy, err := scoring.ParsePolicy(cfg.Policy)
	if err != nil {
		return game.Config{}, fmt.Errorf("invalid --policy: %w", err)
	}
	out := game.DefaultConfig()
	out.Letters = cfg.Letters
	out.Progression = progression
	out.Policy = policy
	out.RoundCap = cfg.Rounds
	out.Reflash = cfg.Reflash
	out.AutoReflashAfter = cfg.AutoReflash
	out.PreRoundDelay = cfg.PreRound
	return out, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	d, err := config.ParseDuration(*value)
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
