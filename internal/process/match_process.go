package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/charleschow/tt-momentum/internal/adapters/inbound/matchfile"
	"github.com/charleschow/tt-momentum/internal/adapters/outbound/reportdb"
	"github.com/charleschow/tt-momentum/internal/config"
	"github.com/charleschow/tt-momentum/internal/core/display"
	"github.com/charleschow/tt-momentum/internal/core/driver"
	"github.com/charleschow/tt-momentum/internal/core/leverage"
	"github.com/charleschow/tt-momentum/internal/core/model"
	"github.com/charleschow/tt-momentum/internal/core/simulation"
	"github.com/charleschow/tt-momentum/internal/core/state/match"
	"github.com/charleschow/tt-momentum/internal/events"
	"github.com/charleschow/tt-momentum/internal/telemetry"
)

// Options captures the entry-point choices that are not part of the env
// config.
type Options struct {
	// Baseline swaps the momentum model for fixed per-player strength.
	Baseline bool

	// MatchPath overrides MATCH_PATH when set.
	MatchPath string

	// Out receives the point table. Nil means stdout.
	Out io.Writer
}

// Summary describes a finished run.
type Summary struct {
	RunID   string // empty when the report store is disabled
	Title   string
	Points  int
	Sets    match.Score
	Elapsed time.Duration
	Results []events.PointScored
}

// Run boots a single analysis run from the environment, logs a summary and
// exits non-zero on failure. SIGINT/SIGTERM cancel the run between trials.
func Run(opts Options) {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sum, err := Execute(ctx, cfg, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			telemetry.Warnf("Run interrupted after %d points", telemetry.Metrics.PointsProcessed.Value())
		} else {
			telemetry.Errorf("Run failed: %v", err)
		}
		stop()
		os.Exit(1)
	}

	telemetry.Infof("Run complete  %s  sets %s  points=%d  elapsed=%s",
		sum.Title, sum.Sets, sum.Points, sum.Elapsed.Round(time.Millisecond))
	telemetry.Infof("Simulation  estimates=%s  trials=%s  simulated_points=%s  est_p50=%s  est_p99=%s",
		humanize.Comma(telemetry.Metrics.EstimateCalls.Value()),
		humanize.Comma(telemetry.Metrics.TrialsRun.Value()),
		humanize.Comma(telemetry.Metrics.PointsSimulated.Value()),
		telemetry.Metrics.EstimateLatency.P50(),
		telemetry.Metrics.EstimateLatency.P99(),
	)
	if sum.RunID != "" {
		telemetry.Infof("Report  run=%s  rows=%d  errors=%d  path=%s",
			sum.RunID, telemetry.Metrics.ReportRows.Value(), telemetry.Metrics.ReportErrors.Value(), cfg.ReportDBPath)
	}
}

// Execute wires the engine from cfg and plays the configured match once.
func Execute(ctx context.Context, cfg *config.Config, opts Options) (Summary, error) {
	start := time.Now()

	// ── Model ──────────────────────────────────────────────────
	mdl, err := config.LoadModel(cfg.ModelPath)
	if err != nil {
		return Summary{}, err
	}
	if cfg.Trials > 0 {
		mdl.Trials = cfg.Trials
	}

	// ── Match ──────────────────────────────────────────────────
	matchPath := cfg.MatchPath
	if opts.MatchPath != "" {
		matchPath = opts.MatchPath
	}
	mt, err := matchfile.Load(matchPath)
	if err != nil {
		return Summary{}, err
	}
	telemetry.Infof("Loaded %q  %s vs %s  sets=%d  points=%d",
		mt.Title, mt.Players.One.Name, mt.Players.Two.Name, len(mt.Sets), mt.Points())

	var scoring simulation.ScoringModel = model.NewMomentum(mdl.Weights)
	modelName := "momentum"
	if opts.Baseline {
		scoring = model.Fixed{}
		modelName = "fixed"
	}

	// ── Engine ─────────────────────────────────────────────────
	est, err := simulation.NewEstimator(mt.Players, scoring, mdl.Momentum(), simulation.Config{
		Trials:  mdl.Trials,
		Workers: cfg.Workers,
		Seed:    cfg.Seed,
		Loser:   mdl.LoserPolicy(),
	})
	if err != nil {
		return Summary{}, fmt.Errorf("estimator: %w", err)
	}
	ec := est.Config()
	telemetry.Infof("Model %s  trials=%s  workers=%d  seed=%d  loser=%s  window=%d",
		modelName, humanize.Comma(int64(ec.Trials)), ec.Workers, ec.Seed, ec.Loser, mdl.Window)

	calc := leverage.NewCalculator(est, mdl.DecayCurve, mdl.LeverageCeiling, mdl.Window)

	// ── Sinks ──────────────────────────────────────────────────
	bus := events.NewBus()
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	display.NewTable(out, mt.Players).Attach(bus)

	var runID string
	if cfg.ReportDBPath != "" {
		store, err := reportdb.Open(cfg.ReportDBPath)
		if err != nil {
			return Summary{}, fmt.Errorf("report store: %w", err)
		}
		defer store.Close()

		runID, err = store.BeginRun(reportdb.Run{
			Title:     mt.Title,
			PlayerOne: mt.Players.One.Name,
			PlayerTwo: mt.Players.Two.Name,
			Model:     modelName,
			Seed:      ec.Seed,
			Trials:    ec.Trials,
		})
		if err != nil {
			return Summary{}, fmt.Errorf("report store: %w", err)
		}
		store.Attach(bus, runID)
	}

	matchID := runID
	if matchID == "" {
		matchID = matchSlug(mt.Title)
	}
	d, err := driver.New(driver.Options{
		MatchID:  matchID,
		Players:  mt.Players,
		Model:    scoring,
		Momentum: mdl.Momentum(),
		Leverage: calc,
		Bus:      bus,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("driver: %w", err)
	}

	results, err := d.Run(ctx, mt)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		RunID:   runID,
		Title:   mt.Title,
		Points:  len(results),
		Sets:    d.SetsWon(),
		Elapsed: time.Since(start),
		Results: results,
	}, nil
}

func matchSlug(title string) string {
	s := strings.ToLower(strings.Join(strings.Fields(title), "-"))
	if s == "" {
		return "match"
	}
	return s
}
