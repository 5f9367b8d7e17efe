package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/charleschow/tt-momentum/internal/core/leverage"
	"github.com/charleschow/tt-momentum/internal/core/momentum"
	"github.com/charleschow/tt-momentum/internal/core/simulation"
	"github.com/charleschow/tt-momentum/internal/core/state/match"
	"github.com/charleschow/tt-momentum/internal/events"
	"github.com/charleschow/tt-momentum/internal/telemetry"
)

var (
	// ErrSetDecided is returned when a point is played after its set ended.
	ErrSetDecided = errors.New("set already decided")
	// ErrSetUnfinished is returned when moving on from a set that is still live.
	ErrSetUnfinished = errors.New("set not finished")
)

// LeverageCalculator is the part of leverage.Calculator the driver needs.
type LeverageCalculator interface {
	Leverage(ctx context.Context, history []match.PointRecord, score match.Score, set int) (leverage.Result, error)
}

type Options struct {
	MatchID  string
	Players  match.Players
	Model    simulation.ScoringModel
	Momentum momentum.Estimator
	Leverage LeverageCalculator
	Bus      *events.Bus // optional
}

// Driver feeds real points through the engine in order. It owns the point
// log: leverage for a point is always computed from the log as it stood
// before that point, and a record never changes once appended.
//
// A Driver is not safe for concurrent use.
type Driver struct {
	opts Options
	log  *match.PointLog

	set    int
	score  match.Score
	sets   match.Score
	played int
	total  int

	progress rate.Sometimes
}

func New(opts Options) (*Driver, error) {
	if opts.Model == nil {
		return nil, errors.New("scoring model is required")
	}
	if opts.Leverage == nil {
		return nil, errors.New("leverage calculator is required")
	}
	if opts.Momentum.Window < 1 {
		return nil, fmt.Errorf("momentum window must be >= 1, got %d", opts.Momentum.Window)
	}
	return &Driver{
		opts:     opts,
		log:      match.NewPointLog(),
		progress: rate.Sometimes{First: 1, Interval: 5 * time.Second},
	}, nil
}

// Points returns the real point log. The slice must not be modified.
func (d *Driver) Points() []match.PointRecord { return d.log.View() }

// Set returns the zero-based index of the set in play.
func (d *Driver) Set() int { return d.set }

func (d *Driver) Score() match.Score { return d.score }

func (d *Driver) SetsWon() match.Score { return d.sets }

// Play resolves one real point won by winner in the current set.
func (d *Driver) Play(ctx context.Context, winner match.Side) (events.PointScored, error) {
	if !winner.Valid() {
		return events.PointScored{}, fmt.Errorf("invalid winner %v", winner)
	}
	if d.score.Outcome().Decided() {
		return events.PointScored{}, fmt.Errorf("set %d at %s: %w", d.set+1, d.score, ErrSetDecided)
	}
	start := time.Now()
	defer telemetry.Metrics.PointLatency.Since(start)

	lev, err := d.opts.Leverage.Leverage(ctx, d.log.View(), d.score, d.set)
	if err != nil {
		return events.PointScored{}, fmt.Errorf("set %d at %s: %w", d.set+1, d.score, err)
	}

	rec := match.PointRecord{Set: d.set}
	rec.Contribution.Set(winner, lev.Leverage)
	rec.Momentum = d.opts.Momentum.At(append(d.log.View(), rec), d.set)
	d.log.Append(rec)

	d.score = d.score.Add(winner)
	d.played++
	telemetry.Metrics.PointsProcessed.Inc()

	m := rec.Momentum
	res := events.PointScored{
		Index:        d.played,
		Set:          d.set + 1,
		Winner:       winner,
		Score:        d.score,
		Leverage:     lev.Leverage,
		Contribution: rec.Contribution,
		Momentum:     m,
		Probability: match.Pair{
			One: d.opts.Model.Probability(d.opts.Players.One, m.One, momentum.Deficit(m, match.SideOne)),
			Two: d.opts.Model.Probability(d.opts.Players.Two, m.Two, momentum.Deficit(m, match.SideTwo)),
		},
		WinProb:        lev.Baseline.WinProb.One,
		ExpectedPoints: lev.Baseline.AvgPoints,
	}
	d.publish(events.EventPointScored, res)

	if w, ok := d.score.Outcome().Winner(); ok {
		d.sets = d.sets.Add(w)
		telemetry.Metrics.SetsProcessed.Inc()
		telemetry.Infof("Set %d to %s  %s  (sets %s)", d.set+1, d.opts.Players.Get(w).Name, d.score, d.sets)
		d.publish(events.EventSetFinished, events.SetFinished{
			Set:    d.set + 1,
			Winner: w,
			Score:  d.score,
			Sets:   d.sets,
		})
	}

	d.progress.Do(func() {
		if d.total > 0 {
			telemetry.Infof("Processed %d/%d points  set %d  score %s", d.played, d.total, d.set+1, d.score)
		}
	})
	return res, nil
}

// NextSet starts a new set. The current one must be decided.
func (d *Driver) NextSet() error {
	if !d.score.Outcome().Decided() {
		return fmt.Errorf("set %d at %s: %w", d.set+1, d.score, ErrSetUnfinished)
	}
	d.set++
	d.score = match.Score{}
	return nil
}

// Run plays a whole match and returns one result per point. Each set's
// sequence must end exactly on the point that decides it.
func (d *Driver) Run(ctx context.Context, m match.Match) ([]events.PointScored, error) {
	d.total = d.played + m.Points()
	out := make([]events.PointScored, 0, m.Points())

	for i, seq := range m.Sets {
		if i > 0 || d.played > 0 {
			if err := d.NextSet(); err != nil {
				return out, err
			}
		}
		for j, w := range seq {
			res, err := d.Play(ctx, w)
			if err != nil {
				return out, fmt.Errorf("point %d of %d: %w", j+1, len(seq), err)
			}
			out = append(out, res)
		}
		if !d.score.Outcome().Decided() {
			return out, fmt.Errorf("set %d ends at %s: %w", d.set+1, d.score, ErrSetUnfinished)
		}
	}

	d.publish(events.EventMatchFinished, events.MatchFinished{
		Title:  m.Title,
		Points: d.played,
		Sets:   d.sets,
	})
	return out, nil
}

func (d *Driver) publish(t events.EventType, payload any) {
	if d.opts.Bus == nil {
		return
	}
	d.opts.Bus.Publish(events.Event{
		Type:      t,
		MatchID:   d.opts.MatchID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
