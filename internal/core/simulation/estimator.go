package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/charleschow/tt-momentum/internal/core/momentum"
	"github.com/charleschow/tt-momentum/internal/core/state/match"
	"github.com/charleschow/tt-momentum/internal/telemetry"
)

const (
	DefaultTrials = 10000

	// ctxCheckEvery is how many trials a worker runs between context checks.
	ctxCheckEvery = 256
	// compactAt bounds the trial log: once it holds this many windows worth
	// of records, everything but the last window is dropped.
	compactAt = 8
)

// ScoringModel returns a player's relative chance of winning the next point
// given their own momentum and their momentum deficit to the opponent.
type ScoringModel interface {
	Probability(p match.Player, momentum, deficit float64) float64
}

// LoserPolicy decides what a simulated point contributes for its loser.
type LoserPolicy string

const (
	// LoserNegate records the negative of the loser's scoring probability.
	LoserNegate LoserPolicy = "negate"
	// LoserZero records nothing for the loser, like a real point.
	LoserZero LoserPolicy = "zero"
)

func ParseLoserPolicy(s string) (LoserPolicy, error) {
	switch LoserPolicy(s) {
	case "", LoserNegate:
		return LoserNegate, nil
	case LoserZero:
		return LoserZero, nil
	}
	return "", fmt.Errorf("unknown loser contribution policy %q (use negate or zero)", s)
}

type Config struct {
	Trials  int         // trials per estimate (default: 10000)
	Workers int         // goroutines per estimate (default: GOMAXPROCS)
	Seed    uint64      // base seed; 0 picks one from the clock
	Loser   LoserPolicy // simulated loser contribution (default: negate)
}

// State is the position a set is estimated from. History is the real point
// history the trial logs start from; it is only read, never modified.
type State struct {
	Score   match.Score
	Set     int
	History []match.PointRecord
}

// Estimate is the tally of one batch of trials.
type Estimate struct {
	Trials    int
	WinsOne   int
	WinsTwo   int
	WinProb   match.Pair
	AvgPoints float64 // mean simulated points until the set was decided
}

// Estimator runs Monte Carlo rollouts of the remainder of a set.
//
// Every Estimate call takes the next value of an internal sequence number and
// derives one PCG stream per worker from (Seed, sequence, worker). Trials are
// split across workers in a fixed way, so a given seed and call order always
// reproduce the same numbers regardless of goroutine scheduling. An Estimator
// is safe for concurrent use.
type Estimator struct {
	players  match.Players
	model    ScoringModel
	momentum momentum.Estimator
	cfg      Config
	calls    atomic.Uint64
}

func NewEstimator(players match.Players, model ScoringModel, mom momentum.Estimator, cfg Config) (*Estimator, error) {
	if model == nil {
		return nil, fmt.Errorf("scoring model is required")
	}
	if mom.Window < 1 {
		return nil, fmt.Errorf("momentum window must be >= 1, got %d", mom.Window)
	}
	if cfg.Trials <= 0 {
		cfg.Trials = DefaultTrials
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	loser, err := ParseLoserPolicy(string(cfg.Loser))
	if err != nil {
		return nil, err
	}
	cfg.Loser = loser

	return &Estimator{
		players:  players,
		model:    model,
		momentum: mom,
		cfg:      cfg,
	}, nil
}

func (e *Estimator) Config() Config { return e.cfg }

// Momentum returns the momentum estimator used inside rollouts.
func (e *Estimator) Momentum() momentum.Estimator { return e.momentum }

type tally struct {
	winsOne int
	winsTwo int
	points  int
}

// Estimate runs the configured number of trials from st.
func (e *Estimator) Estimate(ctx context.Context, st State) (Estimate, error) {
	start := time.Now()
	defer telemetry.Metrics.EstimateLatency.Since(start)
	telemetry.Metrics.EstimateCalls.Inc()

	seq := e.calls.Add(1)
	workers := min(e.cfg.Workers, e.cfg.Trials)
	results := make([]tally, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		n := e.cfg.Trials / workers
		if w < e.cfg.Trials%workers {
			n++
		}
		rng := rand.New(rand.NewPCG(e.cfg.Seed, streamID(seq, w)))
		g.Go(func() error {
			telemetry.Metrics.ActiveWorkers.Inc()
			defer telemetry.Metrics.ActiveWorkers.Dec()
			t, err := e.runTrials(gctx, st, n, rng)
			results[w] = t
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Estimate{}, fmt.Errorf("estimate set %d at %s: %w", st.Set, st.Score, err)
	}

	var sum tally
	for _, t := range results {
		sum.winsOne += t.winsOne
		sum.winsTwo += t.winsTwo
		sum.points += t.points
	}
	telemetry.Metrics.TrialsRun.Add(int64(e.cfg.Trials))
	telemetry.Metrics.PointsSimulated.Add(int64(sum.points))

	n := float64(e.cfg.Trials)
	return Estimate{
		Trials:  e.cfg.Trials,
		WinsOne: sum.winsOne,
		WinsTwo: sum.winsTwo,
		WinProb: match.Pair{
			One: float64(sum.winsOne) / n,
			Two: float64(e.cfg.Trials-sum.winsOne) / n,
		},
		AvgPoints: float64(sum.points) / n,
	}, nil
}

func (e *Estimator) runTrials(ctx context.Context, st State, n int, rng *rand.Rand) (tally, error) {
	var t tally
	trial := make([]match.PointRecord, 0, len(st.History)+compactAt*e.momentum.Window)
	for i := 0; i < n; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return t, err
			}
		}
		trial = append(trial[:0], st.History...)

		var winner match.Side
		var points int
		winner, points, trial = e.rollout(st, trial, rng)

		t.points += points
		if winner == match.SideOne {
			t.winsOne++
		} else {
			t.winsTwo++
		}
	}
	return t, nil
}

// rollout plays st out to the end of the set on the private trial log and
// returns the set winner, the number of simulated points and the (possibly
// reallocated) log buffer.
func (e *Estimator) rollout(st State, trial []match.PointRecord, rng *rand.Rand) (match.Side, int, []match.PointRecord) {
	score := st.Score
	window := e.momentum.Window
	points := 0
	for {
		if w, ok := score.Outcome().Winner(); ok {
			return w, points, trial
		}

		var m match.Pair
		if len(trial) > 0 {
			m = trial[len(trial)-1].Momentum
		}
		p := match.Pair{
			One: e.model.Probability(e.players.One, m.One, momentum.Deficit(m, match.SideOne)),
			Two: e.model.Probability(e.players.Two, m.Two, momentum.Deficit(m, match.SideTwo)),
		}

		winner := match.SideTwo
		if rng.Float64()*(p.One+p.Two) <= p.One {
			winner = match.SideOne
		}
		loser := winner.Opponent()

		r := match.PointRecord{Set: st.Set}
		r.Contribution.Set(winner, p.Get(winner))
		if e.cfg.Loser == LoserNegate {
			r.Contribution.Set(loser, -p.Get(loser))
		}

		if len(trial) >= compactAt*window {
			n := copy(trial, trial[len(trial)-window:])
			trial = trial[:n]
		}
		trial = append(trial, r)
		trial[len(trial)-1].Momentum = e.momentum.At(trial, st.Set)

		score = score.Add(winner)
		points++
	}
}

// streamID gives every (call, worker) pair its own PCG stream.
func streamID(seq uint64, worker int) uint64 {
	x := seq<<20 ^ uint64(worker)
	// splitmix64 finalizer
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
