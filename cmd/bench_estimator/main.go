// Measure Monte Carlo estimate latency for the configured match players.
//
// Runs n estimates from a handful of representative set scores for each
// worker count and prints per-call latency statistics and throughput.
//
// Usage:
//
//	go run ./cmd/bench_estimator                 # default: 20 estimates per case
//	go run ./cmd/bench_estimator -n 50           # 50 estimates per case
//	go run ./cmd/bench_estimator -workers 1,8    # only these worker counts
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/charleschow/tt-momentum/internal/adapters/inbound/matchfile"
	"github.com/charleschow/tt-momentum/internal/config"
	"github.com/charleschow/tt-momentum/internal/core/model"
	"github.com/charleschow/tt-momentum/internal/core/simulation"
	"github.com/charleschow/tt-momentum/internal/core/state/match"
)

var scores = []match.Score{{}, {One: 5, Two: 5}, {One: 10, Two: 10}}

func main() {
	n := flag.Int("n", 20, "number of estimates per case")
	workerList := flag.String("workers", "", "comma separated worker counts (default 1,2,4,GOMAXPROCS)")
	flag.Parse()

	cfg := config.Load()
	mdl, err := config.LoadModel(cfg.ModelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if cfg.Trials > 0 {
		mdl.Trials = cfg.Trials
	}
	mt, err := matchfile.Load(cfg.MatchPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	workers, err := parseWorkers(*workerList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad -workers: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nEstimator bench  %s vs %s  trials=%s  GOMAXPROCS=%d\n",
		mt.Players.One.Name, mt.Players.Two.Name, humanize.Comma(int64(mdl.Trials)), runtime.GOMAXPROCS(0))

	for _, w := range workers {
		est, err := simulation.NewEstimator(mt.Players, model.NewMomentum(mdl.Weights), mdl.Momentum(), simulation.Config{
			Trials:  mdl.Trials,
			Workers: w,
			Seed:    cfg.Seed,
			Loser:   mdl.LoserPolicy(),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		benchWorkers(est, w, *n)
	}
	fmt.Println()
}

func benchWorkers(est *simulation.Estimator, workers, n int) {
	fmt.Printf("\n%s\n", strings.Repeat("=", 55))
	fmt.Printf("  WORKERS %d\n", workers)
	fmt.Printf("%s\n", strings.Repeat("=", 55))

	ctx := context.Background()
	for _, s := range scores {
		st := simulation.State{Score: s}
		if _, err := est.Estimate(ctx, st); err != nil {
			fmt.Printf("  [!] Warm-up estimate failed: %v\n", err)
			return
		}

		fmt.Printf("\n  Score %s (%d estimates):\n", s, n)
		var latencies []float64
		var points float64
		pad := len(fmt.Sprintf("%d", n))
		for i := 1; i <= n; i++ {
			start := time.Now()
			e, err := est.Estimate(ctx, st)
			ms := float64(time.Since(start).Microseconds()) / 1000
			if err != nil {
				fmt.Printf("  [%*d/%d]  FAILED: %v\n", pad, i, n, err)
				continue
			}
			latencies = append(latencies, ms)
			points += e.AvgPoints * float64(e.Trials)
			if i <= 3 || i == n {
				fmt.Printf("  [%*d/%d]  %7.1f ms  (P(A)=%.3f  avg %.1f pts)\n", pad, i, n, ms, e.WinProb.One, e.AvgPoints)
			}
		}
		printStats(latencies, s.String())
		if total := sum(latencies); total > 0 {
			fmt.Printf("  Sim:    %s points/s\n", humanize.Comma(int64(points/(total/1000))))
		}
	}
}

func parseWorkers(s string) ([]int, error) {
	if s == "" {
		out := []int{1, 2, 4}
		if p := runtime.GOMAXPROCS(0); p > 4 {
			out = append(out, p)
		}
		return out, nil
	}
	var out []int
	for _, f := range strings.Split(s, ",") {
		w, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil || w < 1 {
			return nil, fmt.Errorf("invalid worker count %q", f)
		}
		out = append(out, w)
	}
	return out, nil
}

func sum(xs []float64) float64 {
	t := 0.0
	for _, x := range xs {
		t += x
	}
	return t
}

func printStats(latencies []float64, label string) {
	if len(latencies) < 2 {
		fmt.Printf("\n  Not enough %s samples for statistics.\n", label)
		return
	}
	sorted := make([]float64, len(latencies))
	copy(sorted, latencies)
	sort.Float64s(sorted)

	mean := sum(latencies) / float64(len(latencies))

	variance := 0.0
	for _, v := range latencies {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(latencies) - 1)
	stdev := math.Sqrt(variance)

	median := sorted[len(sorted)/2]
	p95Idx := int(float64(len(sorted)) * 0.95)
	if p95Idx >= len(sorted) {
		p95Idx = len(sorted) - 1
	}
	p99Idx := int(float64(len(sorted)) * 0.99)
	if p99Idx >= len(sorted) {
		p99Idx = len(sorted) - 1
	}

	fmt.Printf("\n  --- %s Stats (%d estimates) ---\n", label, len(latencies))
	fmt.Printf("  Min:    %7.1f ms\n", sorted[0])
	fmt.Printf("  Max:    %7.1f ms\n", sorted[len(sorted)-1])
	fmt.Printf("  Mean:   %7.1f ms\n", mean)
	fmt.Printf("  Median: %7.1f ms\n", median)
	fmt.Printf("  Stdev:  %7.1f ms\n", stdev)
	fmt.Printf("  p95:    %7.1f ms\n", sorted[p95Idx])
	fmt.Printf("  p99:    %7.1f ms\n", sorted[p99Idx])
}
