// Replay a recorded match point by point and print momentum, leverage and
// set-win probability for every point.
//
// Usage:
//
//	go run ./cmd/momentum                               # match from MATCH_PATH
//	go run ./cmd/momentum -match data/matches/x.yaml    # another match file
//	go run ./cmd/momentum -baseline                     # fixed-strength model
//
// Tuning lives in MODEL_PATH; SEED, TRIALS, WORKERS and REPORT_DB_PATH are
// read from the environment (or .env).
package main

import (
	"flag"

	"github.com/charleschow/tt-momentum/internal/process"
)

func main() {
	baseline := flag.Bool("baseline", false, "use fixed player strength instead of the momentum model")
	matchPath := flag.String("match", "", "match file (overrides MATCH_PATH)")
	flag.Parse()

	process.Run(process.Options{
		Baseline:  *baseline,
		MatchPath: *matchPath,
	})
}
