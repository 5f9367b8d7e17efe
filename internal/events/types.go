package events

import "github.com/charleschow/tt-momentum/internal/core/state/match"

// PointScored is published once per real point, after its record is in the
// log. Every number is from the perspective of the side named in the field.
type PointScored struct {
	Index  int         `json:"index"` // 1-based across the match
	Set    int         `json:"set"`   // 1-based
	Winner match.Side  `json:"winner"`
	Score  match.Score `json:"score"` // after the point

	Leverage     float64    `json:"leverage"`
	Contribution match.Pair `json:"contribution"`
	Momentum     match.Pair `json:"momentum"`
	Probability  match.Pair `json:"probability"` // next-point scoring probability after this point

	// WinProb is side one's set-win estimate before the point was played.
	WinProb        float64 `json:"win_prob"`
	ExpectedPoints float64 `json:"expected_points"`
}

// SetFinished is published when a set's last point has been processed.
type SetFinished struct {
	Set    int         `json:"set"` // 1-based
	Winner match.Side  `json:"winner"`
	Score  match.Score `json:"score"`
	Sets   match.Score `json:"sets"` // sets won so far
}

// MatchFinished closes a run.
type MatchFinished struct {
	Title  string      `json:"title"`
	Points int         `json:"points"`
	Sets   match.Score `json:"sets"`
}
