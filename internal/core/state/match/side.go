package match

import "fmt"

// Side identifies one of the two players in a match. SideOne is the player
// listed first in the feed.
type Side int

const (
	SideOne Side = iota + 1
	SideTwo
)

func (s Side) Opponent() Side {
	if s == SideOne {
		return SideTwo
	}
	return SideOne
}

func (s Side) Valid() bool { return s == SideOne || s == SideTwo }

func (s Side) String() string {
	switch s {
	case SideOne:
		return "one"
	case SideTwo:
		return "two"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Pair holds one float per side.
type Pair struct {
	One float64
	Two float64
}

func (p Pair) Get(s Side) float64 {
	if s == SideTwo {
		return p.Two
	}
	return p.One
}

func (p *Pair) Set(s Side, v float64) {
	if s == SideTwo {
		p.Two = v
		return
	}
	p.One = v
}

// Score is the running point count inside one set.
type Score struct {
	One int
	Two int
}

func (s Score) Get(side Side) int {
	if side == SideTwo {
		return s.Two
	}
	return s.One
}

// Add returns the score with one more point for side.
func (s Score) Add(side Side) Score {
	if side == SideTwo {
		s.Two++
	} else {
		s.One++
	}
	return s
}

func (s Score) Outcome() Outcome { return SetOutcome(s.One, s.Two) }

func (s Score) String() string { return fmt.Sprintf("%d:%d", s.One, s.Two) }
