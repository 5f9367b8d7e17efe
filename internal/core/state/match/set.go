package match

// Table tennis set: first to 11, two clear points.
const (
	SetTarget = 11
	SetMargin = 2
)

type Outcome int

const (
	InProgress Outcome = iota
	SideOneWins
	SideTwoWins
)

func (o Outcome) Decided() bool { return o != InProgress }

// Winner returns the side that took the set, or false while it is live.
func (o Outcome) Winner() (Side, bool) {
	switch o {
	case SideOneWins:
		return SideOne, true
	case SideTwoWins:
		return SideTwo, true
	default:
		return 0, false
	}
}

func (o Outcome) String() string {
	switch o {
	case SideOneWins:
		return "side one wins"
	case SideTwoWins:
		return "side two wins"
	default:
		return "in progress"
	}
}

// SetOutcome reports whether a set at a:b is over and who won it.
func SetOutcome(a, b int) Outcome {
	hi, lo := max(a, b), min(a, b)
	if hi >= SetTarget && hi-lo >= SetMargin {
		if a > b {
			return SideOneWins
		}
		return SideTwoWins
	}
	return InProgress
}
