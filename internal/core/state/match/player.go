package match

// Player is static configuration. The engine never mutates it.
type Player struct {
	ID   string // single-character tag used in point sequences, e.g. "H"
	Name string

	Capability float64 // base skill, 0–1
	Resilience float64 // psychological resilience, 0–1; dampens momentum deficit
	Form       float64 // current condition multiplier
}

// Players is the pair of competitors, indexed by Side.
type Players struct {
	One Player
	Two Player
}

func (p Players) Get(s Side) Player {
	if s == SideTwo {
		return p.Two
	}
	return p.One
}

// SideOf resolves a point-winner tag to a side.
func (p Players) SideOf(tag string) (Side, bool) {
	switch tag {
	case p.One.ID:
		return SideOne, true
	case p.Two.ID:
		return SideTwo, true
	}
	return 0, false
}

// Match is a fixed historical sequence: who played and, per set, the side
// that won each point in order.
type Match struct {
	Title   string
	Players Players
	Sets    [][]Side
}

// Points is the total number of points across all sets.
func (m Match) Points() int {
	n := 0
	for _, s := range m.Sets {
		n += len(s)
	}
	return n
}
