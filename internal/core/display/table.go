package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charleschow/tt-momentum/internal/core/state/match"
	"github.com/charleschow/tt-momentum/internal/events"
)

const (
	dividerHeavy = "========================================================================"
	dividerLight = "------------------------------------------------------------------------"
)

// Table prints one tab-separated row per real point. Columns follow the
// layout the plotting scripts read:
//
//	Point #N  Set  Score(A:B)  L_i  G_A  G_B  M_A  M_B  Elo_A  Elo_B  P_A
//
// Elo_* is the next-point scoring probability and P_A is side one's set-win
// estimate before the point.
type Table struct {
	mu      sync.Mutex
	w       io.Writer
	players match.Players
	started bool
}

func NewTable(w io.Writer, players match.Players) *Table {
	return &Table{w: w, players: players}
}

// Attach subscribes the table to the point, set and match events on bus.
func (t *Table) Attach(bus *events.Bus) {
	bus.Subscribe(events.EventPointScored, t.OnPoint)
	bus.Subscribe(events.EventSetFinished, t.OnSet)
	bus.Subscribe(events.EventMatchFinished, t.OnMatch)
}

func (t *Table) OnPoint(e events.Event) error {
	p, ok := e.Payload.(events.PointScored)
	if !ok {
		return fmt.Errorf("unexpected payload %T", e.Payload)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	if !t.started {
		t.started = true
		a, z := t.players.One.ID, t.players.Two.ID
		fmt.Fprintf(&b, "Point #N\tSet\tScore(%s:%s)\tL_i\t\tG_%s\t\tG_%s\t\tM_%s\t\tM_%s\t\tElo_%s\t\tElo_%s\t\tP_%s\n",
			a, z, a, z, a, z, a, z, a)
		fmt.Fprintf(&b, "%s%s\n", dividerLight, dividerLight)
	}
	fmt.Fprintf(&b, "%d\t\t%d\t%s\t\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\n",
		p.Index, p.Set, p.Score,
		p.Leverage, p.Contribution.One, p.Contribution.Two,
		p.Momentum.One, p.Momentum.Two,
		p.Probability.One, p.Probability.Two,
		p.WinProb)

	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *Table) OnSet(e events.Event) error {
	s, ok := e.Payload.(events.SetFinished)
	if !ok {
		return fmt.Errorf("unexpected payload %T", e.Payload)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.w, "# set %d  %s  won by %s  (sets %s)\n",
		s.Set, s.Score, shortName(t.players.Get(s.Winner).Name), s.Sets)
	return err
}

func (t *Table) OnMatch(e events.Event) error {
	m, ok := e.Payload.(events.MatchFinished)
	if !ok {
		return fmt.Errorf("unexpected payload %T", e.Payload)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	winner := match.SideOne
	if m.Sets.Two > m.Sets.One {
		winner = match.SideTwo
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", dividerHeavy)
	if m.Title != "" {
		fmt.Fprintf(&b, "  %s\n", m.Title)
	}
	fmt.Fprintf(&b, "    %-20s%s %d  |  %s %d\n", "Sets:",
		shortName(t.players.One.Name), m.Sets.One, shortName(t.players.Two.Name), m.Sets.Two)
	fmt.Fprintf(&b, "    %-20s%s\n", "Winner:", t.players.Get(winner).Name)
	fmt.Fprintf(&b, "    %-20s%d\n", "Points:", m.Points)
	fmt.Fprintf(&b, "%s\n", dividerHeavy)

	_, err := io.WriteString(t.w, b.String())
	return err
}

// shortName keeps the family name. Names written family-first in upper case
// ("FAN Zhendong") keep the first word.
func shortName(name string) string {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return name
	}
	if len(parts) > 1 && len(parts[0]) > 1 && strings.ToUpper(parts[0]) == parts[0] {
		return parts[0]
	}
	return parts[len(parts)-1]
}
