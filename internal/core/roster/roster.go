package roster

import (
	"fmt"

	"github.com/charleschow/tt-momentum/internal/core/state/match"
)

// Roster indexes players by tag and by normalized name.
type Roster struct {
	byTag  map[string]match.Player
	byName map[string]match.Player
}

func New(players ...match.Player) (*Roster, error) {
	r := &Roster{
		byTag:  make(map[string]match.Player, len(players)),
		byName: make(map[string]match.Player, len(players)),
	}
	for _, p := range players {
		if err := r.Add(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Roster) Add(p match.Player) error {
	if p.ID == "" {
		return fmt.Errorf("player %q has no id", p.Name)
	}
	if _, dup := r.byTag[p.ID]; dup {
		return fmt.Errorf("duplicate player id %q", p.ID)
	}
	key := Normalize(p.Name)
	if key != "" {
		if other, dup := r.byName[key]; dup {
			return fmt.Errorf("players %q and %q share the name %q", other.ID, p.ID, key)
		}
		r.byName[key] = p
	}
	r.byTag[p.ID] = p
	return nil
}

// Lookup resolves a reference by exact tag first, then by normalized name.
func (r *Roster) Lookup(ref string) (match.Player, bool) {
	if p, ok := r.byTag[ref]; ok {
		return p, true
	}
	p, ok := r.byName[Normalize(ref)]
	return p, ok
}

func (r *Roster) Len() int { return len(r.byTag) }
