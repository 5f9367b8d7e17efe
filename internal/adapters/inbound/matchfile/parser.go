package matchfile

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/charleschow/tt-momentum/internal/core/roster"
	"github.com/charleschow/tt-momentum/internal/core/state/match"
)

// ErrUnknownTag is returned when a set sequence contains a character that
// is neither player's tag.
var ErrUnknownTag = errors.New("unknown point-winner tag")

type playerEntry struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Capability float64 `yaml:"capability"`
	Resilience float64 `yaml:"resilience"`
	Form       float64 `yaml:"form"`
}

type file struct {
	Title     string        `yaml:"title"`
	Players   []playerEntry `yaml:"players"`
	PlayerOne string        `yaml:"player_one"`
	PlayerTwo string        `yaml:"player_two"`
	Sets      []string      `yaml:"sets"`
}

// Load reads and parses a match file.
func Load(path string) (match.Match, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return match.Match{}, fmt.Errorf("read match: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return match.Match{}, fmt.Errorf("match %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a YAML match description. player_one / player_two may name
// a roster entry by id or by (normalized) name; when omitted the first two
// roster entries are used. Each set is a string of player ids, one per
// point, whitespace ignored.
func Parse(data []byte) (match.Match, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return match.Match{}, fmt.Errorf("parse match: %w", err)
	}

	players := make([]match.Player, 0, len(f.Players))
	for _, p := range f.Players {
		if len([]rune(p.ID)) != 1 {
			return match.Match{}, fmt.Errorf("player %q: id must be a single character, got %q", p.Name, p.ID)
		}
		form := p.Form
		if form == 0 {
			form = 1
		}
		players = append(players, match.Player{
			ID:         p.ID,
			Name:       p.Name,
			Capability: p.Capability,
			Resilience: p.Resilience,
			Form:       form,
		})
	}
	r, err := roster.New(players...)
	if err != nil {
		return match.Match{}, err
	}
	if r.Len() < 2 {
		return match.Match{}, fmt.Errorf("need two players, got %d", r.Len())
	}

	one, err := pick(r, f.PlayerOne, players[0])
	if err != nil {
		return match.Match{}, fmt.Errorf("player_one: %w", err)
	}
	two, err := pick(r, f.PlayerTwo, players[1])
	if err != nil {
		return match.Match{}, fmt.Errorf("player_two: %w", err)
	}
	if one.ID == two.ID {
		return match.Match{}, fmt.Errorf("player_one and player_two are both %q", one.ID)
	}

	m := match.Match{
		Title:   f.Title,
		Players: match.Players{One: one, Two: two},
	}
	if len(f.Sets) == 0 {
		return match.Match{}, fmt.Errorf("no sets")
	}
	for i, raw := range f.Sets {
		seq, err := ParseSet(raw, m.Players)
		if err != nil {
			return match.Match{}, fmt.Errorf("set %d: %w", i+1, err)
		}
		m.Sets = append(m.Sets, seq)
	}
	return m, nil
}

// ParseSet converts a string like "HFHH" into point winners.
func ParseSet(raw string, players match.Players) ([]match.Side, error) {
	raw = strings.Join(strings.Fields(raw), "")
	if raw == "" {
		return nil, fmt.Errorf("empty set")
	}
	out := make([]match.Side, 0, len(raw))
	for i, r := range []rune(raw) {
		side, ok := players.SideOf(string(r))
		if !ok {
			return nil, fmt.Errorf("point %d: %w %q", i+1, ErrUnknownTag, r)
		}
		out = append(out, side)
	}
	return out, nil
}

func pick(r *roster.Roster, ref string, fallback match.Player) (match.Player, error) {
	if ref == "" {
		return fallback, nil
	}
	p, ok := r.Lookup(ref)
	if !ok {
		return match.Player{}, fmt.Errorf("no player matches %q", ref)
	}
	return p, nil
}
