package matchfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charleschow/tt-momentum/internal/core/state/match"
)

const tokyo = `
title: Tokyo Olympics, Harimoto vs Fan Zhendong
players:
  - id: H
    name: Harimoto Tomokazu
    capability: 0.45
    resilience: 0.8
    form: 0.9
  - id: F
    name: Fán Zhèndōng
    capability: 0.55
    resilience: 0.9
    form: 0.9
player_one: harimoto tomokazu
player_two: F
sets:
  - HFHHHHHHHHHFH
  - HHFFHFFFHH FHHHFFHFHH
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(tokyo))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Players.One.ID != "H" || m.Players.Two.ID != "F" {
		t.Fatalf("unexpected sides: %+v", m.Players)
	}
	if m.Players.Two.Capability != 0.55 || m.Players.Two.Resilience != 0.9 {
		t.Fatalf("attributes not carried: %+v", m.Players.Two)
	}
	if len(m.Sets) != 2 || len(m.Sets[0]) != 13 || len(m.Sets[1]) != 20 {
		t.Fatalf("unexpected sets: %d / %v", len(m.Sets), m.Points())
	}
	if m.Sets[0][0] != match.SideOne || m.Sets[0][1] != match.SideTwo {
		t.Fatalf("unexpected first points: %v", m.Sets[0][:2])
	}
	if m.Points() != 33 {
		t.Fatalf("expected 33 points, got %d", m.Points())
	}
}

func TestParseSwappedSides(t *testing.T) {
	body := strings.Replace(tokyo, "player_one: harimoto tomokazu\nplayer_two: F", "player_one: F\nplayer_two: H", 1)
	m, err := Parse([]byte(body))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Players.One.ID != "F" || m.Sets[0][0] != match.SideTwo {
		t.Fatalf("expected F as side one, got %+v / %v", m.Players.One, m.Sets[0][0])
	}
}

func TestParseRejectsUnknownTag(t *testing.T) {
	body := strings.Replace(tokyo, "HFHHHHHHHHHFH", "HFHXHHHHHHHFH", 1)
	_, err := Parse([]byte(body))
	if !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
	if !strings.Contains(err.Error(), "set 1") || !strings.Contains(err.Error(), "point 4") {
		t.Fatalf("expected set and point position in error, got %v", err)
	}
}

func TestParseRejectsBadPlayers(t *testing.T) {
	cases := []string{
		"players: [{id: H, name: A}]\nsets: [H]",
		"players: [{id: HH, name: A}, {id: F, name: B}]\nsets: [H]",
		"players: [{id: H, name: A}, {id: F, name: B}]\nplayer_one: Z\nsets: [H]",
		"players: [{id: H, name: A}, {id: F, name: B}]\nplayer_one: H\nplayer_two: a\nsets: [H]",
		"players: [{id: H, name: A}, {id: F, name: B}]",
	}
	for _, body := range cases {
		if _, err := Parse([]byte(body)); err == nil {
			t.Fatalf("expected error for %q", body)
		}
	}
}

func TestParseDefaultsForm(t *testing.T) {
	m, err := Parse([]byte("players: [{id: H, name: A, capability: 0.5}, {id: F, name: B}]\nsets: [HF]"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Players.One.Form != 1 {
		t.Fatalf("expected form to default to 1, got %v", m.Players.One.Form)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.yaml")
	if err := os.WriteFile(path, []byte(tokyo), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := Load(path + ".missing"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
