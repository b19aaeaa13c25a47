// Package roster defines the domain model for rosterflow: players, team
// rosters, and the per-year season groupings the sankey builder consumes.
//
// The loader maps raw tournament records into these fixed value types at the
// boundary; downstream code never inspects untyped JSON. Team insertion order
// is significant (it determines node order in the diagram), so YearGroup is
// backed by a slice rather than a bare map.
package roster

import (
	"bytes"
	"fmt"
	"strings"
)

// Player identifies a tournament participant by name components.
// Two players with identical rendered names are indistinguishable - the
// upstream data carries no stable identity beyond the name.
type Player struct {
	Surname    string `json:"surname"`
	Name       string `json:"name"`
	Patronymic string `json:"patronymic,omitempty"`
}

// FullName renders the display name: surname, given name, and patronymic
// (when present), space-separated. This rendered string is the player's
// identity throughout the pipeline.
func (p Player) FullName() string {
	parts := []string{p.Surname, p.Name}
	if p.Patronymic != "" {
		parts = append(parts, p.Patronymic)
	}
	return strings.Join(parts, " ")
}

// Team is one team's roster within a single year: the team name plus the
// ordered list of rendered player names.
type Team struct {
	Name    string
	Players []string
}

// YearGroup holds the teams of one year in insertion order.
type YearGroup struct {
	Year  string
	teams []Team
	index map[string]int
}

// NewYearGroup creates an empty group for the given year label.
func NewYearGroup(year string) *YearGroup {
	return &YearGroup{Year: year, index: make(map[string]int)}
}

// Add records a team's roster. If the team was already added for this year
// (the same team appearing in two tournament files mapped to one year), the
// later roster replaces the earlier one, keeping the original position.
func (g *YearGroup) Add(name string, players []string) {
	if i, ok := g.index[name]; ok {
		g.teams[i].Players = players
		return
	}
	g.index[name] = len(g.teams)
	g.teams = append(g.teams, Team{Name: name, Players: players})
}

// Teams returns the rosters in insertion order.
func (g *YearGroup) Teams() []Team { return g.teams }

// Len returns the number of teams in the group.
func (g *YearGroup) Len() int { return len(g.teams) }

// Seasons is the full dataset: one YearGroup per year label.
type Seasons struct {
	groups map[string]*YearGroup
}

// NewSeasons creates an empty dataset.
func NewSeasons() *Seasons {
	return &Seasons{groups: make(map[string]*YearGroup)}
}

// Year returns the group for the given label, creating it if needed.
func (s *Seasons) Year(label string) *YearGroup {
	g, ok := s.groups[label]
	if !ok {
		g = NewYearGroup(label)
		s.groups[label] = g
	}
	return g
}

// Group returns the group for the given label, or nil if absent.
func (s *Seasons) Group(label string) *YearGroup {
	return s.groups[label]
}

// Years returns all year labels in unspecified order.
// Use SortYearsDesc for presentation order.
func (s *Seasons) Years() []string {
	out := make([]string, 0, len(s.groups))
	for y := range s.groups {
		out = append(out, y)
	}
	return out
}

// Len returns the number of years in the dataset.
func (s *Seasons) Len() int { return len(s.groups) }

// Fingerprint returns a deterministic byte representation of the dataset,
// suitable for content-addressed cache keys. Years are emitted in descending
// order, teams in insertion order.
func (s *Seasons) Fingerprint() []byte {
	var buf bytes.Buffer
	for _, year := range SortYearsDesc(s.Years()) {
		fmt.Fprintf(&buf, "year\x00%s\n", year)
		for _, t := range s.groups[year].Teams() {
			fmt.Fprintf(&buf, "team\x00%s\x00%s\n", t.Name, strings.Join(t.Players, "\x00"))
		}
	}
	return buf.Bytes()
}
