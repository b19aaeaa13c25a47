// Package sankey builds the node/link graph behind the player-continuity
// sankey diagram.
//
// The builder consumes per-year team rosters and produces one column of nodes
// per year, padded with placeholder nodes to a uniform height, plus two kinds
// of links between adjacent years: real links weighted by shared-player count
// and fixed-weight structural links that keep the visual grid fully connected.
//
// # Adjacency
//
// Years are ordered most recent first (see roster.SortYearsDesc). Two years
// are adjacent when consecutive in that order - a dataset holding 2024 and
// 2021 with nothing in between links them directly. Links run from the
// chronologically earlier node to the later one.
//
// # Determinism
//
// Shared player names inside a link are sorted lexicographically, so building
// the same dataset twice produces byte-identical output.
package sankey

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mkazantsev/rosterflow/pkg/errors"
	"github.com/mkazantsev/rosterflow/pkg/roster"
)

// placeholderLabel numbers placeholder nodes within a year. The Cyrillic
// label is what the existing diagram consumer displays.
const placeholderLabel = "Команда %d"

// placeholderKey builds the displayKey of the n-th placeholder of a year.
// Keys are unique per placeholder; the legacy single-sentinel scheme is not
// preserved.
func placeholderKey(year string, n int) string {
	return fmt.Sprintf("%s_placeholder_%d", year, n)
}

// BuildOption configures the builder.
type BuildOption func(*builder)

// WithLogger attaches a logger for build diagnostics (team counts, padding,
// link totals). Without it diagnostics are discarded.
func WithLogger(l *log.Logger) BuildOption {
	return func(b *builder) {
		if l != nil {
			b.logger = l
		}
	}
}

type builder struct {
	logger *log.Logger
}

// Build constructs the diagram from the dataset.
//
// It returns errors.ErrCodeEmptyDataset when the dataset holds no years, or
// holds years but no teams anywhere - the grid height is undefined in either
// case and nothing can be built.
func Build(seasons *roster.Seasons, opts ...BuildOption) (*Diagram, error) {
	b := &builder{logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(b)
	}

	if seasons == nil || seasons.Len() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "no years in dataset")
	}

	years := roster.SortYearsDesc(seasons.Years())

	maxTeams := 0
	for _, year := range years {
		if n := seasons.Group(year).Len(); n > maxTeams {
			maxTeams = n
		}
	}
	if maxTeams == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDataset, "dataset has %d years but no teams", len(years))
	}
	b.logger.Debug("computed grid height", "years", len(years), "max_teams", maxTeams)

	// Links starts non-nil so a single-year diagram still serializes its
	// links field as an empty array, which the d3 consumer iterates.
	d := &Diagram{Links: []Link{}, MaxTeams: maxTeams}
	yearNodes := b.buildNodes(d, seasons, years, maxTeams)
	b.buildRealLinks(d, years, yearNodes)
	b.buildStructuralLinks(d, years, yearNodes, maxTeams)

	b.logger.Debug("built diagram",
		"nodes", d.NodeCount(),
		"links", d.LinkCount(),
		"real_links", d.LinkCount()-(len(years)-1)*maxTeams)

	return d, nil
}

// buildNodes emits one column of nodes per year, most recent year first:
// real teams in loader insertion order, then placeholders up to maxTeams.
// It returns, per year, the ordered node indices of that column.
func (b *builder) buildNodes(d *Diagram, seasons *roster.Seasons, years []string, maxTeams int) map[string][]int {
	yearNodes := make(map[string][]int, len(years))

	for _, year := range years {
		teams := seasons.Group(year).Teams()

		for _, t := range teams {
			idx := len(d.Nodes)
			d.Nodes = append(d.Nodes, Node{
				DisplayKey: fmt.Sprintf("%s_%s", year, t.Name),
				Label:      t.Name,
				Roster:     strings.Join(t.Players, RosterSeparator),
				Year:       year,
				Index:      idx,
				Color:      idx % maxTeams,
			})
			yearNodes[year] = append(yearNodes[year], idx)
		}

		for i := len(teams); i < maxTeams; i++ {
			n := i - len(teams) + 1
			idx := len(d.Nodes)
			d.Nodes = append(d.Nodes, Node{
				DisplayKey: placeholderKey(year, n),
				Label:      fmt.Sprintf(placeholderLabel, n),
				Year:       year,
				Index:      idx,
				Color:      idx % maxTeams,
			})
			yearNodes[year] = append(yearNodes[year], idx)
		}

		if pad := maxTeams - len(teams); pad > 0 {
			b.logger.Debug("padded year", "year", year, "teams", len(teams), "placeholders", pad)
		}
	}

	return yearNodes
}

// buildRealLinks emits one link per pair of teams in adjacent years that
// share at least one player. Placeholders carry empty rosters and are
// skipped outright.
func (b *builder) buildRealLinks(d *Diagram, years []string, yearNodes map[string][]int) {
	for i := 0; i+1 < len(years); i++ {
		later, earlier := years[i], years[i+1]

		for _, src := range yearNodes[earlier] {
			prev := &d.Nodes[src]
			if prev.IsPlaceholder() {
				continue
			}
			prevPlayers := splitRoster(prev.Roster)

			for _, dst := range yearNodes[later] {
				curr := &d.Nodes[dst]
				if curr.IsPlaceholder() {
					continue
				}

				shared := intersect(prevPlayers, splitRoster(curr.Roster))
				if len(shared) == 0 {
					continue
				}
				d.Links = append(d.Links, Link{
					Source: src,
					Target: dst,
					Value:  float64(len(shared)),
					Roster: strings.Join(shared, RosterSeparator),
				})
			}
		}
	}
}

// buildStructuralLinks emits one fixed-weight link per grid position between
// every pair of adjacent years, unconditionally - even where a real link
// already connects the same nodes, and regardless of placeholders.
func (b *builder) buildStructuralLinks(d *Diagram, years []string, yearNodes map[string][]int, maxTeams int) {
	for i := 0; i+1 < len(years); i++ {
		later, earlier := years[i], years[i+1]
		for pos := 0; pos < maxTeams; pos++ {
			d.Links = append(d.Links, Link{
				Source: yearNodes[earlier][pos],
				Target: yearNodes[later][pos],
				Value:  StructuralWeight,
			})
		}
	}
}

// splitRoster turns a roster string back into a player-name set.
func splitRoster(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, name := range strings.Split(s, RosterSeparator) {
		set[name] = struct{}{}
	}
	return set
}

// intersect returns the names present in both sets, sorted.
func intersect(a, b map[string]struct{}) []string {
	var shared []string
	for name := range a {
		if _, ok := b[name]; ok {
			shared = append(shared, name)
		}
	}
	sort.Strings(shared)
	return shared
}
