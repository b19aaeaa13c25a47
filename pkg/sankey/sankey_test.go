package sankey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mkazantsev/rosterflow/pkg/errors"
	"github.com/mkazantsev/rosterflow/pkg/roster"
)

// twoYearDataset builds the canonical two-year dataset used across tests:
//
//	2023: Alpha{A,B,C}, Beta{D,E}
//	2022: Alpha{A,B,X}, Gamma{D,Y}, Delta{Z}
//
// maxTeams is 3, so 2023 gains one placeholder.
func twoYearDataset() *roster.Seasons {
	s := roster.NewSeasons()
	s.Year("2023").Add("Alpha", []string{"A", "B", "C"})
	s.Year("2023").Add("Beta", []string{"D", "E"})
	s.Year("2022").Add("Alpha", []string{"A", "B", "X"})
	s.Year("2022").Add("Gamma", []string{"D", "Y"})
	s.Year("2022").Add("Delta", []string{"Z"})
	return s
}

func mustBuild(t *testing.T, s *roster.Seasons) *Diagram {
	t.Helper()
	d, err := Build(s)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return d
}

func TestBuildGridShape(t *testing.T) {
	d := mustBuild(t, twoYearDataset())

	if d.MaxTeams != 3 {
		t.Fatalf("MaxTeams = %d, want 3", d.MaxTeams)
	}
	if got := d.NodeCount(); got != 6 {
		t.Fatalf("NodeCount() = %d, want 6 (2 years x 3 slots)", got)
	}

	// Indices are dense and match slice position.
	for i, n := range d.Nodes {
		if n.Index != i {
			t.Errorf("Nodes[%d].Index = %d, want %d", i, n.Index, i)
		}
		if n.Color != i%d.MaxTeams {
			t.Errorf("Nodes[%d].Color = %d, want %d", i, n.Color, i%d.MaxTeams)
		}
	}

	// Most recent year first, teams in insertion order, placeholders last.
	wantKeys := []string{
		"2023_Alpha", "2023_Beta", "2023_placeholder_1",
		"2022_Alpha", "2022_Gamma", "2022_Delta",
	}
	for i, want := range wantKeys {
		if d.Nodes[i].DisplayKey != want {
			t.Errorf("Nodes[%d].DisplayKey = %q, want %q", i, d.Nodes[i].DisplayKey, want)
		}
	}
}

func TestBuildPlaceholders(t *testing.T) {
	d := mustBuild(t, twoYearDataset())

	ph := d.Nodes[2]
	if !ph.IsPlaceholder() {
		t.Fatal("node 2 should be a placeholder")
	}
	if ph.Roster != "" {
		t.Errorf("placeholder Roster = %q, want empty", ph.Roster)
	}
	if ph.Label != "Команда 1" {
		t.Errorf("placeholder Label = %q, want %q", ph.Label, "Команда 1")
	}
	if ph.Year != "2023" {
		t.Errorf("placeholder Year = %q, want 2023", ph.Year)
	}

	for i, n := range d.Nodes {
		if i == 2 {
			continue
		}
		if n.IsPlaceholder() {
			t.Errorf("node %d unexpectedly a placeholder", i)
		}
	}
}

func TestBuildPlaceholderKeysDistinct(t *testing.T) {
	s := roster.NewSeasons()
	s.Year("2023").Add("Solo", []string{"A"})
	s.Year("2022").Add("One", []string{"B"})
	s.Year("2022").Add("Two", []string{"C"})
	s.Year("2022").Add("Three", []string{"D"})

	d := mustBuild(t, s)

	seen := make(map[string]bool)
	for _, n := range d.Nodes {
		if seen[n.DisplayKey] {
			t.Errorf("duplicate DisplayKey %q", n.DisplayKey)
		}
		seen[n.DisplayKey] = true
	}

	// 2023 pads with two placeholders, numbered within the year.
	if !seen["2023_placeholder_1"] || !seen["2023_placeholder_2"] {
		t.Error("expected 2023_placeholder_1 and 2023_placeholder_2")
	}
}

func TestBuildRealLinks(t *testing.T) {
	d := mustBuild(t, twoYearDataset())

	real := d.RealLinks()
	if len(real) != 2 {
		t.Fatalf("real link count = %d, want 2", len(real))
	}

	byKey := func(l Link) string {
		return fmt.Sprintf("%s->%s", d.Nodes[l.Source].DisplayKey, d.Nodes[l.Target].DisplayKey)
	}
	got := make(map[string]Link, len(real))
	for _, l := range real {
		got[byKey(l)] = l
	}

	// Alpha keeps A and B across the years. Source is the earlier year.
	alpha, ok := got["2022_Alpha->2023_Alpha"]
	if !ok {
		t.Fatalf("missing Alpha continuity link, got %v", got)
	}
	if alpha.Value != 2 {
		t.Errorf("Alpha link Value = %v, want 2", alpha.Value)
	}
	if alpha.Roster != "A\nB" {
		t.Errorf("Alpha link Roster = %q, want %q", alpha.Roster, "A\nB")
	}

	// D moved from Gamma to Beta.
	moved, ok := got["2022_Gamma->2023_Beta"]
	if !ok {
		t.Fatalf("missing Gamma->Beta link, got %v", got)
	}
	if moved.Value != 1 || moved.Roster != "D" {
		t.Errorf("Gamma->Beta link = {%v %q}, want {1 D}", moved.Value, moved.Roster)
	}
}

func TestBuildSharedRosterSorted(t *testing.T) {
	s := roster.NewSeasons()
	s.Year("2023").Add("Team", []string{"zeta", "alpha", "mid"})
	s.Year("2022").Add("Team", []string{"mid", "zeta", "alpha"})

	d := mustBuild(t, s)
	real := d.RealLinks()
	if len(real) != 1 {
		t.Fatalf("real link count = %d, want 1", len(real))
	}
	if real[0].Roster != "alpha\nmid\nzeta" {
		t.Errorf("shared roster = %q, want sorted %q", real[0].Roster, "alpha\nmid\nzeta")
	}
}

func TestBuildStructuralLinks(t *testing.T) {
	d := mustBuild(t, twoYearDataset())

	var structural []Link
	for _, l := range d.Links {
		if l.IsStructural() {
			structural = append(structural, l)
		}
	}

	// One per grid position per adjacent year pair.
	if len(structural) != 3 {
		t.Fatalf("structural link count = %d, want 3", len(structural))
	}
	for i, l := range structural {
		if l.Value != StructuralWeight {
			t.Errorf("structural[%d].Value = %v, want %v", i, l.Value, StructuralWeight)
		}
		// Position i in 2022 connects to position i in 2023.
		if l.Source != 3+i || l.Target != i {
			t.Errorf("structural[%d] = %d->%d, want %d->%d", i, l.Source, l.Target, 3+i, i)
		}
	}

	// Real links come before structural links in the output.
	realSeen := 0
	for i, l := range d.Links {
		if !l.IsStructural() {
			realSeen++
			if realSeen <= len(d.Links)-len(structural) && i >= len(d.Links)-len(structural) {
				t.Error("real link found after structural links")
			}
		}
	}
}

func TestBuildStructuralCoversPlaceholders(t *testing.T) {
	// No shared players at all: only the grid lattice remains.
	s := roster.NewSeasons()
	s.Year("2023").Add("Alpha", []string{"A"})
	s.Year("2022").Add("Beta", []string{"B"})
	s.Year("2021").Add("Gamma", []string{"C"})

	d := mustBuild(t, s)

	if len(d.RealLinks()) != 0 {
		t.Errorf("real links = %d, want 0", len(d.RealLinks()))
	}
	if got := d.LinkCount(); got != 2 {
		t.Errorf("LinkCount() = %d, want 2 structural", got)
	}
}

func TestBuildAdjacencySkipsGaps(t *testing.T) {
	// 2024 and 2021 are adjacent in this dataset despite the numeric gap.
	s := roster.NewSeasons()
	s.Year("2024").Add("Alpha", []string{"A", "B"})
	s.Year("2021").Add("Alpha", []string{"B", "C"})

	d := mustBuild(t, s)
	real := d.RealLinks()
	if len(real) != 1 {
		t.Fatalf("real link count = %d, want 1", len(real))
	}
	if d.Nodes[real[0].Source].Year != "2021" || d.Nodes[real[0].Target].Year != "2024" {
		t.Errorf("link years = %s->%s, want 2021->2024",
			d.Nodes[real[0].Source].Year, d.Nodes[real[0].Target].Year)
	}
}

func TestBuildSingleYear(t *testing.T) {
	s := roster.NewSeasons()
	s.Year("2023").Add("Alpha", []string{"A"})
	s.Year("2023").Add("Beta", []string{"B"})

	d := mustBuild(t, s)
	if d.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", d.NodeCount())
	}
	if d.LinkCount() != 0 {
		t.Errorf("LinkCount() = %d, want 0 for single year", d.LinkCount())
	}
	if d.MaxTeams != 2 {
		t.Errorf("MaxTeams = %d, want 2", d.MaxTeams)
	}

	// Links must stay an array in the wire format even when empty.
	if d.Links == nil {
		t.Error("Links is nil, want empty slice")
	}
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), `"links":[]`) {
		t.Errorf("serialized form lacks empty links array:\n%s", raw)
	}
}

func TestBuildEmptyDataset(t *testing.T) {
	tests := []struct {
		name    string
		seasons *roster.Seasons
	}{
		{name: "nil", seasons: nil},
		{name: "no years", seasons: roster.NewSeasons()},
		{
			name: "years without teams",
			seasons: func() *roster.Seasons {
				s := roster.NewSeasons()
				s.Year("2023")
				s.Year("2022")
				return s
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.seasons)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeEmptyDataset) {
				t.Errorf("error code = %v, want EMPTY_DATASET", errors.GetCode(err))
			}
		})
	}
}

func TestBuildDeterministic(t *testing.T) {
	a, err := json.Marshal(mustBuild(t, twoYearDataset()))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(mustBuild(t, twoYearDataset()))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("repeated builds produced different serializations")
	}
}

func TestDiagramJSONFieldNames(t *testing.T) {
	d := mustBuild(t, twoYearDataset())
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}

	for _, field := range []string{`"name"`, `"real_name"`, `"team"`, `"year"`, `"node"`, `"color"`, `"source"`, `"target"`, `"value"`, `"max_teams"`} {
		if !strings.Contains(string(raw), field) {
			t.Errorf("serialized diagram missing field %s", field)
		}
	}
}

func TestBuildCanonicalScenario(t *testing.T) {
	s := roster.NewSeasons()
	s.Year("2023").Add("A", []string{"X", "Y"})
	s.Year("2023").Add("B", []string{"Z"})
	s.Year("2022").Add("A", []string{"X"})

	d := mustBuild(t, s)

	if d.MaxTeams != 2 {
		t.Fatalf("MaxTeams = %d, want 2", d.MaxTeams)
	}
	if d.NodeCount() != 4 {
		t.Fatalf("NodeCount() = %d, want 4", d.NodeCount())
	}
	if d.Nodes[3].DisplayKey != "2022_placeholder_1" {
		t.Errorf("Nodes[3] = %q, want the 2022 placeholder", d.Nodes[3].DisplayKey)
	}

	if d.LinkCount() != 3 {
		t.Fatalf("LinkCount() = %d, want 3 (1 real + 2 structural)", d.LinkCount())
	}

	real := d.RealLinks()
	if len(real) != 1 {
		t.Fatalf("real links = %d, want 1", len(real))
	}
	l := real[0]
	if d.Nodes[l.Source].DisplayKey != "2022_A" || d.Nodes[l.Target].DisplayKey != "2023_A" {
		t.Errorf("real link = %s->%s, want 2022_A->2023_A",
			d.Nodes[l.Source].DisplayKey, d.Nodes[l.Target].DisplayKey)
	}
	if l.Value != 1 || l.Roster != "X" {
		t.Errorf("real link = {%v %q}, want {1 X}", l.Value, l.Roster)
	}
}

func TestBuildYearWithNoTeamsGetsFullPadding(t *testing.T) {
	s := roster.NewSeasons()
	s.Year("2023").Add("Alpha", []string{"A"})
	s.Year("2023").Add("Beta", []string{"B"})
	s.Year("2022") // present but empty

	d := mustBuild(t, s)

	got := 0
	for _, n := range d.Nodes {
		if n.Year == "2022" {
			got++
			if !n.IsPlaceholder() {
				t.Errorf("node %q in the empty year should be a placeholder", n.DisplayKey)
			}
		}
	}
	if got != d.MaxTeams {
		t.Errorf("empty year has %d nodes, want %d", got, d.MaxTeams)
	}
}
