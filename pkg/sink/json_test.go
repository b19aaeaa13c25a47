package sink

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mkazantsev/rosterflow/pkg/roster"
	"github.com/mkazantsev/rosterflow/pkg/sankey"
)

func sampleDiagram() *sankey.Diagram {
	return &sankey.Diagram{
		Nodes: []sankey.Node{
			{DisplayKey: "2023_Alpha", Label: "Alpha", Roster: "A\nB", Year: "2023", Index: 0, Color: 0},
			{DisplayKey: "2023_placeholder_1", Label: "Команда 1", Year: "2023", Index: 1, Color: 1},
		},
		Links: []sankey.Link{
			{Source: 0, Target: 1, Value: 0.5},
		},
		MaxTeams: 2,
	}
}

func TestWriteJSONUnescaped(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sampleDiagram(), &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Команда 1") {
		t.Error("Cyrillic label was escaped in output")
	}
	if strings.Contains(out, `\u`) {
		t.Errorf("output contains unicode escapes:\n%s", out)
	}
	if !strings.Contains(out, `"max_teams": 2`) {
		t.Error("missing max_teams field")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.json")
	want := sampleDiagram()

	size, err := ExportJSON(want, path)
	if err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() != int64(size) {
		t.Errorf("reported size %d does not match file (%v, %v)", size, info, err)
	}

	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestWriteJSONSingleYearLinksArray(t *testing.T) {
	s := roster.NewSeasons()
	s.Year("2023").Add("Alpha", []string{"A"})

	d, err := sankey.Build(s)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, `"links": null`) {
		t.Errorf("links serialized as null:\n%s", out)
	}
	if !strings.Contains(out, `"links": []`) {
		t.Errorf("links should serialize as an empty array:\n%s", out)
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMarshalJSONMatchesWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sampleDiagram(), &buf); err != nil {
		t.Fatal(err)
	}
	raw, err := MarshalJSON(sampleDiagram())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, buf.Bytes()) {
		t.Error("MarshalJSON differs from WriteJSON")
	}
}
