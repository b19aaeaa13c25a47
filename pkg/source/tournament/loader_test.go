package tournament

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mkazantsev/rosterflow/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const teamsJSON = `[
  {
    "team": {"name": "Alpha"},
    "teamMembers": [
      {"player": {"surname": "Иванов", "name": "Пётр"}},
      {"player": {"surname": "Smith", "name": "John", "patronymic": "Q"}}
    ]
  },
  {
    "team": {"name": "Beta"},
    "teamMembers": [
      {"player": {"surname": "Lone", "name": "Wolf"}}
    ]
  }
]`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cup_t1.json", teamsJSON)
	writeFile(t, dir, "cup_t2.json", `[{"team": {"name": "Gamma"}, "teamMembers": []}]`)
	writeFile(t, dir, "notes.txt", "ignored")

	mapping := filepath.Join(dir, "ids.txt")
	writeFile(t, dir, "ids.txt", "t1:2023\nt2:2022\n")

	seasons, err := New().Load(dir, mapping)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if seasons.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 years", seasons.Len())
	}

	g := seasons.Group("2023")
	if g == nil || g.Len() != 2 {
		t.Fatalf("2023 group missing or wrong size: %+v", g)
	}
	teams := g.Teams()
	if teams[0].Name != "Alpha" || teams[1].Name != "Beta" {
		t.Errorf("team order = %s, %s; want Alpha, Beta", teams[0].Name, teams[1].Name)
	}
	want := []string{"Иванов Пётр", "Smith John Q"}
	if !reflect.DeepEqual(teams[0].Players, want) {
		t.Errorf("Alpha players = %v, want %v", teams[0].Players, want)
	}

	if g := seasons.Group("2022"); g == nil || g.Len() != 1 {
		t.Errorf("2022 group missing or wrong size: %+v", g)
	}
}

func TestLoadUnmappedTournamentKeepsRawID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "event_xyz.json", `[{"team": {"name": "Solo"}, "teamMembers": []}]`)
	writeFile(t, dir, "ids.txt", "other:2020\n")

	seasons, err := New().Load(dir, filepath.Join(dir, "ids.txt"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if seasons.Group("xyz") == nil {
		t.Errorf("expected raw id year group, got years %v", seasons.Years())
	}
}

func TestLoadSameYearLaterFileWins(t *testing.T) {
	dir := t.TempDir()
	// Both map to 2023; filename tie-break processes a_t1 before b_t2, so
	// b_t2's roster replaces a_t1's for the shared team.
	writeFile(t, dir, "a_t1.json", `[{"team": {"name": "Alpha"}, "teamMembers": [{"player": {"surname": "Old", "name": "Roster"}}]}]`)
	writeFile(t, dir, "b_t2.json", `[{"team": {"name": "Alpha"}, "teamMembers": [{"player": {"surname": "New", "name": "Roster"}}]}]`)
	writeFile(t, dir, "ids.txt", "t1:2023\nt2:2023\n")

	seasons, err := New().Load(dir, filepath.Join(dir, "ids.txt"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	teams := seasons.Group("2023").Teams()
	if len(teams) != 1 {
		t.Fatalf("team count = %d, want 1", len(teams))
	}
	if !reflect.DeepEqual(teams[0].Players, []string{"New Roster"}) {
		t.Errorf("players = %v, want [New Roster]", teams[0].Players)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ids.txt", "t1:2023\n")

	t.Run("missing directory", func(t *testing.T) {
		_, err := New().Load(filepath.Join(dir, "nope"), filepath.Join(dir, "ids.txt"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("error = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("missing mapping", func(t *testing.T) {
		_, err := New().Load(dir, filepath.Join(dir, "nope.txt"))
		if !errors.Is(err, errors.ErrCodeFileNotFound) {
			t.Errorf("error = %v, want FILE_NOT_FOUND", err)
		}
	})

	t.Run("malformed record", func(t *testing.T) {
		bad := t.TempDir()
		writeFile(t, bad, "cup_t1.json", `{"not": "an array"}`)
		writeFile(t, bad, "ids.txt", "t1:2023\n")
		_, err := New().Load(bad, filepath.Join(bad, "ids.txt"))
		if !errors.Is(err, errors.ErrCodeInvalidRecord) {
			t.Errorf("error = %v, want INVALID_RECORD", err)
		}
	})
}

func TestReadYearMapping(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ids.txt", "t1:2023\n\nbadline\nt2:2022\nt3:20:23\n")

	years, err := ReadYearMapping(filepath.Join(dir, "ids.txt"))
	if err != nil {
		t.Fatalf("ReadYearMapping() error: %v", err)
	}

	want := map[string]string{"t1": "2023", "t2": "2022"}
	if !reflect.DeepEqual(years, want) {
		t.Errorf("mapping = %v, want %v", years, want)
	}
}

func TestTournamentID(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"cup_final_12345.json", "12345"},
		{"event_xyz.json", "xyz"},
		{"plain.json", "plain"},
	}
	for _, tt := range tests {
		if got := tournamentID(tt.filename); got != tt.want {
			t.Errorf("tournamentID(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
