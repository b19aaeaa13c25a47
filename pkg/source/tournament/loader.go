// Package tournament loads per-tournament roster files into the domain model.
//
// A dataset is a directory of JSON files, one per tournament, named
// "<anything>_<tournamentID>.json", plus a mapping file assigning each
// tournament identifier to a calendar year, one "id:year" pair per line.
// Identifiers missing from the mapping keep the raw identifier as their year
// label; the builder treats such labels as opaque strings.
//
// All record-shape assumptions live here. The rest of the pipeline only sees
// roster.Seasons.
package tournament

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mkazantsev/rosterflow/pkg/errors"
	"github.com/mkazantsev/rosterflow/pkg/roster"
)

// teamEntry mirrors one element of a tournament file's top-level array.
// Only the fields the pipeline needs are declared; everything else in the
// records is ignored.
type teamEntry struct {
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
	TeamMembers []struct {
		Player roster.Player `json:"player"`
	} `json:"teamMembers"`
}

// Loader reads tournament datasets from disk.
type Loader struct {
	logger *log.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger attaches a logger for load diagnostics (unknown tournament IDs,
// skipped mapping lines). Without it diagnostics are discarded.
func WithLogger(l *log.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{logger: log.NewWithOptions(io.Discard, log.Options{})}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every *.json file under dir, resolves each tournament's year via
// the mapping file, and groups team rosters by year.
//
// Files are processed most recent year first so that, when two tournaments
// map to the same year, the later tournament's roster wins for teams present
// in both. Within a file, team order is preserved - it becomes node order in
// the diagram.
func (l *Loader) Load(dir, mappingFile string) (*roster.Seasons, error) {
	years, err := ReadYearMapping(mappingFile)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "tournament directory %s", dir)
		}
		return nil, err
	}

	type file struct {
		name string
		year string
	}
	var files []file
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		id := tournamentID(e.Name())
		year, ok := years[id]
		if !ok {
			year = id
			l.logger.Warn("tournament missing from year mapping, using raw id", "id", id, "file", e.Name())
		}
		files = append(files, file{name: e.Name(), year: year})
	}

	// Most recent year first; unparseable labels sort last. Filename breaks
	// ties so the load order is deterministic.
	sort.Slice(files, func(i, j int) bool {
		yi, yj := yearValue(files[i].year), yearValue(files[j].year)
		if yi != yj {
			return yi > yj
		}
		return files[i].name < files[j].name
	})

	seasons := roster.NewSeasons()
	for _, f := range files {
		if err := l.loadFile(filepath.Join(dir, f.name), f.year, seasons); err != nil {
			return nil, err
		}
	}

	l.logger.Debug("loaded dataset", "dir", dir, "files", len(files), "years", seasons.Len())
	return seasons, nil
}

// loadFile decodes one tournament file into the given year's group.
func (l *Loader) loadFile(path, year string, seasons *roster.Seasons) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}

	var teams []teamEntry
	if err := json.Unmarshal(data, &teams); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRecord, err, "decode %s", path)
	}

	group := seasons.Year(year)
	for _, entry := range teams {
		players := make([]string, 0, len(entry.TeamMembers))
		for _, m := range entry.TeamMembers {
			players = append(players, m.Player.FullName())
		}
		group.Add(entry.Team.Name, players)
	}
	return nil
}

// ReadYearMapping parses a mapping file of "tournamentID:year" lines.
// Lines that don't split into exactly two fields, and lines whose year label
// fails validation, are skipped. Blank lines are ignored.
func ReadYearMapping(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "year mapping %s", path)
		}
		return nil, err
	}
	defer f.Close()

	years := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			continue
		}
		id, year := parts[0], parts[1]
		if err := errors.ValidateYearLabel(year); err != nil {
			continue
		}
		years[id] = year
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMapping, err, "scan %s", path)
	}
	return years, nil
}

// tournamentID extracts the tournament identifier from a filename: the part
// after the last underscore, without the .json extension.
func tournamentID(filename string) string {
	base := strings.TrimSuffix(filename, ".json")
	if i := strings.LastIndex(base, "_"); i >= 0 {
		return base[i+1:]
	}
	return base
}

// yearValue parses a year label for file ordering, 0 when non-numeric.
func yearValue(label string) int {
	n, err := strconv.Atoi(label)
	if err != nil {
		return 0
	}
	return n
}
