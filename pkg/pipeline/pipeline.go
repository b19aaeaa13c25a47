// Package pipeline provides the core load → build → write pipeline for
// rosterflow.
//
// This package implements the complete batch run used by the CLI and the
// server: load tournament files into the domain model, build the sankey
// diagram, and write the document. Centralizing it here keeps behavior
// consistent across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read tournament files and the year mapping into roster.Seasons
//  2. Build: Construct the node/link diagram (the only stage with real logic)
//  3. Write: Serialize the document to the configured output path
//
// Built diagrams are cached by a fingerprint of the loaded dataset, so
// repeated runs over unchanged data skip the build.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    InputDir:    "tournaments",
//	    MappingFile: "tournaments/ids.txt",
//	    Output:      "all_teams.json",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Diagram.MaxTeams)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mkazantsev/rosterflow/pkg/roster"
	"github.com/mkazantsev/rosterflow/pkg/sankey"
)

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	InputDir    string `json:"input_dir"`
	MappingFile string `json:"mapping_file"`

	// Write options. An empty Output skips the write stage; the caller
	// decides what to do with Result.Diagram.
	Output string `json:"output,omitempty"`

	// Refresh bypasses the diagram cache.
	Refresh bool `json:"refresh,omitempty"`

	// RunID tags this run in logs and published documents.
	// Defaults to a random UUID.
	RunID string `json:"run_id,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	if o.MappingFile == "" {
		return fmt.Errorf("mapping file is required")
	}
	if o.RunID == "" {
		o.RunID = uuid.NewString()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Seasons is the loaded dataset.
	Seasons *roster.Seasons

	// Diagram is the built document.
	Diagram *sankey.Diagram

	// DatasetHash is the content hash of the loaded dataset.
	DatasetHash string

	// RunID is the identifier this run was tagged with.
	RunID string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the build came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Years     int
	Teams     int
	NodeCount int
	LinkCount int

	LoadTime  time.Duration
	BuildTime time.Duration
	WriteTime time.Duration
}

// CacheInfo tracks cache hits for the pipeline.
type CacheInfo struct {
	BuildHit bool // Whether the diagram came from cache
}
