package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mkazantsev/rosterflow/pkg/config"
	"github.com/mkazantsev/rosterflow/pkg/pipeline"
	"github.com/mkazantsev/rosterflow/pkg/roster"
	"github.com/mkazantsev/rosterflow/pkg/sink"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	configPath string // rosterflow.toml location
	mapping    string // tournament-ID to year mapping file
	output     string // output file path (stdout if empty)
	noCache    bool   // disable diagram caching
	refresh    bool   // bypass cache, rebuild
}

// buildCommand creates the build command: load tournaments, build the
// diagram, write the document.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts

	cmd := &cobra.Command{
		Use:   "build [tournament-dir]",
		Short: "Build the sankey diagram document from tournament files",
		Long: `Build the sankey diagram document from a directory of tournament files.

Each tournament file is a JSON array of team entries; the mapping file
assigns tournament identifiers to years. The resulting document contains
one node per team per year (padded with placeholders to a uniform column
height) and weighted links between teams of adjacent years that share
players.

With --output the document is written to a file and a summary is printed;
without it the document goes to stdout.

Examples:
  rosterflow build                                  # paths from rosterflow.toml
  rosterflow build studchr_jsons/json --mapping studchr_jsons/studchr_ids.txt -o all_teams.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}

			inputDir := cfg.Input
			if len(args) == 1 {
				inputDir = args[0]
			}
			mapping := cfg.Mapping
			if opts.mapping != "" {
				mapping = opts.mapping
			}

			return c.runBuild(cmd, inputDir, mapping, cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", config.DefaultPath, "config file")
	cmd.Flags().StringVarP(&opts.mapping, "mapping", "m", "", "tournament-ID to year mapping file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache and rebuild")

	return cmd
}

// runBuild executes the pipeline and presents the result.
func (c *CLI) runBuild(cmd *cobra.Command, inputDir, mapping string, cfg config.Config, opts buildOpts) error {
	logger := loggerFromContext(cmd.Context())

	runner, err := c.newRunner(opts.noCache, cfg.Redis.Addr, cfg.Cache.Scope)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(cmd.Context(), pipeline.Options{
		InputDir:    inputDir,
		MappingFile: mapping,
		Output:      opts.output,
		Refresh:     opts.refresh,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	// Stdout mode: the document is the output, nothing else.
	if opts.output == "" {
		return sink.WriteJSON(result.Diagram, os.Stdout)
	}

	prog.done("Built diagram")
	printYearSummary(result)
	printStats(result.Stats.NodeCount, result.Stats.LinkCount, result.CacheInfo.BuildHit)
	printFile(opts.output)
	return nil
}

// printYearSummary prints one bar row per year, most recent first.
func printYearSummary(result *pipeline.Result) {
	for _, year := range roster.SortYearsDesc(result.Seasons.Years()) {
		printYearRow(year, result.Seasons.Group(year).Len(), result.Diagram.MaxTeams)
	}
}
