package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkazantsev/rosterflow/pkg/config"
	"github.com/mkazantsev/rosterflow/pkg/pipeline"
	storemongo "github.com/mkazantsev/rosterflow/pkg/store/mongo"
)

// publishCommand creates the publish command: build and push the document to
// MongoDB for web consumers.
func (c *CLI) publishCommand() *cobra.Command {
	var (
		configPath string
		uri        string
		database   string
		collection string
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Build the diagram and publish it to MongoDB",
		Long: `Build the diagram document and insert it into a MongoDB collection.

Each publish inserts one document tagged with the run ID and creation
time; consumers read the newest. Connection settings come from the
[mongo] section of rosterflow.toml unless overridden by flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if uri == "" {
				uri = cfg.Mongo.URI
			}
			if database == "" {
				database = cfg.Mongo.Database
			}
			if collection == "" {
				collection = cfg.Mongo.Collection
			}
			if uri == "" {
				return fmt.Errorf("mongo URI is required (--uri or [mongo] in config)")
			}

			runner, err := c.newRunner(noCache, cfg.Redis.Addr, cfg.Cache.Scope)
			if err != nil {
				return err
			}
			defer runner.Close()

			result, err := runner.Execute(cmd.Context(), pipeline.Options{
				InputDir:    cfg.Input,
				MappingFile: cfg.Mapping,
				Refresh:     refresh,
				Logger:      logger,
			})
			if err != nil {
				return err
			}

			spin := newSpinnerWithContext(cmd.Context(), "Publishing diagram...")
			spin.Start()

			store, err := storemongo.Connect(cmd.Context(), uri, database, collection)
			if err != nil {
				spin.StopWithError("Connection failed")
				return err
			}
			defer store.Close(cmd.Context())

			if err := store.Save(cmd.Context(), result.RunID, result.Diagram); err != nil {
				spin.StopWithError("Publish failed")
				return err
			}

			spin.StopWithSuccess(fmt.Sprintf("Published diagram %s", result.RunID))
			printDetail("%s/%s.%s", uri, database, collection)
			printStats(result.Stats.NodeCount, result.Stats.LinkCount, result.CacheInfo.BuildHit)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "config file")
	cmd.Flags().StringVar(&uri, "uri", "", "MongoDB connection URI")
	cmd.Flags().StringVar(&database, "db", "", "database name")
	cmd.Flags().StringVar(&collection, "collection", "", "collection name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cache and rebuild")

	return cmd
}
