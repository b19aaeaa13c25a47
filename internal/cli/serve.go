package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkazantsev/rosterflow/pkg/config"
	"github.com/mkazantsev/rosterflow/pkg/pipeline"
	"github.com/mkazantsev/rosterflow/pkg/sankey"
	"github.com/mkazantsev/rosterflow/pkg/server"
	"github.com/mkazantsev/rosterflow/pkg/sink"
	storemongo "github.com/mkazantsev/rosterflow/pkg/store/mongo"
)

// serveCommand creates the serve command: expose a diagram document over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		document   string
		published  bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram document over HTTP",
		Long: `Serve the diagram document over HTTP for the d3 renderer.

By default the document is built from the configured tournament directory
on startup. Use --document to serve a file produced by an earlier build,
or --published to serve the newest document from MongoDB.

Endpoints:
  GET /api/diagram   the document
  GET /healthz       liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			var diagram *sankey.Diagram
			switch {
			case document != "":
				d, err := sink.ImportJSON(document)
				if err != nil {
					return err
				}
				diagram = d
				logger.Info("loaded document", "path", document)

			case published:
				if cfg.Mongo.URI == "" {
					return fmt.Errorf("--published requires [mongo] uri in config")
				}
				store, err := storemongo.Connect(cmd.Context(), cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
				if err != nil {
					return err
				}
				doc, err := store.Latest(cmd.Context())
				closeErr := store.Close(cmd.Context())
				if err != nil {
					return err
				}
				if closeErr != nil {
					return closeErr
				}
				diagram = doc.Diagram
				logger.Info("loaded published document", "run_id", doc.RunID, "created_at", doc.CreatedAt)

			default:
				runner, err := c.newRunner(noCache, cfg.Redis.Addr, cfg.Cache.Scope)
				if err != nil {
					return err
				}
				defer runner.Close()

				result, err := runner.Execute(cmd.Context(), pipeline.Options{
					InputDir:    cfg.Input,
					MappingFile: cfg.Mapping,
					Logger:      logger,
				})
				if err != nil {
					return err
				}
				diagram = result.Diagram
			}

			return server.New(diagram, server.WithLogger(logger)).ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath, "config file")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVarP(&document, "document", "d", "", "serve an existing document instead of building")
	cmd.Flags().BoolVar(&published, "published", false, "serve the newest document published to MongoDB")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
