package cli

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/framegraph/internal/metrics"
	"github.com/matzehuels/framegraph/internal/server"
	"github.com/matzehuels/framegraph/pkg/pipeline"
)

// serveCommand creates the serve command running the HTTP preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cfg   server.Config
		flags cacheFlags
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP preview server",
		Long: `Serve accepts scenarios over HTTP, plays them and serves the frames and an
HTML player for each run. Runs are kept in memory.

  POST /api/v1/runs                  play a scenario (TOML, YAML or JSON body)
  GET  /api/v1/runs/{id}/frames/{n}  one frame as SVG
  GET  /runs/{id}                    HTML player
  GET  /metrics                      Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateLayout(cfg.Layout); err != nil {
				return err
			}
			runner, err := c.newRunner(flags)
			if err != nil {
				return err
			}
			defer runner.Close()

			metrics.Install(prometheus.DefaultRegisterer)
			cfg.Logger = c.Logger

			printSuccess("Serving on %s", StyleLink.Render("http://localhost"+cfg.Addr))
			printKeyValue("layout", cfg.Layout)
			printKeyValue("max runs", StyleNumber.Render(strconv.Itoa(cfg.MaxRuns)))
			printKeyValue("run ttl", cfg.TTL.String())
			return server.New(runner, cfg).ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&cfg.Layout, "layout", pipeline.DefaultLayout, "layout engine: graphviz (default), layered")
	cmd.Flags().IntVar(&cfg.MaxRuns, "max-runs", server.DefaultMaxRuns, "runs kept in memory")
	cmd.Flags().DurationVar(&cfg.TTL, "ttl", server.DefaultTTL, "how long runs are kept")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", server.DefaultTimeout, "play budget per run")
	flags.register(cmd)
	return cmd
}
