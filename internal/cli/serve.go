package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/smapshot/internal/server"
	"github.com/matzehuels/smapshot/pkg/pipeline"
)

// shutdownTimeout bounds how long running renders may finish on exit.
const shutdownTimeout = 30 * time.Second

// serveCommand creates the HTTP server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		width   int
		height  int
		style   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve map rendering over HTTP",
		Long: `Run an HTTP server that renders maps on request.

  POST /render?format=png&width=..&height=..   GeoJSON boundary body
  GET  /jobs/{id}                              status of a finished job
  GET  /healthz                                liveness probe

Set SMAPSHOT_REDIS_ADDR to share the cache between several servers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			s := server.New(addr, runner, pipeline.Options{
				Width:     width,
				Height:    height,
				StylePath: style,
			})

			errc := make(chan error, 1)
			go func() { errc <- s.Start() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return s.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&width, "width", pipeline.DefaultWidth, "default canvas width")
	cmd.Flags().IntVar(&height, "height", pipeline.DefaultHeight, "default canvas height")
	cmd.Flags().StringVar(&style, "style", "", "style TOML file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
