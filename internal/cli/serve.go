package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pomwalk/pkg/mirror"
	"github.com/matzehuels/pomwalk/pkg/observability"
)

// serveCommand creates the "serve" command, which exposes the local
// repository read-only over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local repository over HTTP",
		Long: `Serve the local repository read-only in remote repository layout under
/maven2/, so other machines can use it as their repository:

  pomwalk --repository http://<host>:8080/maven2 pom.xml

The server also answers /healthz and, unless --no-metrics is given,
exposes Prometheus metrics on /metrics.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}

			opts := []mirror.Option{mirror.WithLogger(logger)}
			if !noMetrics {
				metrics := observability.NewMetrics()
				metrics.Register()
				defer observability.Reset()
				opts = append(opts, mirror.WithMetrics(metrics.Handler()))
			}

			printInfo(c.stdout, "Serving %s", StyleValue.Render(cfg.LocalRepository))
			printKeyValue(c.stdout, "repository", "http://"+displayAddr(addr)+mirror.Prefix)

			err = mirror.Serve(ctx, addr, mirror.NewHandler(cfg.LocalRepository, opts...))
			if err != nil {
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "do not expose /metrics")
	return cmd
}

// displayAddr turns a listen address such as ":8080" into something a
// client can use.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
