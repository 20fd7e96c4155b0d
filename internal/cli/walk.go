package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pomwalk/pkg/closure"
	"github.com/matzehuels/pomwalk/pkg/config"
	"github.com/matzehuels/pomwalk/pkg/errors"
	"github.com/matzehuels/pomwalk/pkg/maven"
	"github.com/matzehuels/pomwalk/pkg/observability"
	"github.com/matzehuels/pomwalk/pkg/render/nodelink"
)

// walkFlags are the flags of the root (walk) command.
type walkFlags struct {
	policy      string
	noCache     bool
	graph       string
	graphPURL   bool
	metricsFile string
}

func (f *walkFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.policy, "policy", "", "managed version precedence: first-wins or last-wins")
	flags.BoolVar(&f.noCache, "no-cache", false, "do not remember or consult remote not-found answers")
	flags.StringVar(&f.graph, "graph", "", "write the closure graph to a .dot or .svg file")
	flags.BoolVar(&f.graphPURL, "graph-purl", false, "label graph nodes with package URLs")
	flags.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the walk")
}

// runWalk walks the closure of pomPath into the local repository.
func (c *CLI) runWalk(cmd *cobra.Command, pomPath string, flags walkFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	if flags.policy != "" {
		cfg.ManagedPolicy = flags.policy
	}
	policy, err := closure.ParsePolicy(cfg.ManagedPolicy)
	if err != nil {
		return errors.Wrap(errors.ErrCodeUsage, err, "--policy")
	}
	if flags.noCache {
		cfg.Cache.Backend = config.BackendNone
	}

	var metrics *observability.Metrics
	if flags.metricsFile != "" {
		metrics = observability.NewMetrics()
		metrics.Register()
		defer observability.Reset()
	}

	client := newClient(cfg)
	defer client.Close()

	negative, err := newNegativeCache(ctx, cfg)
	if err != nil {
		logger.Warn("negative cache disabled", "err", err)
	}
	defer negative.Close()

	logger.Debug("configuration",
		"repository", cfg.Repository,
		"local", cfg.LocalRepository,
		"policy", policy,
		"cache", cfg.Cache.Backend)

	repo := maven.NewRepository(
		maven.Layout{Root: cfg.LocalRepository, BaseURL: cfg.Repository},
		client,
		maven.WithNegativeCache(negative, cfg.Cache.TTL.Duration),
		maven.WithProgress(func(path string) {
			c.Progress.Print("Downloading " + path)
		}),
	)

	sw := startStopwatch(logger)
	report, err := closure.New(repo, closure.Options{Policy: policy, Logger: logger}).Walk(ctx, pomPath)
	if err != nil {
		return err
	}
	sw.done("Walk completed", "descriptors", len(report.Descriptors), "downloads", report.Downloads(), "skips", len(report.Skips))

	for host, state := range client.Breakers().State() {
		logger.Debug("circuit breaker", "host", host, "state", state)
	}

	printSummary(c.stdout, report)

	if flags.graph != "" {
		if err := nodelink.WriteFile(ctx, flags.graph, report, nodelink.Options{PURL: flags.graphPURL}); err != nil {
			logger.Error("cannot write graph", "err", err)
		} else {
			printFile(c.stdout, flags.graph)
		}
	}
	if metrics != nil {
		if err := metrics.WriteTextfile(flags.metricsFile); err != nil {
			logger.Error("cannot write metrics", "err", err)
		} else {
			printFile(c.stdout, flags.metricsFile)
		}
	}
	return nil
}
