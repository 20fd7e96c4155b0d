package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pomwalk/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local repository and the negative lookup cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. Only remembered
// not-found answers are removed; downloaded artifacts are left alone.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget remembered not-found answers",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.BackendNone {
				printInfo(c.stdout, "Negative cache is disabled")
				return nil
			}

			negative, err := newNegativeCache(ctx, cfg)
			if err != nil {
				return err
			}
			defer negative.Close()

			if err := negative.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess(c.stdout, "Cleared negative cache")
			printDetail(c.stdout, "Backend: %s", cacheLocation(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the local repository and negative cache locations",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			printKeyValue(c.stdout, "repository", cfg.LocalRepository)
			printKeyValue(c.stdout, "negative", cacheLocation(cfg))
			return nil
		},
	}
}

func cacheLocation(cfg config.Config) string {
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d", cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
	case config.BackendNone:
		return "disabled"
	}
	return cfg.Cache.Dir
}
