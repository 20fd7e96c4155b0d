package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pomwalk/pkg/buildinfo"
	"github.com/matzehuels/pomwalk/pkg/errors"
)

// Exit codes returned by [CLI.Run].
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130 // shell convention for SIGINT
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var wf walkFlags

	root := &cobra.Command{
		Use:   "pomwalk <pom.xml>",
		Short: "Download the transitive closure of a Maven POM",
		Long: `pomwalk reads a pom.xml, resolves its parent, managed versions and
dependencies, and downloads every reachable jar and pom into the local
repository (~/.m2/repository by default), recursing into each fetched pom.

Files already present locally are never downloaded again.`,
		Example: `  pomwalk pom.xml
  pomwalk --repository http://mirror.local:8080/maven2 pom.xml
  pomwalk --graph closure.svg --policy last-wins pom.xml`,
		Version:       buildinfo.Version,
		Args:          usageArgs(exactPOMArg),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.flags.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWalk(cmd, args[0], wf)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(errors.ErrCodeUsage, err, "invalid flags")
	})

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.config, "config", "", "config file (default $XDG_CONFIG_HOME/pomwalk/config.toml)")
	pf.StringVar(&c.flags.repository, "repository", "", "remote repository base URL")
	pf.StringVar(&c.flags.localRepository, "local-repository", "", "local repository root (default ~/.m2/repository)")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")

	wf.register(root)
	registerCompletions(root)

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Run executes the command line args and returns the process exit code.
// Errors are reported on the diagnostics stream.
func (c *CLI) Run(ctx context.Context, args []string) int {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	cmd, err := root.ExecuteContextC(ctx)
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, context.Canceled):
		c.Logger.Warn("interrupted")
		return ExitInterrupted
	case errors.Is(err, errors.ErrCodeUsage):
		fmt.Fprintf(c.stderr, "Error: %s\n\n%s", errors.UserMessage(err), cmd.UsageString())
		return ExitUsage
	default:
		c.Logger.Error(errors.UserMessage(err), "code", errors.GetCode(err))
		return ExitFailure
	}
}

// exactPOMArg requires the single descriptor path argument.
func exactPOMArg(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one argument, the path to pom.xml (got %d)", len(args))
	}
	return nil
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return errors.Wrap(errors.ErrCodeUsage, err, "usage")
		}
		return nil
	}
}
