package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pomwalk.

  $ source <(pomwalk completion bash)
  $ pomwalk completion zsh > "${fpath[1]}/_pomwalk"
  $ pomwalk completion fish > ~/.config/fish/completions/pomwalk.fish
  PS> pomwalk completion powershell | Out-String | Invoke-Expression

Completions include pom.xml files for the positional argument and the
accepted values of --policy and --graph.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  usageArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}

// registerCompletions wires dynamic completions for the root command.
func registerCompletions(root *cobra.Command) {
	root.ValidArgsFunction = func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return []string{"xml", "pom"}, cobra.ShellCompDirectiveFilterFileExt
	}
	_ = root.RegisterFlagCompletionFunc("policy", cobra.FixedCompletions(
		[]string{"first-wins", "last-wins"}, cobra.ShellCompDirectiveNoFileComp))
	_ = root.RegisterFlagCompletionFunc("graph", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"dot", "gv", "svg"}, cobra.ShellCompDirectiveFilterFileExt
	})
}
