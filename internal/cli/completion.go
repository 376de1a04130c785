package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// scenarioExts are the file extensions offered when completing a scenario
// argument.
var scenarioExts = []string{"toml", "yaml", "yml", "json"}

// completeScenario completes the single scenario argument of render and play.
func completeScenario(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return scenarioExts, cobra.ShellCompDirectiveFilterFileExt
}

// completionCommand prints a completion script for the requested shell.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for framegraph. Scenario arguments of render
and play complete to .toml, .yaml, .yml and .json files.

  bash:        source <(framegraph completion bash)
  zsh:         framegraph completion zsh > "${fpath[1]}/_framegraph"
  fish:        framegraph completion fish > ~/.config/fish/completions/framegraph.fish
  powershell:  framegraph completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, root := cmd.OutOrStdout(), cmd.Root()
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
