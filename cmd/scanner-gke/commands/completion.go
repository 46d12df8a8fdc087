package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// Completion returns the completion command for shell autocompletion.
func Completion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for scanner-gke.

To load completions:

Bash:
  $ source <(scanner-gke completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ scanner-gke completion bash > /etc/bash_completion.d/scanner-gke
  # macOS:
  $ scanner-gke completion bash > $(brew --prefix)/etc/bash_completion.d/scanner-gke

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  # To load completions for each session, execute once:
  $ scanner-gke completion zsh > "${fpath[1]}/_scanner-gke"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ scanner-gke completion fish | source
  # To load completions for each session, execute once:
  $ scanner-gke completion fish > ~/.config/fish/completions/scanner-gke.fish

PowerShell:
  PS> scanner-gke completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> scanner-gke completion powershell > scanner-gke.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
