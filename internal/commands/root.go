package commands

import (
	"fmt"
	"os"

	"github.com/arthur404dev/wuquant/internal/commands/quantize"
	"github.com/arthur404dev/wuquant/internal/commands/screenshot"
	"github.com/arthur404dev/wuquant/internal/config"
	"github.com/arthur404dev/wuquant/internal/utils/logger"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	debug   bool

	// Version information (set via ldflags)
	Version = "0.1.0"
	Commit  = "none"
	Date    = "unknown"
	BuiltBy = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wuquant",
	Short: "Wu color quantization engine and screenshot tool",
	Long: `wuquant reduces images to a small, representative color palette using
Xiaolin Wu's greedy variance-minimization quantizer. It can quantize
images directly or capture and quantize a screenshot in one step.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/wuquant/config.json)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Set version directly
	rootCmd.Version = fmt.Sprintf("%s\nBuilt:   %s\nCommit:  %s\nBuilt by: %s",
		Version, Date, Commit, BuiltBy)

	// Add custom version command that works with 'wuquant version'
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wuquant version %s\n", Version)
			fmt.Printf("Built:   %s\n", Date)
			fmt.Printf("Commit:  %s\n", Commit)
			fmt.Printf("Built by: %s\n", BuiltBy)
		},
	}
	rootCmd.AddCommand(versionCmd)

	// Add completion command for generating shell completions
	completionCmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for wuquant.

To load completions:

Bash:
  $ source <(wuquant completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ wuquant completion bash > /etc/bash_completion.d/wuquant
  # macOS:
  $ wuquant completion bash > $(brew --prefix)/etc/bash_completion.d/wuquant

Zsh:
  $ source <(wuquant completion zsh)
  # To load completions for each session, execute once:
  $ wuquant completion zsh > "${fpath[1]}/_wuquant"

Fish:
  $ wuquant completion fish | source
  # To load completions for each session, execute once:
  $ wuquant completion fish > ~/.config/fish/completions/wuquant.fish

PowerShell:
  PS> wuquant completion powershell | Out-String | Invoke-Expression
  # To load completions for every new session, run:
  PS> wuquant completion powershell > wuquant.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	rootCmd.AddCommand(completionCmd)

	// Add commands
	addCommands()
}

// addCommands adds all subcommands to the root command
func addCommands() {
	rootCmd.AddCommand(quantize.NewCommand())
	rootCmd.AddCommand(screenshot.NewCommand())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if debug {
		logger.SetDebug(true)
	} else if verbose {
		logger.SetVerbose(true)
	}

	if cfgFile != "" {
		if err := config.LoadFrom(cfgFile); err != nil {
			fmt.Fprintln(os.Stderr, "failed to load config:", err)
			os.Exit(1)
		}
		return
	}

	if err := config.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", config.Path())
	}
}
