package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	socketPath string
	configPath string
	playerID   string
	noColor    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wasteland",
		Short: "Wasteland Automata CLI - play and inspect your survival colony",
		Long: `Wasteland Automata CLI talks to the simulation daemon over its Unix socket.
The simulate command runs a session offline on simulated time instead.

Examples:
  wasteland state
  wasteland act gather --payload '{"resource":"scrap"}'
  wasteland act start_batch --payload '{"family":"charcoal","amount":2}'
  wasteland simulate --script run.yaml
  wasteland config set-player ash`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default: search ., ./configs, ~/.wasteland)")
	rootCmd.PersistentFlags().StringVar(&playerID, "player", "",
		"Player id (default: the stored default player, then engine.player_id)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable ANSI colors")

	rootCmd.AddCommand(NewStateCommand())
	rootCmd.AddCommand(NewActCommand())
	rootCmd.AddCommand(NewHealthCommand())
	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewResetCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// getDefaultSocketPath returns the default socket path
func getDefaultSocketPath() string {
	if path := os.Getenv("WASTELAND_SOCKET"); path != "" {
		return path
	}
	return "/tmp/wasteland-daemon.sock"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
