package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	daemongrpc "github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/grpc"
)

// NewStateCommand creates the state command
func NewStateCommand() *cobra.Command {
	var (
		asJSON  bool
		logSize int
	)

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the current game state",
		Long: `Fetch the live state from the daemon.

Examples:
  wasteland state
  wasteland state --log 20
  wasteland state --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				st, err := client.State(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					fmt.Fprintln(cmd.OutOrStdout(), prettyPrint(st))
					return nil
				}
				f := NewStateFormatter(!noColor, time.Now())
				fmt.Fprint(cmd.OutOrStdout(), f.Format(st))
				if logSize > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "\nLog:")
					fmt.Fprint(cmd.OutOrStdout(), f.FormatLog(st, logSize))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw state document")
	cmd.Flags().IntVar(&logSize, "log", 5, "Number of log entries to show")

	return cmd
}
