package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	daemongrpc "github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/grpc"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long:  `Verify that the daemon is running and serving the game.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDaemon(func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				status, err := client.Health(ctx)
				if err != nil {
					return err
				}
				if status != healthpb.HealthCheckResponse_SERVING {
					return fmt.Errorf("daemon is %s", status)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Daemon is healthy")
				fmt.Fprintf(cmd.OutOrStdout(), "  Socket: %s\n", socketPath)
				return nil
			})
		},
	}

	return cmd
}
