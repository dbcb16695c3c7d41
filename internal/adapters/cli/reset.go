package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/config"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/pidfile"
)

// NewResetCommand creates the reset command
func NewResetCommand() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved game of a player",
		Long: `Delete a player's snapshot so the next session starts a new game.

The daemon must be stopped: reset takes the daemon PID file for its duration.

Example:
  wasteland reset --player ash --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return errors.New("reset deletes the saved game; pass --yes to confirm")
			}
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			pf := pidfile.New(cfg.Daemon.PIDFile)
			if err := pf.Acquire(); err != nil {
				if errors.Is(err, pidfile.ErrAlreadyRunning) {
					return fmt.Errorf("%w: stop it before resetting", err)
				}
				return err
			}
			defer pf.Release()

			ctx := context.Background()
			st, err := openSnapshotStore(ctx, cfg, zap.NewNop())
			if err != nil {
				return err
			}
			defer st.Close()

			player := resolvePlayer(cfg)
			if err := st.Delete(ctx, player); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved game of %s deleted\n", player)
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm deletion")

	return cmd
}
