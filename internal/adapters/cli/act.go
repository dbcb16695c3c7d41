package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	daemongrpc "github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/grpc"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
)

// NewActCommand creates the act command
func NewActCommand() *cobra.Command {
	var payload string

	cmd := &cobra.Command{
		Use:   "act <ACTION>",
		Short: "Send a player action to the daemon",
		Long: fmt.Sprintf(`Send one action to the running simulation.

Known actions: %s

Examples:
  wasteland act explore
  wasteland act gather --payload '{"resource":"wood"}'
  wasteland act build_machine --payload '{"machine_type":"extractor"}'`, actionList()),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := parseAction(args[0], payload)
			if err != nil {
				return err
			}

			return withDaemon(func(ctx context.Context, client *daemongrpc.DaemonClient) error {
				st, err := client.Dispatch(ctx, action)
				if err != nil {
					return err
				}
				f := NewStateFormatter(!noColor, time.Now())
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s applied\n", action.Type())
				fmt.Fprint(cmd.OutOrStdout(), f.FormatLog(st, 3))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&payload, "payload", "p", "", "JSON payload of the action")

	return cmd
}

// parseAction builds a wire envelope from the command line and decodes it
func parseAction(name, payload string) (engine.Action, error) {
	envelope := map[string]any{"type": strings.ToUpper(name)}
	if payload != "" {
		envelope["payload"] = json.RawMessage(payload)
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}
	return engine.DecodeAction(raw)
}

func actionList() string {
	names := make([]string, 0)
	for _, t := range engine.WireActionTypes() {
		if !engine.IsSystemAction(t) {
			names = append(names, strings.ToLower(string(t)))
		}
	}
	return strings.Join(names, ", ")
}
