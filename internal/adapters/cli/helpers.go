package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	daemongrpc "github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/grpc"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/infrastructure/config"
)

const daemonCallTimeout = 5 * time.Second

// resolvePlayer picks the player: --player, then the stored default, then the config file
func resolvePlayer(cfg *config.Config) string {
	fallback := cfg.Engine.PlayerID
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		if playerID != "" {
			return playerID
		}
		return fallback
	}
	return handler.ResolvePlayer(playerID, fallback)
}

// withDaemon connects to the daemon socket and runs fn with a bounded context
func withDaemon(fn func(ctx context.Context, client *daemongrpc.DaemonClient) error) error {
	client, err := daemongrpc.NewDaemonClient(socketPath)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), daemonCallTimeout)
	defer cancel()
	return fn(ctx, client)
}

// prettyPrint formats JSON for display
func prettyPrint(v any) string {
	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes)
}
