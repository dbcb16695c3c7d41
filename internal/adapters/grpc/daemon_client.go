package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
)

// DaemonClient talks to a running daemon over its unix socket
type DaemonClient struct {
	conn   *grpc.ClientConn
	game   *gameServiceClient
	health healthpb.HealthClient
}

// NewDaemonClient connects lazily; the first call reports an unreachable daemon
func NewDaemonClient(socketPath string) (*DaemonClient, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return &DaemonClient{
		conn:   conn,
		game:   &gameServiceClient{cc: conn},
		health: healthpb.NewHealthClient(conn),
	}, nil
}

// Close closes the gRPC connection
func (c *DaemonClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Dispatch sends an action and returns the state after it applied
func (c *DaemonClient) Dispatch(ctx context.Context, a engine.Action) (*game.State, error) {
	in, err := ToProtobufAction(a)
	if err != nil {
		return nil, err
	}
	out, err := c.game.Dispatch(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", a.Type(), err)
	}
	return FromProtobufState(out)
}

// State fetches the daemon's current state
func (c *DaemonClient) State(ctx context.Context) (*game.State, error) {
	out, err := c.game.GetState(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, fmt.Errorf("failed to get state: %w", err)
	}
	return FromProtobufState(out)
}

// Health reports the serving status of the game service
func (c *DaemonClient) Health(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: GameServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check failed: %w", err)
	}
	return resp.GetStatus(), nil
}
