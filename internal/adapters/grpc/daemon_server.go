package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/engine"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/application/session"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/game"
)

// StateSource exposes the committed state
type StateSource interface {
	State() *game.State
}

// DaemonServer serves the game and health services on a unix socket
type DaemonServer struct {
	listener net.Listener
	server   *grpc.Server
	health   *health.Server
	logger   *zap.Logger
}

// NewDaemonServer listens on socketPath, replacing a leftover socket file
func NewDaemonServer(socketPath string, sink session.ActionSink, source StateSource, logger *zap.Logger) (*DaemonServer, error) {
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}
	// owner only
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}
	return NewDaemonServerOnListener(listener, sink, source, logger), nil
}

// NewDaemonServerOnListener serves on an existing listener
func NewDaemonServerOnListener(listener net.Listener, sink session.ActionSink, source StateSource, logger *zap.Logger) *DaemonServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("DaemonServer")

	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	RegisterGameServiceServer(srv, &gameService{sink: sink, source: source, logger: logger})

	return &DaemonServer{listener: listener, server: srv, health: hs, logger: logger}
}

// Addr returns the listening address
func (s *DaemonServer) Addr() net.Addr {
	return s.listener.Addr()
}

// Serve blocks until ctx is cancelled or the server fails
func (s *DaemonServer) Serve(ctx context.Context) error {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(GameServiceName, healthpb.HealthCheckResponse_SERVING)
	s.logger.Info("daemon listening", zap.String("addr", s.listener.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("stopping gRPC server")
		s.health.Shutdown()
		s.server.GracefulStop()
		return nil
	}
}

type gameService struct {
	sink   session.ActionSink
	source StateSource
	logger *zap.Logger
}

func (g *gameService) Dispatch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	action, err := FromProtobufAction(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if engine.IsSystemAction(action.Type()) {
		return nil, status.Errorf(codes.PermissionDenied, "%s cannot be sent by clients", action.Type())
	}

	res := g.sink.Dispatch(ctx, action)
	if res.Err != nil {
		if errors.Is(res.Err, session.ErrNotStarted) {
			return nil, status.Error(codes.Unavailable, res.Err.Error())
		}
		g.logger.Debug("action rejected", zap.String("action", string(action.Type())), zap.Error(res.Err))
		return nil, status.Error(codes.FailedPrecondition, res.Err.Error())
	}
	return ToProtobufState(res.State)
}

func (g *gameService) GetState(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	st := g.source.State()
	if st == nil {
		return nil, status.Error(codes.Unavailable, session.ErrNotStarted.Error())
	}
	return ToProtobufState(st)
}
