package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// GameServiceName is the fully-qualified service name, also used for health checks
const GameServiceName = "wasteland.daemon.v1.GameService"

const (
	dispatchMethod = "/" + GameServiceName + "/Dispatch"
	getStateMethod = "/" + GameServiceName + "/GetState"
)

// GameServiceServer is the daemon side of the game service.
// Actions and states travel as google.protobuf.Struct holding their JSON form.
type GameServiceServer interface {
	Dispatch(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetState(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterGameServiceServer attaches srv to a grpc server
func RegisterGameServiceServer(s grpc.ServiceRegistrar, srv GameServiceServer) {
	s.RegisterService(&gameServiceDesc, srv)
}

var gameServiceDesc = grpc.ServiceDesc{
	ServiceName: GameServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Dispatch", Handler: dispatchHandler},
		{MethodName: "GetState", Handler: getStateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wasteland/daemon/v1/game.proto",
}

func dispatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameServiceServer).Dispatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: dispatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GameServiceServer).Dispatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getStateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameServiceServer).GetState(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getStateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GameServiceServer).GetState(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// gameServiceClient is the raw stub over a client connection
type gameServiceClient struct {
	cc grpc.ClientConnInterface
}

func (c *gameServiceClient) Dispatch(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, dispatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameServiceClient) GetState(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getStateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
