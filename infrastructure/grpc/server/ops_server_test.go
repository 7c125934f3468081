package server

import (
	"context"
	"dm-lab/errors"
	"fmt"
	"log/slog"
	"net"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func TestOpsServer_Health(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	server, healthServer := NewOpsServer(log)

	listener := bufconn.Listen(1024 * 1024)
	go func() { _ = server.Serve(listener) }()
	defer server.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	req.NoError(err)
	defer conn.Close()
	client := grpc_health_v1.NewHealthClient(conn)

	// Given the server was just built
	resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	req.NoError(err)
	req.Equal(grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)

	// When the worker flips it
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	resp, err = client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	req.NoError(err)
	req.Equal(grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)

	// And shutdown reports NOT_SERVING again
	healthServer.Shutdown()
	resp, err = client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	req.NoError(err)
	req.Equal(grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestLoggingInterceptor_Maps_Domain_Errors(t *testing.T) {
	req := require.New(t)
	interceptor := LoggingInterceptor(logs.GetLoggerFromLevel(slog.LevelDebug))
	info := &grpc.UnaryServerInfo{FullMethod: "/dm.Ops/Test"}

	_, err := interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, fmt.Errorf("lookup: %w", errors.ErrRoomNotFound)
	})
	req.Equal(codes.NotFound, status.Code(err))

	_, err = interceptor(context.Background(), nil, info, func(context.Context, any) (any, error) {
		return nil, status.Error(codes.Unavailable, "draining")
	})
	req.Equal(codes.Unavailable, status.Code(err))

	resp, err := interceptor(context.Background(), "in", info, func(_ context.Context, r any) (any, error) {
		return r, nil
	})
	req.NoError(err)
	req.Equal("in", resp)
}
