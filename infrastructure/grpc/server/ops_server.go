package server

import (
	"context"
	"dm-lab/errors"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// NewOpsServer builds the operational gRPC endpoint: health checking and reflection.
// The health server starts NOT_SERVING; the worker running it flips the status.
func NewOpsServer(log *slog.Logger) (*grpc.Server, *health.Server) {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(LoggingInterceptor(log)),
	)
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	reflection.Register(server)
	return server, healthServer
}

// LoggingInterceptor logs every unary call and hides internal error details.
func LoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			log.Warn("gRPC call failed", "method", info.FullMethod, "latency", time.Since(start), "error", err)
			if _, isStatus := status.FromError(err); !isStatus {
				return nil, errors.MapToGRPCError(err)
			}
			return nil, err
		}
		log.Debug("gRPC call served", "method", info.FullMethod, "latency", time.Since(start))
		return resp, nil
	}
}
