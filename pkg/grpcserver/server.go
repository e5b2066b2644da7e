// Package grpcserver exposes a gRPC health endpoint alongside the HTTP
// API so load balancers and orchestrators can probe the process. It only
// boots when GRPC_PORT is configured.
//
//	srv, lis, err := grpcserver.Start(config.GRPCPort())
//	// ...run until signal...
//	grpcserver.Stop(srv)
package grpcserver

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dnguyen-dev/bistro/pkg/logger"
	"github.com/dnguyen-dev/bistro/pkg/metrics"
)

var (
	rpcHandled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bistro",
		Subsystem: "grpc",
		Name:      "handled_total",
		Help:      "Total gRPC calls completed, by method and code.",
	}, []string{"grpc_method", "grpc_code"})

	rpcDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bistro",
		Subsystem: "grpc",
		Name:      "handling_seconds",
		Help:      "gRPC response latency in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"grpc_method"})
)

func init() {
	metrics.MustRegister(rpcHandled, rpcDuration)
}

// recoveryInterceptor converts handler panics into INTERNAL errors.
func recoveryInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

// observeInterceptor logs each unary RPC and records its metrics.
func observeInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	dur := time.Since(start)

	code := codes.OK
	if err != nil {
		code = status.Code(err)
	}

	rpcHandled.WithLabelValues(info.FullMethod, code.String()).Inc()
	rpcDuration.WithLabelValues(info.FullMethod).Observe(dur.Seconds())

	logger.Info("grpc: request",
		"method", info.FullMethod,
		"duration_ms", dur.Milliseconds(),
		"code", code.String(),
	)
	return resp, err
}

// healthServer implements grpc.health.v1.Health.
type healthServer struct {
	grpc_health_v1.UnimplementedHealthServer
}

func (h *healthServer) Check(
	_ context.Context,
	_ *grpc_health_v1.HealthCheckRequest,
) (*grpc_health_v1.HealthCheckResponse, error) {
	return &grpc_health_v1.HealthCheckResponse{
		Status: grpc_health_v1.HealthCheckResponse_SERVING,
	}, nil
}

func (h *healthServer) Watch(
	_ *grpc_health_v1.HealthCheckRequest,
	stream grpc_health_v1.Health_WatchServer,
) error {
	return stream.Send(&grpc_health_v1.HealthCheckResponse{
		Status: grpc_health_v1.HealthCheckResponse_SERVING,
	})
}

// Start creates and starts a gRPC server on the given port. Returns the
// server and listener so the caller can stop them gracefully.
func Start(port string) (*grpc.Server, net.Listener, error) {
	addr := ":" + port

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("grpcserver: listen on %s: %w", addr, err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recoveryInterceptor, observeInterceptor),
		grpc.MaxRecvMsgSize(4*1024*1024),
		grpc.MaxSendMsgSize(4*1024*1024),
	)

	grpc_health_v1.RegisterHealthServer(srv, &healthServer{})

	// Reflection lets grpcurl probe the server without proto files.
	reflection.Register(srv)

	logger.Info("grpc: server starting", "addr", addr)

	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc: serve error", "error", err)
		}
	}()

	return srv, lis, nil
}

// Stop gracefully shuts the server down, draining in-flight RPCs.
func Stop(srv *grpc.Server) {
	if srv == nil {
		return
	}
	logger.Info("grpc: server shutting down")
	srv.GracefulStop()
}
