package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName は gRPC ヘルスチェックで公開するサービス名です。
const ServiceName = "feedback.v1.FeedbackExchange"

const defaultProbeInterval = 10 * time.Second

// HealthCheck は保存先の疎通を確認します。
type HealthCheck func(ctx context.Context) error

// GRPCServer は grpc.health.v1.Health を公開し、保存先の状態を定期的に反映します。
type GRPCServer struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	check      HealthCheck
	interval   time.Duration
}

// NewGRPC は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
func NewGRPC(listenAddr string, check HealthCheck, opts ...grpc.ServerOption) *GRPCServer {
	srv := grpc.NewServer(opts...)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	return &GRPCServer{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     hs,
		check:      check,
		interval:   defaultProbeInterval,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *GRPCServer) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}

	s.probe(ctx)
	go s.watch(ctx)

	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
	}()

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}
	return nil
}

func (s *GRPCServer) watch(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

func (s *GRPCServer) probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.check != nil {
		probeCtx, cancel := context.WithTimeout(ctx, s.interval/2)
		defer cancel()
		if err := s.check(probeCtx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
