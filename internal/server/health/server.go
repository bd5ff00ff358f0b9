// Package health は gRPC のヘルスチェックサービスを提供する
package health

import (
	"net"

	"github.com/nzws/flux-downloader/internal/shared/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName はダウンローダー自体のサービス名
const ServiceName = "fluxdl.Downloader"

// Server は grpc.health.v1.Health を公開する gRPC サーバー
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
}

// New は新しい Server を作成する
// 作成直後は NOT_SERVING
func New() *Server {
	grpcServer := grpc.NewServer()
	hs := health.NewServer()

	healthpb.RegisterHealthServer(grpcServer, hs)
	reflection.Register(grpcServer)

	s := &Server{grpcServer: grpcServer, health: hs}
	s.SetServing(false)
	return s
}

// SetServing はサービスの状態を切り替える
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	logger.Debug("Health status changed", zap.String("status", status.String()))
}

// Serve は lis で待ち受ける（Shutdown まで戻らない）
func (s *Server) Serve(lis net.Listener) error {
	logger.Info("gRPC health server started", zap.String("addr", lis.Addr().String()))
	return s.grpcServer.Serve(lis)
}

// Shutdown は全サービスを NOT_SERVING にしてから停止する
func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
	logger.Info("gRPC health server stopped")
}
