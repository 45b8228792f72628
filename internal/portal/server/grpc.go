package server

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// PortalServiceName — имя сервиса в gRPC health-протоколе
const PortalServiceName = "citizen.queue.Portal"

// NewHealthServer поднимает gRPC-сервер со стандартным health-сервисом
// (для k8s grpc-проб и балансировщиков) и reflection.
func NewHealthServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	hs.SetServingStatus(PortalServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return srv, hs
}
