package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/credkeeper/internal/logging"
)

// ServiceName is the name clients may pass in HealthCheckRequest.Service.
// The empty name means the whole server and is answered the same way.
const ServiceName = "credkeeper"

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer answers Check by pinging the database.
type HealthServer struct {
	healthpb.UnimplementedHealthServer
	db     Pinger
	logger logging.Logger
}

func NewHealthServer(db Pinger, l logging.Logger) *HealthServer {
	return &HealthServer{db: db, logger: l.With("module", "health")}
}

func (h *HealthServer) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if svc := req.GetService(); svc != "" && svc != ServiceName {
		return nil, status.Errorf(codes.NotFound, "unknown service %q", svc)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn(ctx, "database ping failed", "error", err.Error())
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
	}

	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
