// Package grpc exposes the journal services over gRPC: account and token
// methods, the dashboard, entries and doodle URLs, plus the standard health
// service.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/journal"
	"github.com/dmitrijs2005/dailyjournal/internal/logging"
	pb "github.com/dmitrijs2005/dailyjournal/internal/proto"
	"github.com/dmitrijs2005/dailyjournal/internal/server/config"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
	"github.com/dmitrijs2005/dailyjournal/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type userSvc interface {
	Register(ctx context.Context, email string, password []byte) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type entrySvc interface {
	Get(ctx context.Context, userID string, date time.Time) (*models.Entry, error)
	Save(ctx context.Context, userID string, date time.Time, content journal.Content) (*models.Entry, error)
	RequestDoodleUpload(ctx context.Context, userID string, date time.Time) (string, string, error)
	DoodleURL(ctx context.Context, userID string, date time.Time) (string, error)
}

type dashboardSvc interface {
	Stats(ctx context.Context, userID string, today time.Time) models.DashboardStats
}

type rpcObserver interface {
	ObserveRPC(method, code string, elapsed time.Duration)
	AuthRejected(reason string)
}

type GRPCServer struct {
	pb.UnimplementedJournalServiceServer
	address   string
	users     userSvc
	entries   entrySvc
	dashboard dashboardSvc
	logger    logging.Logger
	metrics   rpcObserver
	limiter   *peerLimiter
	jwtSecret []byte
	location  *time.Location
	now       func() time.Time
}

func NewGRPCServer(cfg *config.Config, l logging.Logger, us userSvc, es entrySvc, ds dashboardSvc, m rpcObserver) (*GRPCServer, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &GRPCServer{
		address:   cfg.EndpointAddrGRPC,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		entries:   es,
		dashboard: ds,
		metrics:   m,
		limiter:   newPeerLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst),
		jwtSecret: []byte(cfg.SecretKey),
		location:  loc,
		now:       time.Now,
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	// creates gRPC-server
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.metricsInterceptor,
		s.rateLimitInterceptor,
		s.accessTokenInterceptor,
	))

	// registers services
	pb.RegisterJournalServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
