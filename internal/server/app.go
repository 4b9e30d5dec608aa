// Package server wires and runs the journal server: database and
// migrations, services, the gRPC endpoint, the ops HTTP endpoint and the
// maintenance scheduler, with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/dailyjournal/internal/logging"
	"github.com/dmitrijs2005/dailyjournal/internal/server/config"
	"github.com/dmitrijs2005/dailyjournal/internal/server/httpserver"
	"github.com/dmitrijs2005/dailyjournal/internal/server/maintenance"
	"github.com/dmitrijs2005/dailyjournal/internal/server/metrics"
	"github.com/dmitrijs2005/dailyjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyjournal/internal/server/services"

	gs "github.com/dmitrijs2005/dailyjournal/internal/server/grpc"
)

const limiterPruneSchedule = "@every 10m"

type App struct {
	config           *config.Config
	logger           logging.Logger
	db               *sql.DB
	metrics          *metrics.Metrics
	userService      *services.UserService
	entryService     *services.EntryService
	dashboardService *services.DashboardService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	m := metrics.New()

	return &App{
		config:           c,
		logger:           logger,
		db:               db,
		metrics:          m,
		userService:      services.NewUserService(db, rm, c),
		entryService:     services.NewEntryService(db, rm, c),
		dashboardService: services.NewDashboardService(db, rm, c.QueryTimeout, logger.With("module", "dashboard"), m),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc, s *gs.GRPCServer) {
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpserver.New(app.config.EndpointAddrHTTP, app.db, app.metrics.Handler(), app.metrics, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startScheduler(ctx context.Context, cancelFunc context.CancelFunc, limiters maintenance.LimiterPruner) {

	loc, err := app.config.Location()
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	s := maintenance.NewScheduler(loc, app.userService, app.metrics, app.logger)
	if _, err := s.SchedulePurge(ctx, app.config.TokenPurgeSchedule); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}
	if _, err := s.ScheduleLimiterPrune(ctx, limiterPruneSchedule, limiters, gs.LimiterIdleTTL); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	s.Run(ctx)
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	grpcServer, err := gs.NewGRPCServer(app.config, app.logger, app.userService, app.entryService, app.dashboardService, app.metrics)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		app.closeDB(ctx)
		return
	}

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc, grpcServer)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startScheduler(ctx, cancelFunc, grpcServer)
	}()

	wg.Wait()

	app.closeDB(ctx)
	app.logger.Info(ctx, "App stopped")
}

func (app *App) closeDB(ctx context.Context) {
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
