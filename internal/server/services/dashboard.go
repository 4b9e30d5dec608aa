package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/logging"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
	"github.com/dmitrijs2005/dailyjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/dailyjournal/internal/streak"
)

// Dashboard query names used in logs and metrics.
const (
	QueryCount       = "count"
	QueryTodayEntry  = "today_entry"
	QueryRecentDates = "recent_dates"
)

// DegradationRecorder counts dashboard queries that fell back to a default.
type DegradationRecorder interface {
	DashboardDegraded(query string)
}

// DashboardService derives DashboardStats from the entry store.
type DashboardService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	queryTimeout time.Duration
	logger       logging.Logger
	recorder     DegradationRecorder
}

func NewDashboardService(db *sql.DB, m repomanager.RepositoryManager, queryTimeout time.Duration,
	logger logging.Logger, recorder DegradationRecorder) *DashboardService {
	return &DashboardService{
		db:           db,
		repomanager:  m,
		queryTimeout: queryTimeout,
		logger:       logger,
		recorder:     recorder,
	}
}

// Stats runs the count, today and recent-dates queries concurrently, each
// under its own timeout. A failed query degrades only its own stat
// (count 0, today absent, streak 0), so Stats never fails.
func (s *DashboardService) Stats(ctx context.Context, userID string, today time.Time) models.DashboardStats {
	today = common.DateOf(today)
	repo := s.repomanager.Entries(s.db)

	var (
		wg    sync.WaitGroup
		total int64
		entry *models.Entry
		dates []time.Time
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		qctx, cancel := s.queryContext(ctx)
		defer cancel()

		n, err := repo.Count(qctx, userID)
		if err != nil {
			s.degraded(ctx, QueryCount, userID, err)
			return
		}
		total = n
	}()

	go func() {
		defer wg.Done()
		qctx, cancel := s.queryContext(ctx)
		defer cancel()

		e, err := repo.GetByUserAndDate(qctx, userID, today)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) {
				s.degraded(ctx, QueryTodayEntry, userID, err)
			}
			return
		}
		entry = e
	}()

	go func() {
		defer wg.Done()
		qctx, cancel := s.queryContext(ctx)
		defer cancel()

		d, err := repo.ListRecentDates(qctx, userID, streak.Window)
		if err != nil {
			s.degraded(ctx, QueryRecentDates, userID, err)
			return
		}
		dates = d
	}()

	wg.Wait()

	return models.DashboardStats{
		TotalEntries:   total,
		Streak:         streak.Calculate(today, dates),
		TodayCompleted: entry != nil,
		TodayEntry:     entry,
	}
}

func (s *DashboardService) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

func (s *DashboardService) degraded(ctx context.Context, query, userID string, err error) {
	if s.logger != nil {
		s.logger.Warn(ctx, "dashboard query degraded", "query", query, "user_id", userID, "error", err)
	}
	if s.recorder != nil {
		s.recorder.DashboardDegraded(query)
	}
}
