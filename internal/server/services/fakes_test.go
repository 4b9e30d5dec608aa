package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/dailyjournal/internal/dbx"
	"github.com/dmitrijs2005/dailyjournal/internal/server/config"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
	"github.com/dmitrijs2005/dailyjournal/internal/server/repositories/entries"
	"github.com/dmitrijs2005/dailyjournal/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/dailyjournal/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		QueryTimeout:                 time.Second,
		S3Region:                     "us-east-1",
		S3RootUser:                   "minioadmin",
		S3RootPassword:               "minioadmin",
		S3BaseEndpoint:               "http://127.0.0.1:9000",
		S3Bucket:                     "doodles",
	}
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error
	created   *models.User

	getOut *models.User
	getErr error
	gotBy  string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.created = u
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.gotBy = email
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

type fakeRefreshRepo struct {
	findOut *models.RefreshToken
	findErr error

	delErr  error
	deleted []string

	createErr error
	created   []string

	purgeOut int64
	purgeErr error
	purgedAt time.Time
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, token)
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.purgedAt = now
	return f.purgeOut, f.purgeErr
}

// fakeEntriesRepo is safe for the concurrent dashboard queries. Hooks,
// when set, replace the canned results.
type fakeEntriesRepo struct {
	mu sync.Mutex

	countOut int64
	countErr error
	countFn  func(ctx context.Context) (int64, error)

	getOut *models.Entry
	getErr error

	datesOut []time.Time
	datesErr error
	limit    int

	upsertErr error
	upserted  *models.Entry

	setKeyErr error
	setKey    string
}

func (f *fakeEntriesRepo) Count(ctx context.Context, userID string) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx)
	}
	return f.countOut, f.countErr
}

func (f *fakeEntriesRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*models.Entry, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeEntriesRepo) ListRecentDates(ctx context.Context, userID string, limit int) ([]time.Time, error) {
	f.mu.Lock()
	f.limit = limit
	f.mu.Unlock()
	return f.datesOut, f.datesErr
}

func (f *fakeEntriesRepo) Upsert(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	f.upserted = e
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	out := *e
	out.ID = "e1"
	return &out, nil
}

func (f *fakeEntriesRepo) SetDoodleKey(ctx context.Context, userID string, date time.Time, key string) error {
	f.setKey = key
	return f.setKeyErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
	e *fakeEntriesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository { return m.r }
func (m *fakeRepoManager) Entries(db dbx.DBTX) entries.Repository             { return m.e }
