package entries

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/dailyjournal/internal/common"
	"github.com/dmitrijs2005/dailyjournal/internal/journal"
	"github.com/dmitrijs2005/dailyjournal/internal/server/models"
	"github.com/google/go-cmp/cmp"
)

var (
	day     = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	stamp   = time.Date(2024, 3, 15, 21, 4, 5, 0, time.UTC)
	columns = []string{
		"id", "user_id", "entry_date",
		"affirmation", "priority_work", "priority_family", "priority_self_care",
		"gratitude", "highlights", "thoughts", "notes", "reflection",
		"rating_work", "rating_family", "rating_self_care",
		"doodle_key", "created_at", "updated_at",
	}
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func entryRows(e *models.Entry) *sqlmock.Rows {
	c := e.Content
	return sqlmock.NewRows(columns).AddRow(
		e.ID, e.UserID, e.Date,
		c.Affirmation, c.PriorityWork, c.PriorityFamily, c.PrioritySelfCare,
		c.Gratitude, c.Highlights, c.Thoughts, c.Notes, c.Reflection,
		int64(c.RatingWork), int64(c.RatingFamily), int64(c.RatingSelfCare),
		e.DoodleKey, e.CreatedAt, e.UpdatedAt,
	)
}

func sampleEntry() *models.Entry {
	return &models.Entry{
		ID:     "e-1",
		UserID: "u-1",
		Date:   day,
		Content: journal.Content{
			Affirmation:  "I am calm",
			PriorityWork: "ship it",
			Gratitude:    "coffee",
			Thoughts:     "long day\nbut good",
			RatingWork:   4,
			RatingFamily: 5,
		},
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
}

func TestCount_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM entries WHERE user_id = \$1`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))

	n, err := repo.Count(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if n != 12 {
		t.Fatalf("want 12, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCount_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT`).WithArgs("u-1").WillReturnError(errors.New("db is down"))

	_, err := repo.Count(context.Background(), "u-1")
	if err == nil || !regexp.MustCompile(`db error: .*db is down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByUserAndDate_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	want := sampleEntry()
	mock.ExpectQuery(`SELECT .* FROM entries\s+WHERE user_id = \$1 AND entry_date = \$2`).
		WithArgs("u-1", day).
		WillReturnRows(entryRows(want))

	got, err := repo.GetByUserAndDate(context.Background(), "u-1", day)
	if err != nil {
		t.Fatalf("GetByUserAndDate error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestGetByUserAndDate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM entries`).
		WithArgs("u-1", day).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserAndDate(context.Background(), "u-1", day)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByUserAndDate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM entries`).
		WithArgs("u-1", day).
		WillReturnError(errors.New("timeout"))

	_, err := repo.GetByUserAndDate(context.Background(), "u-1", day)
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want db error, got %v", err)
	}
}

func TestListRecentDates_OrderedAndLimited(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"entry_date"}).
		AddRow(day).
		AddRow(day.AddDate(0, 0, -1)).
		AddRow(day.AddDate(0, 0, -3))
	mock.ExpectQuery(`SELECT entry_date FROM entries\s+WHERE user_id = \$1\s+ORDER BY entry_date DESC\s+LIMIT \$2`).
		WithArgs("u-1", 30).
		WillReturnRows(rows)

	got, err := repo.ListRecentDates(context.Background(), "u-1", 30)
	if err != nil {
		t.Fatalf("ListRecentDates error: %v", err)
	}
	want := []time.Time{day, day.AddDate(0, 0, -1), day.AddDate(0, 0, -3)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dates mismatch (-want +got):\n%s", diff)
	}
}

func TestListRecentDates_RowError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"entry_date"}).
		AddRow(day).
		AddRow(day.AddDate(0, 0, -1)).
		RowError(1, errors.New("broken row"))
	mock.ExpectQuery(`SELECT entry_date FROM entries`).WithArgs("u-1", 30).WillReturnRows(rows)

	if _, err := repo.ListRecentDates(context.Background(), "u-1", 30); err == nil {
		t.Fatal("expected row error")
	}
}

func TestListRecentDates_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT entry_date FROM entries`).WithArgs("u-1", 30).WillReturnError(errors.New("db is down"))

	_, err := repo.ListRecentDates(context.Background(), "u-1", 30)
	if err == nil || !regexp.MustCompile(`db error: .*db is down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpsert_ReturnsStoredEntry(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	in := sampleEntry()
	stored := sampleEntry()
	stored.DoodleKey = "users/u-1/2024/03/15/abc"

	c := in.Content
	mock.ExpectQuery(`INSERT INTO entries .* ON CONFLICT \(user_id, entry_date\)\s+DO UPDATE SET .* RETURNING`).
		WithArgs(
			"u-1", day,
			c.Affirmation, c.PriorityWork, c.PriorityFamily, c.PrioritySelfCare,
			c.Gratitude, c.Highlights, c.Thoughts, c.Notes, c.Reflection,
			4, 5, 0,
		).
		WillReturnRows(entryRows(stored))

	got, err := repo.Upsert(context.Background(), in)
	if err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if diff := cmp.Diff(stored, got); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO entries`).WillReturnError(errors.New("check violation"))

	_, err := repo.Upsert(context.Background(), sampleEntry())
	if err == nil || !regexp.MustCompile(`db error: .*check violation`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestSetDoodleKey(t *testing.T) {
	tests := []struct {
		name    string
		result  sql.Result
		execErr error
		check   func(error) bool
	}{
		{name: "updated", result: sqlmock.NewResult(0, 1), check: func(err error) bool { return err == nil }},
		{name: "no entry", result: sqlmock.NewResult(0, 0), check: func(err error) bool { return errors.Is(err, common.ErrorNotFound) }},
		{name: "exec error", execErr: errors.New("down"), check: func(err error) bool {
			return err != nil && regexp.MustCompile(`db error: down`).MatchString(err.Error())
		}},
		{name: "rows affected error", result: sqlmock.NewErrorResult(errors.New("rows-err")), check: func(err error) bool {
			return err != nil && regexp.MustCompile(`rows affected error: .*rows-err`).MatchString(err.Error())
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			exp := mock.ExpectExec(`UPDATE entries SET doodle_key = \$3`).WithArgs("u-1", day, "k")
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := repo.SetDoodleKey(context.Background(), "u-1", day, "k")
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
