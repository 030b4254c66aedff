package store

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arokua/job-hunter/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return &PostgresStore{pool: mock}, mock
}

func TestPostgres_Migrate(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS submissions`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateSubmission(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO submissions`).
		WithArgs("sub-1", "dev@example.com", "queued", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	rec, err := st.CreateSubmission(context.Background(), "sub-1", "dev@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", rec.ID)
	assert.Equal(t, model.StatusQueued, rec.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SetOutcome(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE submissions SET`).
		WithArgs("completed", 9, "", pgxmock.AnyArg(), "sub-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, st.SetOutcome(context.Background(), model.Completed("sub-1", 9)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetSubmission(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM submissions WHERE id`).
		WithArgs("sub-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "status", "job_count", "error", "created_at", "updated_at"}).
			AddRow("sub-1", "dev@example.com", model.StatusCompleted, 4, "", now, now))

	rec, err := st.GetSubmission(context.Background(), "sub-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, rec.Status)
	assert.Equal(t, 4, rec.JobCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetSubmissionMissing(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM submissions WHERE id`).
		WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "status", "job_count", "error", "created_at", "updated_at"}))

	_, err := st.GetSubmission(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListSubmissions(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM submissions ORDER BY created_at DESC LIMIT`).
		WithArgs(100, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "status", "job_count", "error", "created_at", "updated_at"}).
			AddRow("b", "b@example.com", model.StatusQueued, 0, "", now, now).
			AddRow("a", "a@example.com", model.StatusCompleted, 3, "", now, now))

	recs, err := st.ListSubmissions(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListSubmissionsByStatus(t *testing.T) {
	t.Parallel()
	st, mock := newMockStore(t)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT .+ FROM submissions WHERE status`).
		WithArgs("failed", 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "status", "job_count", "error", "created_at", "updated_at"}).
			AddRow("x", "x@example.com", model.StatusFailed, 0, "scrape: timeout", now, now))

	recs, err := st.ListSubmissions(context.Background(), Filter{Status: model.StatusFailed, Limit: 10})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "scrape: timeout", recs[0].Error)
	require.NoError(t, mock.ExpectationsWereMet())
}
