package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cytla24/poemtok/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresFromPool(mock), mock
}

func TestPostgresCreateRun(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO runs").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "queued", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), testJob())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateRunStatus(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs("rendering", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.UpdateRunStatus(context.Background(), "run-1", model.RunStatusRendering))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateRunStatusNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET status").
		WithArgs("failed", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateRunStatus(context.Background(), "missing", model.RunStatusFailed)
	assert.ErrorContains(t, err, "run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteRun(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("UPDATE runs SET result").
		WithArgs(pgxmock.AnyArg(), "complete", pgxmock.AnyArg(), "run-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	result := &model.RunResult{PagesRequested: 2, PagesRendered: 2}
	require.NoError(t, s.CompleteRun(context.Background(), "run-1", model.RunStatusComplete, result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecordPages(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"page_results"},
		[]string{"id", "run_id", "page", "status", "output_path", "strategy", "duration_ms", "error", "created_at"}).
		WillReturnResult(2)

	pages := []model.PageResult{
		{Page: 1, Status: model.PageStatusRendered, OutputPath: "/out/page_1.mp4", Strategy: "filter-overlay"},
		{Page: 2, Status: model.PageStatusFailed, Error: "encode failed"},
	}
	require.NoError(t, s.RecordPages(context.Background(), "run-1", pages))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListPages(t *testing.T) {
	s, mock := newMockStore(t)

	out := "/out/page_1.mp4"
	strat := "filter-overlay"
	rows := pgxmock.NewRows([]string{"page", "status", "output_path", "strategy", "duration_ms", "error"}).
		AddRow(1, "rendered", &out, &strat, int64(900), (*string)(nil))
	mock.ExpectQuery("SELECT page, status").
		WithArgs("run-1").
		WillReturnRows(rows)

	pages, err := s.ListPages(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "/out/page_1.mp4", pages[0].OutputPath)
	assert.Equal(t, model.PageStatusRendered, pages[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMigrate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS runs").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
