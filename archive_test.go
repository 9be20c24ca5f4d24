package jmhbench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenArchive(t *testing.T) {
	_, err := OpenArchive("not a dsn")
	assert.Error(t, err)

	// Opening does not dial, so an unreachable address is fine here.
	a, err := OpenArchive("bench:secret@tcp(127.0.0.1:1)/bench")
	require.NoError(t, err)
	defer a.Close()

	assert.NoError(t, a.Store(context.Background(), "empty.csv", nil))
}

func newMockArchive(t *testing.T) (*Archive, sqlmock.Sqlmock, time.Time) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	at := time.Date(2021, 5, 6, 12, 30, 0, 0, time.UTC)
	a := NewArchive(db)
	a.now = func() time.Time { return at }
	return a, mock, at
}

var archiveRows = []BenchmarkRow{
	{Name: "org.bverify.throughput.SingleThreadedProofGeneration.bench", Mode: "avgt", Threads: 1, Samples: 10, Score: 12.5, ScoreError: 0.3, Unit: "ms/op"},
	{Name: "org.bverify.throughput.ConcurrentProofGeneration.bench", Mode: "avgt", Threads: 4, Samples: 10, Score: 8.1, ScoreError: 0.2, Unit: "ms/op"},
}

func TestArchiveInit(t *testing.T) {
	a, mock, _ := newMockArchive(t)
	mock.ExpectExec(createResultTable).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, a.Init(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveStore(t *testing.T) {
	a, mock, at := newMockArchive(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(insertResult)
	for _, r := range archiveRows {
		prep.ExpectExec().
			WithArgs("run1.csv", r.Name, r.Mode, int64(r.Threads), int64(r.Samples), r.Score, r.ScoreError, r.Unit, at).
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, a.Store(context.Background(), "run1.csv", archiveRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestArchiveStoreRollsBack(t *testing.T) {
	a, mock, at := newMockArchive(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(insertResult)
	r := archiveRows[0]
	prep.ExpectExec().
		WithArgs("run1.csv", r.Name, r.Mode, int64(r.Threads), int64(r.Samples), r.Score, r.ScoreError, r.Unit, at).
		WillReturnError(errors.New("table is full"))
	mock.ExpectRollback()

	err := a.Store(context.Background(), "run1.csv", archiveRows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), r.Name)
	// no Commit expectation: an unexpected Commit would fail here
	assert.NoError(t, mock.ExpectationsWereMet())
}
