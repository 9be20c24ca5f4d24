package jmhbench

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

const createResultTable = `CREATE TABLE IF NOT EXISTS jmh_result (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	source VARCHAR(255) NOT NULL,
	benchmark VARCHAR(512) NOT NULL,
	mode VARCHAR(32) NOT NULL,
	threads INT NOT NULL,
	samples INT NOT NULL,
	score DOUBLE NOT NULL,
	score_error DOUBLE NOT NULL,
	unit VARCHAR(32) NOT NULL,
	created_at DATETIME NOT NULL,
	KEY idx_benchmark (benchmark(191), created_at)
)`

const insertResult = `INSERT INTO jmh_result
	(source, benchmark, mode, threads, samples, score, score_error, unit, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Archive keeps the history of benchmark results in MySQL.
type Archive struct {
	db  *sql.DB
	now func() time.Time
}

// OpenArchive prepares a connection pool for dsn. No connection is made until the
// archive is used.
func OpenArchive(dsn string) (*Archive, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("archive dsn: %w", err)
	}
	cfg.ParseTime = true
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return NewArchive(sql.OpenDB(connector)), nil
}

func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db, now: time.Now}
}

// Init creates the result table if it does not exist yet.
func (a *Archive) Init(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, createResultTable)
	return err
}

// Store inserts rows in one transaction, all stamped with the same time.
func (a *Archive) Store(ctx context.Context, source string, rows []BenchmarkRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertResult)
	if err != nil {
		return err
	}
	defer stmt.Close()

	at := a.now().UTC()
	for _, r := range rows {
		_, err = stmt.ExecContext(ctx, source, r.Name, r.Mode, r.Threads, r.Samples, r.Score, r.ScoreError, r.Unit, at)
		if err != nil {
			return fmt.Errorf("store %s: %w", r.Name, err)
		}
	}
	return tx.Commit()
}

func (a *Archive) Close() error {
	return a.db.Close()
}
