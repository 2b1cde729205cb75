package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"videomasa/internal/app/model"
)

//go:embed schema.sql
var createTableSQL string

type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens (creating if needed) the history database at dbFilePath.
func NewSQLiteDB(dbFilePath string) (*SQLiteDB, error) {
	if err := os.MkdirAll(filepath.Dir(dbFilePath), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&mode=rwc", dbFilePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serializes writers from concurrent job goroutines.
	db.SetMaxOpenConns(1)

	sdb := &SQLiteDB{db: db}
	if err := sdb.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return sdb, nil
}

func (sdb *SQLiteDB) migrate(ctx context.Context) error {
	if _, err := sdb.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (sdb *SQLiteDB) Close() error {
	return sdb.db.Close()
}

func (sdb *SQLiteDB) Record(ctx context.Context, t model.Transcription) error {
	insertSQL := `INSERT INTO transcriptions (job_id, source, title, model, transcript, timestamped, created_at) VALUES (?, ?, ?, ?, ?, ?, ?);`
	_, err := sdb.db.ExecContext(ctx, insertSQL, t.JobID, t.Source, t.Title, t.Model, t.Transcript, t.Timestamped, t.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert transcription: %w", err)
	}
	return nil
}

func (sdb *SQLiteDB) Recent(ctx context.Context, limit int) ([]model.Transcription, error) {
	if limit <= 0 {
		limit = -1
	}
	sqlStr := `
		SELECT id, job_id, source, title, model, transcript, timestamped, created_at
		FROM transcriptions
		ORDER BY created_at DESC, id DESC
		LIMIT ?;`
	rows, err := sdb.db.QueryContext(ctx, sqlStr, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	transcriptions := make([]model.Transcription, 0)
	for rows.Next() {
		var t model.Transcription
		err = rows.Scan(&t.ID, &t.JobID, &t.Source, &t.Title, &t.Model, &t.Transcript, &t.Timestamped, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		transcriptions = append(transcriptions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db iteration failed: %w", err)
	}
	return transcriptions, nil
}
