package services

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Load the postgres driver
)

const analysisSchema = `
	CREATE TABLE IF NOT EXISTS analysis (
		id               UUID PRIMARY KEY,
		fen              TEXT NOT NULL,
		moves            TEXT[] NOT NULL,
		go_command       TEXT NOT NULL,
		best_move        TEXT NOT NULL,
		ponder           TEXT NOT NULL,
		score            TEXT NOT NULL,
		computation_time DOUBLE PRECISION NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS analysis_created_at_idx ON analysis (created_at DESC);
`

// InitPostgres initializes the database connection and creates the analysis table if needed.
func InitPostgres(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if _, err = db.Exec(analysisSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating analysis schema: %w", err)
	}

	return db, nil
}
