package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lk16/patzer/internal/models"
)

// Store persists analyses.
type Store interface {
	Save(ctx context.Context, analysis *models.Analysis) error

	// Get returns ErrAnalysisNotFound when there is no analysis with this ID.
	Get(ctx context.Context, id uuid.UUID) (*models.Analysis, error)

	// List returns at most limit analyses, newest first.
	List(ctx context.Context, limit int) ([]models.Analysis, error)
}

type postgresStore struct {
	db *sqlx.DB
}

func (s *postgresStore) Save(ctx context.Context, analysis *models.Analysis) error {
	query := `
		INSERT INTO analysis (id, fen, moves, go_command, best_move, ponder, score, computation_time, created_at)
		VALUES (:id, :fen, :moves, :go_command, :best_move, :ponder, :score, :computation_time, :created_at)
	`

	if _, err := s.db.NamedExecContext(ctx, query, analysis); err != nil {
		return fmt.Errorf("error saving analysis: %w", err)
	}

	return nil
}

func (s *postgresStore) Get(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	query := `
		SELECT id, fen, moves, go_command, best_move, ponder, score, computation_time, created_at
		FROM analysis
		WHERE id = $1
	`

	var analysis models.Analysis
	err := s.db.GetContext(ctx, &analysis, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting analysis: %w", err)
	}

	return &analysis, nil
}

func (s *postgresStore) List(ctx context.Context, limit int) ([]models.Analysis, error) {
	query := `
		SELECT id, fen, moves, go_command, best_move, ponder, score, computation_time, created_at
		FROM analysis
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryxContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing analyses: %w", err)
	}
	defer rows.Close()

	analyses := make([]models.Analysis, 0)

	for rows.Next() {
		var analysis models.Analysis
		if err = rows.StructScan(&analysis); err != nil {
			return nil, fmt.Errorf("error scanning analysis: %w", err)
		}
		analyses = append(analyses, analysis)
	}

	return analyses, rows.Err()
}
