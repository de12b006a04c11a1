package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vinotinto/certificados/internal/model"
)

// TrainerService manages the trainers that sign certificates.
type TrainerService struct {
	db DB
}

// NewTrainerService creates a new TrainerService.
func NewTrainerService(db DB) *TrainerService {
	return &TrainerService{db: db}
}

// TrainerParams holds the writable trainer fields.
type TrainerParams struct {
	Name         string
	License      string
	SignatureURL string
}

func (p TrainerParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("trainer name is required: %w", ErrValidation)
	}
	return nil
}

// Create inserts a new trainer.
func (s *TrainerService) Create(ctx context.Context, params TrainerParams) (*model.Trainer, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	t := &model.Trainer{
		Name:         strings.TrimSpace(params.Name),
		License:      params.License,
		SignatureURL: params.SignatureURL,
	}
	err := s.db.QueryRow(ctx,
		`INSERT INTO trainers (name, license, signature_url, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())
		 RETURNING id, created_at, updated_at`,
		t.Name, t.License, t.SignatureURL,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: insert trainer: %w", ErrPersist, err)
	}
	return t, nil
}

// Update rewrites a trainer's fields.
func (s *TrainerService) Update(ctx context.Context, id int64, params TrainerParams) (*model.Trainer, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	var t model.Trainer
	err := s.db.QueryRow(ctx,
		`UPDATE trainers SET name = $1, license = $2, signature_url = $3, updated_at = now()
		 WHERE id = $4
		 RETURNING id, name, license, signature_url, created_at, updated_at`,
		strings.TrimSpace(params.Name), params.License, params.SignatureURL, id,
	).Scan(&t.ID, &t.Name, &t.License, &t.SignatureURL, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("trainer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update trainer %d: %w", ErrPersist, id, err)
	}
	return &t, nil
}

// GetByID retrieves a trainer by its ID.
func (s *TrainerService) GetByID(ctx context.Context, id int64) (*model.Trainer, error) {
	var t model.Trainer
	err := s.db.QueryRow(ctx,
		`SELECT id, name, license, signature_url, created_at, updated_at FROM trainers WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.License, &t.SignatureURL, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("trainer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get trainer %d: %w", id, err)
	}
	return &t, nil
}

// List returns all trainers ordered by name.
func (s *TrainerService) List(ctx context.Context) ([]model.Trainer, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, license, signature_url, created_at, updated_at FROM trainers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	defer rows.Close()

	var trainers []model.Trainer
	for rows.Next() {
		var t model.Trainer
		if err := rows.Scan(&t.ID, &t.Name, &t.License, &t.SignatureURL, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan trainer: %w", err)
		}
		trainers = append(trainers, t)
	}
	return trainers, rows.Err()
}

// Delete removes a trainer. Certificates already issued keep the trainer's
// printed name; only future issuances are affected.
func (s *TrainerService) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM trainers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete trainer %d: %w", ErrPersist, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trainer %d: %w", id, ErrNotFound)
	}
	return nil
}
