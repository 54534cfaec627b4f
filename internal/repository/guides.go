package repository

import (
	"context"
	"time"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

func (r *Repository) CreateGuide(guide *domain.Guide) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO guides (full_name, email, phone, guide_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, version
	`

	args := []any{guide.FullName, guide.Email, guide.Phone, guide.Type}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&guide.ID, &guide.IsActive, &guide.CreatedAt, &guide.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetGuideByID(id int64) (*domain.Guide, error) {
	query := `
		SELECT full_name, email, phone, guide_type, is_active, created_at, version
		FROM guides WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	guide := &domain.Guide{
		ID: id,
	}

	dst := []any{&guide.FullName, &guide.Email, &guide.Phone, &guide.Type, &guide.IsActive, &guide.CreatedAt, &guide.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return guide, nil
}

// GetAllGuides returns the roster ordered by name. The scheduler relies on
// this order for deterministic tie-breaks.
func (r *Repository) GetAllGuides() ([]*domain.Guide, error) {
	query := `
		SELECT id, full_name, email, phone, guide_type, is_active, created_at, version
		FROM guides
		ORDER BY full_name, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guides := make([]*domain.Guide, 0)
	for rows.Next() {
		guide := &domain.Guide{}
		dst := []any{&guide.ID, &guide.FullName, &guide.Email, &guide.Phone, &guide.Type, &guide.IsActive, &guide.CreatedAt, &guide.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		guides = append(guides, guide)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return guides, nil
}

func (r *Repository) UpdateGuide(guide *domain.Guide) error {
	query := `
		UPDATE guides
		SET
			full_name = $1,
			email = $2,
			phone = $3,
			guide_type = $4,
			is_active = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{guide.FullName, guide.Email, guide.Phone, guide.Type, guide.IsActive, guide.ID, guide.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&guide.CreatedAt, &guide.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteGuide(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM guides WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
