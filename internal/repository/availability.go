package repository

import (
	"context"
	"time"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

// UpsertGuideAvailability records a guide's availability for one date. Dates
// with no record count as available, so the common case writes nothing.
func (r *Repository) UpsertGuideAvailability(av *domain.Availability) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO guide_availability (guide_id, date, is_available, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (guide_id, date) DO UPDATE
		SET is_available = EXCLUDED.is_available,
			notes = EXCLUDED.notes,
			version = guide_availability.version + 1
		RETURNING id, created_at, version
	`

	args := []any{av.PersonID, av.Date, av.IsAvailable, av.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&av.ID, &av.CreatedAt, &av.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpsertStaffAvailability(av *domain.Availability) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO staff_availability (staff_id, date, is_available, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (staff_id, date) DO UPDATE
		SET is_available = EXCLUDED.is_available,
			notes = EXCLUDED.notes,
			version = staff_availability.version + 1
		RETURNING id, created_at, version
	`

	args := []any{av.PersonID, av.Date, av.IsAvailable, av.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&av.ID, &av.CreatedAt, &av.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetGuideAvailability(guideID int64, from, to time.Time) ([]*domain.Availability, error) {
	query := `
		SELECT id, guide_id, date, is_available, notes, created_at, version
		FROM guide_availability
		WHERE guide_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	return r.queryAvailability(query, guideID, from, to)
}

func (r *Repository) GetStaffAvailability(staffID int64, from, to time.Time) ([]*domain.Availability, error) {
	query := `
		SELECT id, staff_id, date, is_available, notes, created_at, version
		FROM staff_availability
		WHERE staff_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	return r.queryAvailability(query, staffID, from, to)
}

func (r *Repository) queryAvailability(query string, personID int64, from, to time.Time) ([]*domain.Availability, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, personID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.Availability, 0)
	for rows.Next() {
		av := &domain.Availability{}
		dst := []any{&av.ID, &av.PersonID, &av.Date, &av.IsAvailable, &av.Notes, &av.CreatedAt, &av.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, av)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// UnavailableGuideIDs collects the guides explicitly marked unavailable on a
// date. Everyone else is treated as available.
func (r *Repository) UnavailableGuideIDs(date time.Time) (map[int64]bool, error) {
	query := `
		SELECT guide_id FROM guide_availability
		WHERE date = $1 AND is_available = FALSE
	`

	return r.queryUnavailableIDs(query, date)
}

func (r *Repository) UnavailableStaffIDs(date time.Time) (map[int64]bool, error) {
	query := `
		SELECT staff_id FROM staff_availability
		WHERE date = $1 AND is_available = FALSE
	`

	return r.queryUnavailableIDs(query, date)
}

func (r *Repository) queryUnavailableIDs(query string, date time.Time) (map[int64]bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
