package repository

import (
	"context"
	"time"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

// GenerateTourSlots inserts the fixed slot catalog, skipping slots that
// already exist. Returns the number of slots actually created, so calling it
// twice is harmless.
func (r *Repository) GenerateTourSlots(slots []domain.TourSlot) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO tour_slots (start_time, end_time, duration_minutes)
		VALUES ($1, $2, $3)
		ON CONFLICT (start_time) DO NOTHING
	`

	created := 0
	for _, slot := range slots {
		res, err := tx.ExecContext(ctx, query, slot.StartTime, slot.EndTime, slot.DurationMinutes)
		if err != nil {
			return 0, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		created += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return created, nil
}

func (r *Repository) GetAllTourSlots() ([]*domain.TourSlot, error) {
	query := `
		SELECT id, start_time, end_time, duration_minutes
		FROM tour_slots
		ORDER BY start_time
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*domain.TourSlot, 0)
	for rows.Next() {
		slot := &domain.TourSlot{}
		if err := rows.Scan(&slot.ID, &slot.StartTime, &slot.EndTime, &slot.DurationMinutes); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return slots, nil
}
