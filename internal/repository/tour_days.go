package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

// MaterializeTourDay creates the day ledger for a date with one unassigned
// session per catalog slot. Returns sql.ErrNoRows wrapped conflicts to the
// caller via the unique constraint; materializing twice is a handler-level
// error.
func (r *Repository) MaterializeTourDay(date time.Time) (*domain.TourDay, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	day := &domain.TourDay{
		Date: date,
	}

	query := `
		INSERT INTO tour_days (date)
		VALUES ($1)
		RETURNING id, is_published, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, date).Scan(&day.ID, &day.IsPublished, &day.CreatedAt, &day.Version); err != nil {
		return nil, err
	}

	query = `
		INSERT INTO tour_sessions (tour_day_id, slot_id)
		SELECT $1, id FROM tour_slots
		ORDER BY start_time
	`
	if _, err := tx.ExecContext(ctx, query, day.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetTourDayByDate(date)
}

// GetTourDayByDate loads a day ledger with all its sessions in slot order.
func (r *Repository) GetTourDayByDate(date time.Time) (*domain.TourDay, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			td.id,
			td.date,
			td.standby_guide_id,
			td.is_published,
			td.notes,
			td.created_at,
			td.version,
			ts.id,
			ts.guide_id,
			ts.status,
			ts.visitor_count,
			ts.visitor_type,
			ts.booking_channel,
			ts.notes,
			ts.created_at,
			ts.version,
			sl.id,
			sl.start_time,
			sl.end_time,
			sl.duration_minutes
		FROM tour_days td
		LEFT JOIN tour_sessions ts ON td.id = ts.tour_day_id
		LEFT JOIN tour_slots sl ON ts.slot_id = sl.id
		WHERE td.date = $1
		ORDER BY sl.start_time
	`

	rows, err := r.dbpool.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var day *domain.TourDay

	for rows.Next() {
		var row struct {
			ID             int64
			Date           time.Time
			StandbyGuideID sql.NullInt64
			IsPublished    bool
			Notes          string
			CreatedAt      time.Time
			Version        int32

			SessionID        sql.NullInt64
			GuideID          sql.NullInt64
			Status           sql.NullString
			VisitorCount     sql.NullInt32
			VisitorType      sql.NullString
			BookingChannel   sql.NullString
			SessionNotes     sql.NullString
			SessionCreatedAt sql.NullTime
			SessionVersion   sql.NullInt32

			SlotID          sql.NullInt64
			StartTime       sql.NullString
			EndTime         sql.NullString
			DurationMinutes sql.NullInt32
		}

		dst := []any{
			&row.ID,
			&row.Date,
			&row.StandbyGuideID,
			&row.IsPublished,
			&row.Notes,
			&row.CreatedAt,
			&row.Version,
			&row.SessionID,
			&row.GuideID,
			&row.Status,
			&row.VisitorCount,
			&row.VisitorType,
			&row.BookingChannel,
			&row.SessionNotes,
			&row.SessionCreatedAt,
			&row.SessionVersion,
			&row.SlotID,
			&row.StartTime,
			&row.EndTime,
			&row.DurationMinutes,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if day == nil {
			day = &domain.TourDay{
				ID:          row.ID,
				Date:        row.Date,
				IsPublished: row.IsPublished,
				Notes:       row.Notes,
				Sessions:    make([]domain.TourSession, 0),
				CreatedAt:   row.CreatedAt,
				Version:     row.Version,
			}
			if row.StandbyGuideID.Valid {
				day.StandbyGuideID = &row.StandbyGuideID.Int64
			}
		}

		if !row.SessionID.Valid {
			continue
		}

		session := domain.TourSession{
			ID:        row.SessionID.Int64,
			TourDayID: day.ID,
			Status:    domain.SessionStatus(row.Status.String),
			Slot: domain.TourSlot{
				ID:              row.SlotID.Int64,
				StartTime:       row.StartTime.String,
				EndTime:         row.EndTime.String,
				DurationMinutes: row.DurationMinutes.Int32,
			},
			VisitorType:    row.VisitorType.String,
			BookingChannel: row.BookingChannel.String,
			Notes:          row.SessionNotes.String,
			CreatedAt:      row.SessionCreatedAt.Time,
			Version:        row.SessionVersion.Int32,
		}
		if row.GuideID.Valid {
			session.GuideID = &row.GuideID.Int64
		}
		if row.VisitorCount.Valid {
			session.VisitorCount = &row.VisitorCount.Int32
		}

		day.Sessions = append(day.Sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if day == nil {
		return nil, sql.ErrNoRows
	}

	return day, nil
}

// UpdateSessionAssignment sets or clears one session's guide under an
// optimistic version check. A stale version surfaces as sql.ErrNoRows.
func (r *Repository) UpdateSessionAssignment(session *domain.TourSession) error {
	query := `
		UPDATE tour_sessions
		SET
			guide_id = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, session.GuideID, session.ID, session.Version).Scan(&session.Version); err != nil {
		return err
	}

	return nil
}

// UpdateSessionDetails writes the booking metadata of one session.
func (r *Repository) UpdateSessionDetails(session *domain.TourSession) error {
	query := `
		UPDATE tour_sessions
		SET
			status = $1,
			visitor_count = $2,
			visitor_type = $3,
			booking_channel = $4,
			notes = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{session.Status, session.VisitorCount, session.VisitorType, session.BookingChannel, session.Notes, session.ID, session.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&session.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) SetStandbyGuide(day *domain.TourDay) error {
	query := `
		UPDATE tour_days
		SET
			standby_guide_id = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, day.StandbyGuideID, day.ID, day.Version).Scan(&day.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) SetTourDayPublished(day *domain.TourDay, published bool) error {
	query := `
		UPDATE tour_days
		SET
			is_published = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, published, day.ID, day.Version).Scan(&day.Version); err != nil {
		return err
	}
	day.IsPublished = published

	return nil
}

// ReplaceTourDayAssignments writes the whole day's assignments and the
// standby pick in one transaction, as produced by the auto-assign run.
func (r *Repository) ReplaceTourDayAssignments(day *domain.TourDay) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE tour_sessions
		SET
			guide_id = $1,
			version = version + 1
		WHERE id = $2
		RETURNING version
	`
	for i := range day.Sessions {
		if err := tx.QueryRowContext(ctx, query, day.Sessions[i].GuideID, day.Sessions[i].ID).Scan(&day.Sessions[i].Version); err != nil {
			return err
		}
	}

	query = `
		UPDATE tour_days
		SET
			standby_guide_id = $1,
			version = version + 1
		WHERE id = $2
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, day.StandbyGuideID, day.ID).Scan(&day.Version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// ClearTourDayAssignments removes every assignment and the standby pick and
// withdraws the day from publication.
func (r *Repository) ClearTourDayAssignments(day *domain.TourDay) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE tour_sessions
		SET
			guide_id = NULL,
			version = version + 1
		WHERE tour_day_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, day.ID); err != nil {
		return err
	}

	query = `
		UPDATE tour_days
		SET
			standby_guide_id = NULL,
			is_published = FALSE,
			version = version + 1
		WHERE id = $1
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, day.ID).Scan(&day.Version); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	for i := range day.Sessions {
		day.Sessions[i].GuideID = nil
	}
	day.StandbyGuideID = nil
	day.IsPublished = false

	return nil
}
