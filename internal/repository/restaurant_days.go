package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

// MaterializeRestaurantDay creates the staff-domain day ledger for a date,
// instantiating the pattern's templates once per staff type.
func (r *Repository) MaterializeRestaurantDay(date time.Time, pattern domain.ShiftPattern) (*domain.RestaurantDay, error) {
	templates, ok := domain.PatternTemplates(pattern)
	if !ok {
		return nil, domain.ErrUnknownShiftPattern
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	day := &domain.RestaurantDay{
		Date: date,
	}

	query := `
		INSERT INTO restaurant_days (date, pattern)
		VALUES ($1, $2)
		RETURNING id, is_published, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, date, pattern).Scan(&day.ID, &day.IsPublished, &day.CreatedAt, &day.Version); err != nil {
		return nil, err
	}

	query = `
		INSERT INTO staff_shifts (restaurant_day_id, staff_type, start_time, end_time, duration_hours)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, staffType := range []domain.StaffType{domain.StaffKitchen, domain.StaffServing} {
		for _, tmpl := range templates {
			args := []any{day.ID, staffType, tmpl.StartTime, tmpl.EndTime, tmpl.DurationHours}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetRestaurantDayByDate(date)
}

func (r *Repository) GetRestaurantDayByDate(date time.Time) (*domain.RestaurantDay, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			rd.id,
			rd.date,
			rd.is_published,
			rd.published_at,
			rd.notes,
			rd.created_at,
			rd.version,
			ss.id,
			ss.staff_id,
			ss.staff_type,
			ss.start_time,
			ss.end_time,
			ss.duration_hours,
			ss.notes,
			ss.created_at,
			ss.version
		FROM restaurant_days rd
		LEFT JOIN staff_shifts ss ON rd.id = ss.restaurant_day_id
		WHERE rd.date = $1
		ORDER BY ss.staff_type, ss.start_time, ss.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var day *domain.RestaurantDay

	for rows.Next() {
		var row struct {
			ID          int64
			Date        time.Time
			IsPublished bool
			PublishedAt sql.NullTime
			Notes       string
			CreatedAt   time.Time
			Version     int32

			ShiftID        sql.NullInt64
			StaffID        sql.NullInt64
			StaffType      sql.NullString
			StartTime      sql.NullString
			EndTime        sql.NullString
			DurationHours  sql.NullInt32
			ShiftNotes     sql.NullString
			ShiftCreatedAt sql.NullTime
			ShiftVersion   sql.NullInt32
		}

		dst := []any{
			&row.ID,
			&row.Date,
			&row.IsPublished,
			&row.PublishedAt,
			&row.Notes,
			&row.CreatedAt,
			&row.Version,
			&row.ShiftID,
			&row.StaffID,
			&row.StaffType,
			&row.StartTime,
			&row.EndTime,
			&row.DurationHours,
			&row.ShiftNotes,
			&row.ShiftCreatedAt,
			&row.ShiftVersion,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if day == nil {
			day = &domain.RestaurantDay{
				ID:          row.ID,
				Date:        row.Date,
				IsPublished: row.IsPublished,
				Notes:       row.Notes,
				Shifts:      make([]domain.StaffShift, 0),
				CreatedAt:   row.CreatedAt,
				Version:     row.Version,
			}
			if row.PublishedAt.Valid {
				day.PublishedAt = &row.PublishedAt.Time
			}
		}

		if !row.ShiftID.Valid {
			continue
		}

		shift := domain.StaffShift{
			ID:              row.ShiftID.Int64,
			RestaurantDayID: day.ID,
			StaffType:       domain.StaffType(row.StaffType.String),
			StartTime:       row.StartTime.String,
			EndTime:         row.EndTime.String,
			DurationHours:   row.DurationHours.Int32,
			Notes:           row.ShiftNotes.String,
			CreatedAt:       row.ShiftCreatedAt.Time,
			Version:         row.ShiftVersion.Int32,
		}
		if row.StaffID.Valid {
			shift.StaffID = &row.StaffID.Int64
		}

		day.Shifts = append(day.Shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if day == nil {
		return nil, sql.ErrNoRows
	}

	return day, nil
}

// UpdateShiftAssignment sets or clears one shift's holder under an optimistic
// version check.
func (r *Repository) UpdateShiftAssignment(shift *domain.StaffShift) error {
	query := `
		UPDATE staff_shifts
		SET
			staff_id = $1,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, shift.StaffID, shift.ID, shift.Version).Scan(&shift.Version); err != nil {
		return err
	}

	return nil
}

// ReplaceRestaurantAssignments writes the whole day's shift holders in one
// transaction, as produced by the auto-assign run.
func (r *Repository) ReplaceRestaurantAssignments(day *domain.RestaurantDay) error {
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
		UPDATE staff_shifts
		SET
			staff_id = $1,
			version = version + 1
		WHERE id = $2
		RETURNING version
	`
	for i := range day.Shifts {
		if err := tx.QueryRowContext(ctx, query, day.Shifts[i].StaffID, day.Shifts[i].ID).Scan(&day.Shifts[i].Version); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// ClearRestaurantAssignments removes every shift holder and withdraws the day
// from publication.
func (r *Repository) ClearRestaurantAssignments(day *domain.RestaurantDay) error {
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
		UPDATE staff_shifts
		SET
			staff_id = NULL,
			version = version + 1
		WHERE restaurant_day_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, day.ID); err != nil {
		return err
	}

	query = `
		UPDATE restaurant_days
		SET
			is_published = FALSE,
			published_at = NULL,
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

	for i := range day.Shifts {
		day.Shifts[i].StaffID = nil
	}
	day.IsPublished = false
	day.PublishedAt = nil

	return nil
}

// SetRestaurantDayPublished flips the publish flag. Publication stamps
// published_at; unpublishing clears it, so the stamp always refers to the
// current publication.
func (r *Repository) SetRestaurantDayPublished(day *domain.RestaurantDay, published bool) error {
	query := `
		UPDATE restaurant_days
		SET
			is_published = $1,
			published_at = CASE WHEN $1 THEN NOW() ELSE NULL END,
			version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING published_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var publishedAt sql.NullTime
	if err := r.dbpool.QueryRowContext(ctx, query, published, day.ID, day.Version).Scan(&publishedAt, &day.Version); err != nil {
		return err
	}

	day.IsPublished = published
	if publishedAt.Valid {
		day.PublishedAt = &publishedAt.Time
	} else {
		day.PublishedAt = nil
	}

	return nil
}
