package repository

import (
	"context"
	"time"

	"github.com/jiak99/tour-scheduler/backend/internal/domain"
)

func (r *Repository) CreateRestaurantStaff(staff *domain.RestaurantStaff) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO restaurant_staff (full_name, email, staff_type, hire_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_active, created_at, version
	`

	args := []any{staff.FullName, staff.Email, staff.Type, staff.HireDate}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&staff.ID, &staff.IsActive, &staff.CreatedAt, &staff.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRestaurantStaffByID(id int64) (*domain.RestaurantStaff, error) {
	query := `
		SELECT full_name, email, staff_type, hire_date, is_active, created_at, version
		FROM restaurant_staff WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	staff := &domain.RestaurantStaff{
		ID: id,
	}

	dst := []any{&staff.FullName, &staff.Email, &staff.Type, &staff.HireDate, &staff.IsActive, &staff.CreatedAt, &staff.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return staff, nil
}

// GetAllRestaurantStaff returns the roster ordered by type then name, the
// order the assignment pool walks.
func (r *Repository) GetAllRestaurantStaff() ([]*domain.RestaurantStaff, error) {
	query := `
		SELECT id, full_name, email, staff_type, hire_date, is_active, created_at, version
		FROM restaurant_staff
		ORDER BY staff_type, full_name, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.RestaurantStaff, 0)
	for rows.Next() {
		staff := &domain.RestaurantStaff{}
		dst := []any{&staff.ID, &staff.FullName, &staff.Email, &staff.Type, &staff.HireDate, &staff.IsActive, &staff.CreatedAt, &staff.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		members = append(members, staff)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}

func (r *Repository) UpdateRestaurantStaff(staff *domain.RestaurantStaff) error {
	query := `
		UPDATE restaurant_staff
		SET
			full_name = $1,
			email = $2,
			staff_type = $3,
			hire_date = $4,
			is_active = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{staff.FullName, staff.Email, staff.Type, staff.HireDate, staff.IsActive, staff.ID, staff.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&staff.CreatedAt, &staff.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRestaurantStaff(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM restaurant_staff WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
