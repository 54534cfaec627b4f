package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jiak99/tour-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRestaurantStaff(t *testing.T) {
	db, mock, repo := setupMockRepository(t)
	defer db.Close()

	created := time.Now()
	hired := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO restaurant_staff \(full_name, email, staff_type, hire_date\)`).
		WithArgs("Maria Costa", "maria.costa@example.com", domain.StaffKitchen, hired).
		WillReturnRows(sqlmock.NewRows([]string{"id", "is_active", "created_at", "version"}).
			AddRow(3, true, created, 1))

	staff := &domain.RestaurantStaff{
		FullName: "Maria Costa",
		Email:    "maria.costa@example.com",
		Type:     domain.StaffKitchen,
		HireDate: &hired,
	}

	require.NoError(t, repo.CreateRestaurantStaff(staff))
	assert.Equal(t, int64(3), staff.ID)
	assert.True(t, staff.IsActive)
	assert.Equal(t, int32(1), staff.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllRestaurantStaffScansRoster(t *testing.T) {
	db, mock, repo := setupMockRepository(t)
	defer db.Close()

	created := time.Now()
	columns := []string{"id", "full_name", "email", "staff_type", "hire_date", "is_active", "created_at", "version"}

	rows := sqlmock.NewRows(columns).
		AddRow(1, "Maria Costa", "maria.costa@example.com", "kitchen", nil, true, created, 1).
		AddRow(2, "Noah Reyes", "noah.reyes@example.com", "serving", nil, false, created, 2)

	mock.ExpectQuery(`SELECT id, full_name, email, staff_type, hire_date, is_active, created_at, version`).
		WillReturnRows(rows)

	members, err := repo.GetAllRestaurantStaff()

	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, domain.StaffKitchen, members[0].Type)
	assert.Nil(t, members[0].HireDate)
	assert.Equal(t, domain.StaffServing, members[1].Type)
	assert.False(t, members[1].IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRestaurantStaffVersionConflict(t *testing.T) {
	db, mock, repo := setupMockRepository(t)
	defer db.Close()

	staff := &domain.RestaurantStaff{
		ID:       2,
		FullName: "Noah Reyes",
		Email:    "noah.reyes@example.com",
		Type:     domain.StaffServing,
		IsActive: true,
		Version:  3,
	}

	mock.ExpectQuery(`UPDATE restaurant_staff`).
		WithArgs("Noah Reyes", "noah.reyes@example.com", domain.StaffServing, nil, true, int64(2), int32(3)).
		WillReturnError(sql.ErrNoRows)

	err := repo.UpdateRestaurantStaff(staff)

	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
