package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jiak99/tour-scheduler/backend/internal/config"
	"github.com/jiak99/tour-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockRepository(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Repository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 10
	repo := NewRepository(cfg, db)

	return db, mock, repo
}

func tourDayColumns() []string {
	return []string{
		"td.id", "td.date", "td.standby_guide_id", "td.is_published", "td.notes", "td.created_at", "td.version",
		"ts.id", "ts.guide_id", "ts.status", "ts.visitor_count", "ts.visitor_type", "ts.booking_channel",
		"ts.notes", "ts.created_at", "ts.version",
		"sl.id", "sl.start_time", "sl.end_time", "sl.duration_minutes",
	}
}

func TestGetTourDayByDateReassemblesSessions(t *testing.T) {
	db, mock, repo := setupMockRepository(t)
	defer db.Close()

	date := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	created := time.Now()

	rows := sqlmock.NewRows(tourDayColumns()).
		AddRow(
			1, date, 7, false, "", created, 1,
			10, 7, "scheduled", 12, "family", "online", "", created, 1,
			100, "10:00:00", "11:30:00", 90,
		).
		AddRow(
			1, date, 7, false, "", created, 1,
			11, nil, "scheduled", nil, "", "", "", created, 1,
			101, "11:00:00", "12:30:00", 90,
		)

	mock.ExpectQuery(`SELECT`).WithArgs(date).WillReturnRows(rows)

	day, err := repo.GetTourDayByDate(date)

	require.NoError(t, err)
	assert.Equal(t, int64(1), day.ID)
	require.NotNil(t, day.StandbyGuideID)
	assert.Equal(t, int64(7), *day.StandbyGuideID)
	require.Len(t, day.Sessions, 2)

	first := day.Sessions[0]
	require.NotNil(t, first.GuideID)
	assert.Equal(t, int64(7), *first.GuideID)
	require.NotNil(t, first.VisitorCount)
	assert.Equal(t, int32(12), *first.VisitorCount)
	assert.Equal(t, "family", first.VisitorType)
	assert.Equal(t, "10:00:00", first.Slot.StartTime)

	second := day.Sessions[1]
	assert.Nil(t, second.GuideID)
	assert.Nil(t, second.VisitorCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTourDayByDateNotFound(t *testing.T) {
	db, mock, repo := setupMockRepository(t)
	defer db.Close()

	date := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT`).WithArgs(date).WillReturnRows(sqlmock.NewRows(tourDayColumns()))

	day, err := repo.GetTourDayByDate(date)

	assert.Nil(t, day)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSessionAssignmentVersionConflict(t *testing.T) {
	db, mock, repo := setupMockRepository(t)
	defer db.Close()

	session := &domain.TourSession{ID: 10, Version: 2}
	guideID := int64(7)
	session.GuideID = &guideID

	mock.ExpectQuery(`UPDATE tour_sessions`).
		WithArgs(guideID, int64(10), int32(2)).
		WillReturnError(sql.ErrNoRows)

	err := repo.UpdateSessionAssignment(session)

	assert.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearTourDayAssignments(t *testing.T) {
	db, mock, repo := setupMockRepository(t)
	defer db.Close()

	guideID := int64(7)
	day := &domain.TourDay{
		ID:             1,
		StandbyGuideID: &guideID,
		IsPublished:    true,
		Version:        3,
		Sessions: []domain.TourSession{
			{ID: 10, GuideID: &guideID},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE tour_sessions`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`UPDATE tour_days`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(4))
	mock.ExpectCommit()

	err := repo.ClearTourDayAssignments(day)

	require.NoError(t, err)
	assert.Nil(t, day.Sessions[0].GuideID)
	assert.Nil(t, day.StandbyGuideID)
	assert.False(t, day.IsPublished)
	assert.Equal(t, int32(4), day.Version)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateTourSlotsCountsOnlyNewRows(t *testing.T) {
	db, mock, repo := setupMockRepository(t)
	defer db.Close()

	slots := []domain.TourSlot{
		{StartTime: "10:00:00", EndTime: "11:30:00", DurationMinutes: 90},
		{StartTime: "11:00:00", EndTime: "12:30:00", DurationMinutes: 90},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO tour_slots`).
		WithArgs("10:00:00", "11:30:00", int32(90)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO tour_slots`).
		WithArgs("11:00:00", "12:30:00", int32(90)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // already present
	mock.ExpectCommit()

	created, err := repo.GenerateTourSlots(slots)

	require.NoError(t, err)
	assert.Equal(t, 1, created)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnavailableGuideIDs(t *testing.T) {
	db, mock, repo := setupMockRepository(t)
	defer db.Close()

	date := time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"guide_id"}).AddRow(3).AddRow(8)

	mock.ExpectQuery(`SELECT guide_id FROM guide_availability`).
		WithArgs(date).
		WillReturnRows(rows)

	ids, err := repo.UnavailableGuideIDs(date)

	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{3: true, 8: true}, ids)

	require.NoError(t, mock.ExpectationsWereMet())
}
