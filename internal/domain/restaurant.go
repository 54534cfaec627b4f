package domain

import (
	"errors"
	"time"
)

var ErrUnknownShiftPattern = errors.New("unknown shift pattern")

// ShiftTemplate is one entry of the fixed restaurant shift catalog. The same
// template may be instantiated more than once per day.
type ShiftTemplate struct {
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	DurationHours int32  `json:"durationHours"`
}

type ShiftPattern string

const (
	PatternMixed ShiftPattern = "mixed"
	PatternAll8h ShiftPattern = "all_8h"
)

// PatternTemplates returns the shift template instances a pattern materializes
// per staff type. Operating hours are 10:00-21:30; both patterns yield at
// least two concurrent staff of the type at every instant once fully
// assigned.
func PatternTemplates(pattern ShiftPattern) ([]ShiftTemplate, bool) {
	switch pattern {
	case PatternMixed:
		return []ShiftTemplate{
			{StartTime: "10:00:00", EndTime: "18:00:00", DurationHours: 8},
			{StartTime: "13:30:00", EndTime: "21:30:00", DurationHours: 8},
			{StartTime: "10:00:00", EndTime: "14:00:00", DurationHours: 4},
			{StartTime: "17:30:00", EndTime: "21:30:00", DurationHours: 4},
		}, true
	case PatternAll8h:
		return []ShiftTemplate{
			{StartTime: "10:00:00", EndTime: "18:00:00", DurationHours: 8},
			{StartTime: "10:00:00", EndTime: "18:00:00", DurationHours: 8},
			{StartTime: "13:30:00", EndTime: "21:30:00", DurationHours: 8},
			{StartTime: "13:30:00", EndTime: "21:30:00", DurationHours: 8},
		}, true
	default:
		return nil, false
	}
}

// StaffShift is a shift template instance on a concrete date, earmarked for
// one staff type and held by at most one staff member.
type StaffShift struct {
	ID              int64     `json:"id"`
	RestaurantDayID int64     `json:"restaurantDayID"`
	StaffID         *int64    `json:"staffID"`
	StaffType       StaffType `json:"staffType"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	DurationHours   int32     `json:"durationHours"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
	Version         int32     `json:"-"`
}

// RestaurantDay is the staff-domain day ledger.
type RestaurantDay struct {
	ID          int64        `json:"id"`
	Date        time.Time    `json:"date"`
	IsPublished bool         `json:"isPublished"`
	PublishedAt *time.Time   `json:"publishedAt"`
	Notes       string       `json:"notes"`
	Shifts      []StaffShift `json:"shifts"`
	CreatedAt   time.Time    `json:"createdAt"`
	Version     int32        `json:"-"`
}
