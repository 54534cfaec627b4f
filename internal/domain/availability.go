package domain

import "time"

// Availability is a per-person, per-date record. At most one record exists per
// (person, date); a missing record means the person is available.
type Availability struct {
	ID          int64     `json:"id"`
	PersonID    int64     `json:"personID"`
	Date        time.Time `json:"date"`
	IsAvailable bool      `json:"isAvailable"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}
