package domain

import "time"

// TourSlot is one entry of the fixed tour catalog: a start/end interval that
// must be covered by exactly one guide on every scheduled day. Times are
// "15:04:05" clock strings, the same encoding the database column uses.
type TourSlot struct {
	ID              int64  `json:"id"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int32  `json:"durationMinutes"`
}

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// TourSession is a slot instantiated on a concrete date. Booking details are
// carried for the front office and are opaque to the scheduling rules.
type TourSession struct {
	ID             int64         `json:"id"`
	TourDayID      int64         `json:"tourDayID"`
	Slot           TourSlot      `json:"slot"`
	GuideID        *int64        `json:"guideID"`
	Status         SessionStatus `json:"status"`
	VisitorCount   *int32        `json:"visitorCount"`
	VisitorType    string        `json:"visitorType"`
	BookingChannel string        `json:"bookingChannel"`
	Notes          string        `json:"notes"`
	CreatedAt      time.Time     `json:"createdAt"`
	Version        int32         `json:"-"`
}

// TourDay is the guide-domain day ledger: one session per catalog slot plus
// the day-wide standby pick and the publish flag.
type TourDay struct {
	ID             int64         `json:"id"`
	Date           time.Time     `json:"date"`
	StandbyGuideID *int64        `json:"standbyGuideID"`
	IsPublished    bool          `json:"isPublished"`
	Notes          string        `json:"notes"`
	Sessions       []TourSession `json:"sessions"`
	CreatedAt      time.Time     `json:"createdAt"`
	Version        int32         `json:"-"`
}
