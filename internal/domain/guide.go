package domain

import "time"

type GuideType string

const (
	GuideFullTime          GuideType = "FT"
	GuidePartTimeMorning   GuideType = "PTM"
	GuidePartTimeAfternoon GuideType = "PTA"
)

type Guide struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Type      GuideType `json:"type"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
