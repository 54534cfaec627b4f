package domain

import "time"

type StaffType string

const (
	StaffKitchen StaffType = "kitchen"
	StaffServing StaffType = "serving"
)

type RestaurantStaff struct {
	ID        int64      `json:"id"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Type      StaffType  `json:"type"`
	IsActive  bool       `json:"isActive"`
	HireDate  *time.Time `json:"hireDate"`
	CreatedAt time.Time  `json:"createdAt"`
	Version   int32      `json:"-"`
}
