package models

import "cbs/src/types"

type User struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `json:"name,omitempty"`
	Email    string `gorm:"uniqueIndex" json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"-"`
	Role     string `gorm:"default:'customer'" json:"role,omitempty"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`

	types.Timestamps
}
