package models

import "cbs/src/types"

type Booking struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	UserID       uint         `json:"user_id,omitempty"`
	CustomerName string       `json:"customer_name,omitempty"`
	Email        string       `json:"email,omitempty"`
	Phone        string       `json:"phone,omitempty"`
	EventDate    string       `gorm:"index:uniq_event_slot,unique,where:status <> 'cancelled'" json:"event_date,omitempty"`
	Slot         types.Slot   `gorm:"index:uniq_event_slot,unique,where:status <> 'cancelled'" json:"slot,omitempty"`
	Venue        string       `json:"venue,omitempty"`
	GuestCount   uint         `json:"guest_count,omitempty"`
	TotalAmount  float64      `json:"total_amount"`
	Status       types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	Metadata     *types.JSONB `gorm:"type:jsonb" json:"metadata,omitempty"`

	User  *User         `gorm:"foreignKey:user_id" json:"user,omitempty"`
	Items []BookingItem `gorm:"foreignKey:booking_id" json:"items,omitempty"`

	types.Timestamps
}

// Occupies reports whether the booking holds its slot. Cancelled bookings
// free the slot for rebooking.
func (b *Booking) Occupies() bool {
	return b.Status != types.BOOKING_CANCELLED
}

type BookingItem struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	BookingID  uint    `json:"booking_id,omitempty"`
	MenuItemID uint    `json:"menu_item_id,omitempty"`
	Quantity   uint    `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`

	MenuItem MenuItem `gorm:"foreignKey:menu_item_id" json:"menu_item,omitempty"`

	types.Timestamps
}

// LineTotal is quantity times the unit price snapshotted at booking time.
func (i *BookingItem) LineTotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}
