package models

import (
	"time"

	"cbs/src/types"
)

type Receipt struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	ReceiptNumber string              `gorm:"uniqueIndex" json:"receipt_number,omitempty"`
	BookingID     uint                `gorm:"uniqueIndex" json:"booking_id,omitempty"`
	Subtotal      float64             `json:"subtotal"`
	TaxRate       float64             `gorm:"default:0.12" json:"tax_rate"`
	TaxAmount     float64             `json:"tax_amount"`
	Total         float64             `json:"total"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	PaymentStatus types.PaymentStatus `gorm:"default:'pending'" json:"payment_status,omitempty"`
	IssuedAt      time.Time           `json:"issued_at,omitempty"`

	Booking Booking `gorm:"foreignKey:booking_id" json:"booking,omitempty"`

	types.Timestamps
}
