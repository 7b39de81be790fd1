package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Slot string

const (
	SLOT_MORNING   Slot = "morning"
	SLOT_AFTERNOON Slot = "afternoon"
)

// AllSlots is the fixed daily slot universe, in serving order.
func AllSlots() []Slot {
	return []Slot{SLOT_MORNING, SLOT_AFTERNOON}
}

func IsValidSlot(s Slot) bool {
	return s == SLOT_MORNING || s == SLOT_AFTERNOON
}

// SlotLabel maps a slot to the time range printed on receipts.
func SlotLabel(s Slot) string {
	switch s {
	case SLOT_MORNING:
		return "8:00 - 14:00"
	case SLOT_AFTERNOON:
		return "15:00 - 23:00"
	}
	return string(s)
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_CANCELLED BookingStatus = "cancelled"
	BOOKING_COMPLETED BookingStatus = "completed"
)

type PaymentStatus string

const (
	PAYMENT_PENDING  PaymentStatus = "pending"
	PAYMENT_PAID     PaymentStatus = "paid"
	PAYMENT_FAILED   PaymentStatus = "failed"
	PAYMENT_REFUNDED PaymentStatus = "refunded"
)

const (
	ROLE_CUSTOMER = "customer"
	ROLE_ADMIN    = "admin"
)

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" binding:"required"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type CreateMenuItemRequestBody struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Available   *bool    `json:"available,omitempty"`
}

type UpdateMenuItemRequestBody struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	Available   *bool    `json:"available,omitempty"`
}

type MenuItemAvailabilityRequestBody struct {
	Available *bool `json:"available,omitempty"`
}

type CreateOfferRequestBody struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description,omitempty"`
	Benefits    string     `json:"benefits,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Active      *bool      `json:"active,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

type UpdateOfferRequestBody struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Benefits    *string    `json:"benefits,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Active      *bool      `json:"active,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

type CreatePromoCodeRequestBody struct {
	Code            string     `json:"code" binding:"required"`
	DiscountPercent uint       `json:"discount_percent" binding:"required,min=1,max=100"`
	UsageLimit      *uint      `json:"usage_limit,omitempty"`
	Active          *bool      `json:"active,omitempty"`
	StartsAt        *time.Time `json:"starts_at,omitempty"`
	EndsAt          *time.Time `json:"ends_at,omitempty"`
}

type ValidatePromoCodeRequestBody struct {
	Code string `json:"code" binding:"required"`
}

type BookingLineItem struct {
	MenuItemID uint `json:"menu_item" binding:"required"`
	Qty        uint `json:"qty" binding:"required,min=1"`
}

type CreateBookingRequestBody struct {
	CustomerName string            `json:"customer_name" binding:"required"`
	Email        string            `json:"email" binding:"required,email"`
	Phone        string            `json:"phone,omitempty"`
	EventDate    string            `json:"event_date" binding:"required,bookabledate"`
	Slot         string            `json:"slot" binding:"required,bookingslot"`
	Venue        string            `json:"venue" binding:"required"`
	GuestCount   uint              `json:"guest_count" binding:"required,min=1"`
	Items        []BookingLineItem `json:"items" binding:"required,min=1,dive"`
	PromoCode    *string           `json:"promo_code,omitempty"`
}

type UpdateBookingStatusRequestBody struct {
	Status BookingStatus `json:"status" binding:"required,oneof=confirmed cancelled completed"`
}

type GenerateReceiptRequestBody struct {
	BookingID     uint   `json:"booking" binding:"required"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

type UpdateReceiptPaymentRequestBody struct {
	PaymentStatus PaymentStatus `json:"payment_status" binding:"required,oneof=pending paid failed refunded"`
	PaymentMethod *string       `json:"payment_method,omitempty"`
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type DateURIParams struct {
	Date string `uri:"date" binding:"required"`
}

type MenuQueryFilters struct {
	Category  string `form:"category,omitempty"`
	Available *bool  `form:"available,omitempty"`
}

type AuthResult struct {
	Token    string `json:"token"`
	Strength string `json:"password_strength,omitempty"`
}
