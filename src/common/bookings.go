package common

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"cbs/src/db"
	"cbs/src/models"
	"cbs/src/types"
	"cbs/src/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
	ErrPromoUnknown        = errors.New("unknown promo code")
)

// SlotConflictError names the slot and date that are already taken.
type SlotConflictError struct {
	Date string
	Slot types.Slot
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("the %s slot on %s is already booked", e.Slot, e.Date)
}

// CreateBooking reserves a slot and persists the booking in one transaction.
// The occupancy check and the insert run under the same transaction, and a
// partial unique index on (event_date, slot) backs it against concurrent
// writers, so two requests for the same slot cannot both commit.
func CreateBooking(params *types.CreateBookingRequestBody, userId uint) (*models.Booking, int, error) {
	gdb := db.GetDb()

	var promo *models.PromoCode
	if params.PromoCode != nil && *params.PromoCode != "" {
		code := strings.ToUpper(strings.TrimSpace(*params.PromoCode))
		var p models.PromoCode
		if err := gdb.Where(&models.PromoCode{Code: code}).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, http.StatusBadRequest, ErrPromoUnknown
			}
			return nil, http.StatusInternalServerError, err
		}
		if err := p.Validate(time.Now()); err != nil {
			return nil, http.StatusBadRequest, err
		}
		promo = &p
	}

	requestId := uuid.NewString()
	var booking models.Booking
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.
			Model(&models.Booking{}).
			Where("event_date = ? AND slot = ? AND status <> ?", params.EventDate, params.Slot, types.BOOKING_CANCELLED).
			Count(&count).
			Error; err != nil {
			return err
		}
		if count > 0 {
			return &SlotConflictError{Date: params.EventDate, Slot: types.Slot(params.Slot)}
		}

		items := make([]models.BookingItem, 0, len(params.Items))
		for _, v := range params.Items {
			var menuItem models.MenuItem
			if err := tx.Where(&models.MenuItem{ID: v.MenuItemID}).First(&menuItem).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrMenuItemNotFound
				}
				return err
			}
			if !menuItem.Available {
				return ErrMenuItemUnavailable
			}
			items = append(items, models.BookingItem{
				MenuItemID: menuItem.ID,
				Quantity:   v.Qty,
				UnitPrice:  menuItem.Price,
			})
		}

		subtotal, discount, total := utils.ComputeBookingTotal(items, promo)
		metadata := types.JSONB{"request_id": requestId, "subtotal": subtotal}
		if promo != nil {
			res := tx.
				Model(&models.PromoCode{}).
				Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", promo.ID).
				Update("used_count", gorm.Expr("used_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return models.ErrPromoExhausted
			}
			metadata["promo_code"] = promo.Code
			metadata["discount"] = discount
		}

		booking = models.Booking{
			UserID:       userId,
			CustomerName: params.CustomerName,
			Email:        params.Email,
			Phone:        params.Phone,
			EventDate:    params.EventDate,
			Slot:         types.Slot(params.Slot),
			Venue:        params.Venue,
			GuestCount:   params.GuestCount,
			TotalAmount:  total,
			Status:       types.BOOKING_PENDING,
			Metadata:     &metadata,
			Items:        items,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("CreateBooking failed: %s\n", err.Error())
		var conflict *SlotConflictError
		switch {
		case errors.As(err, &conflict):
			return nil, http.StatusConflict, err
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// a concurrent writer took the slot between the count and the
			// insert; the partial unique index rejected this one
			return nil, http.StatusConflict, &SlotConflictError{Date: params.EventDate, Slot: types.Slot(params.Slot)}
		case errors.Is(err, ErrMenuItemNotFound):
			return nil, http.StatusNotFound, err
		case errors.Is(err, ErrMenuItemUnavailable),
			errors.Is(err, models.ErrPromoExhausted):
			return nil, http.StatusBadRequest, err
		}
		return nil, http.StatusInternalServerError, err
	}
	return &booking, http.StatusCreated, nil
}

// GetAvailability returns the free slots for a date: the fixed universe minus
// slots held by non-cancelled bookings with that exact date string.
func GetAvailability(date string) ([]types.Slot, error) {
	gdb := db.GetDb()
	var booked []types.Slot
	if err := gdb.
		Model(&models.Booking{}).
		Distinct("slot").
		Where("event_date = ? AND status <> ?", date, types.BOOKING_CANCELLED).
		Pluck("slot", &booked).
		Error; err != nil {
		return nil, err
	}
	return utils.AvailableSlots(booked), nil
}

// CancelBooking frees a slot. Owner enforcement happens at the route layer.
func CancelBooking(id uint) (int, error) {
	gdb := db.GetDb()
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Model(&models.Booking{}).Where("id = ?", id).First(&booking).Error; err != nil {
			return err
		}
		if booking.Status == types.BOOKING_COMPLETED {
			return errors.New("completed bookings cannot be cancelled")
		}
		return tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: id}).
			Updates(&models.Booking{Status: types.BOOKING_CANCELLED}).
			Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return http.StatusNotFound, err
		}
		return http.StatusBadRequest, err
	}
	return http.StatusOK, nil
}
