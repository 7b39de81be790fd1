package common

import (
	"net/http"
	"testing"

	"cbs/src/db"
	"cbs/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestCreateBookingSlotConflict(t *testing.T) {
	_, mock := db.GetMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	params := &types.CreateBookingRequestBody{
		CustomerName: "Jane Doe",
		Email:        "jane@example.com",
		EventDate:    "2099-09-15",
		Slot:         string(types.SLOT_MORNING),
		Venue:        "Garden Hall",
		GuestCount:   50,
		Items:        []types.BookingLineItem{{MenuItemID: 1, Qty: 2}},
	}

	booking, status, err := CreateBooking(params, 1)
	assert.Nil(t, booking)
	assert.Equal(t, http.StatusConflict, status)

	var conflict *SlotConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, "2099-09-15", conflict.Date)
	assert.Equal(t, types.SLOT_MORNING, conflict.Slot)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingUnknownPromo(t *testing.T) {
	_, mock := db.GetMockDB()

	mock.ExpectQuery("SELECT (.+) FROM \"promo_codes\"").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	code := "NOPE"
	params := &types.CreateBookingRequestBody{
		CustomerName: "Jane Doe",
		Email:        "jane@example.com",
		EventDate:    "2099-09-15",
		Slot:         string(types.SLOT_MORNING),
		Venue:        "Garden Hall",
		GuestCount:   50,
		Items:        []types.BookingLineItem{{MenuItemID: 1, Qty: 2}},
		PromoCode:    &code,
	}

	booking, status, err := CreateBooking(params, 1)
	assert.Nil(t, booking)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.ErrorIs(t, err, ErrPromoUnknown)
}

func TestCreateBookingLostSlotRace(t *testing.T) {
	_, mock := db.GetMockDB()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) FROM \"menu_items\"").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "available"}).
			AddRow(1, "Buffet A", 250.0, true))
	// the partial unique index rejects the insert when another writer took
	// the slot after the occupancy check
	mock.ExpectQuery("INSERT INTO \"bookings\"").
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	params := &types.CreateBookingRequestBody{
		CustomerName: "Jane Doe",
		Email:        "jane@example.com",
		EventDate:    "2099-09-15",
		Slot:         string(types.SLOT_MORNING),
		Venue:        "Garden Hall",
		GuestCount:   50,
		Items:        []types.BookingLineItem{{MenuItemID: 1, Qty: 2}},
	}

	booking, status, err := CreateBooking(params, 1)
	assert.Nil(t, booking)
	assert.Equal(t, http.StatusConflict, status)

	var conflict *SlotConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, types.SLOT_MORNING, conflict.Slot)
}

func TestGetAvailability(t *testing.T) {
	_, mock := db.GetMockDB()

	mock.ExpectQuery("SELECT DISTINCT").
		WillReturnRows(sqlmock.NewRows([]string{"slot"}).AddRow("morning"))

	available, err := GetAvailability("2099-09-15")
	assert.NoError(t, err)
	assert.Equal(t, []types.Slot{types.SLOT_AFTERNOON}, available)
}
