package utils

import (
	"testing"

	"cbs/src/models"
	"cbs/src/types"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Run("accepts a compliant password", func(t *testing.T) {
		reasons, strength, valid := ValidatePassword("Abc12345!")
		assert.True(t, valid)
		assert.Empty(t, reasons)
		assert.Equal(t, STRENGTH_MEDIUM, strength)
	})

	t.Run("grades long varied passwords as strong", func(t *testing.T) {
		_, strength, valid := ValidatePassword("Abc12345!xyz")
		assert.True(t, valid)
		assert.Equal(t, STRENGTH_STRONG, strength)
	})

	t.Run("lists every violated rule", func(t *testing.T) {
		reasons, strength, valid := ValidatePassword("abc")
		assert.False(t, valid)
		assert.Len(t, reasons, 4)
		assert.Equal(t, STRENGTH_WEAK, strength)
	})

	t.Run("rejects a short password that covers every class", func(t *testing.T) {
		reasons, _, valid := ValidatePassword("Ab1!")
		assert.False(t, valid)
		assert.Len(t, reasons, 1)
		assert.Contains(t, reasons[0], "8 characters")
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Abc12345!")
	assert.NoError(t, err)
	assert.NotEqual(t, "Abc12345!", hash)
	assert.True(t, CheckPassword(hash, "Abc12345!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestAvailableSlots(t *testing.T) {
	t.Run("empty date exposes both slots", func(t *testing.T) {
		assert.Equal(t, []types.Slot{types.SLOT_MORNING, types.SLOT_AFTERNOON}, AvailableSlots(nil))
	})

	t.Run("booked slots are excluded", func(t *testing.T) {
		assert.Equal(t, []types.Slot{types.SLOT_AFTERNOON}, AvailableSlots([]types.Slot{types.SLOT_MORNING}))
		assert.Equal(t, []types.Slot{types.SLOT_MORNING}, AvailableSlots([]types.Slot{types.SLOT_AFTERNOON}))
	})

	t.Run("fully booked date yields an empty list", func(t *testing.T) {
		available := AvailableSlots(types.AllSlots())
		assert.NotNil(t, available)
		assert.Empty(t, available)
	})
}

func TestComputeReceiptAmounts(t *testing.T) {
	tax, total := ComputeReceiptAmounts(1000)
	assert.Equal(t, 120.0, tax)
	assert.Equal(t, 1120.0, total)

	tax, total = ComputeReceiptAmounts(99.99)
	assert.Equal(t, 12.0, tax)
	assert.Equal(t, 111.99, total)
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 0.13, RoundCents(0.125))
	assert.Equal(t, 10.0, RoundCents(10.004))
}

func TestComputeBookingTotal(t *testing.T) {
	items := []models.BookingItem{
		{Quantity: 2, UnitPrice: 250},
		{Quantity: 1, UnitPrice: 500},
	}

	t.Run("without promo", func(t *testing.T) {
		subtotal, discount, total := ComputeBookingTotal(items, nil)
		assert.Equal(t, 1000.0, subtotal)
		assert.Equal(t, 0.0, discount)
		assert.Equal(t, 1000.0, total)
	})

	t.Run("promo discount comes off the subtotal", func(t *testing.T) {
		promo := &models.PromoCode{Code: "SAVE10", DiscountPercent: 10}
		subtotal, discount, total := ComputeBookingTotal(items, promo)
		assert.Equal(t, 1000.0, subtotal)
		assert.Equal(t, 100.0, discount)
		assert.Equal(t, 900.0, total)
	})
}
