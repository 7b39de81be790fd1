package utils

import (
	"bytes"
	"testing"
	"time"

	"cbs/src/models"
	"cbs/src/types"

	"github.com/stretchr/testify/assert"
)

func TestRenderReceiptPDF(t *testing.T) {
	receipt := &models.Receipt{
		ReceiptNumber: "RCP-2026-0001",
		Subtotal:      1000,
		TaxRate:       0.12,
		TaxAmount:     120,
		Total:         1120,
		PaymentMethod: "cash",
		PaymentStatus: types.PAYMENT_PAID,
		IssuedAt:      time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Booking: models.Booking{
			CustomerName: "Jane Doe",
			Email:        "jane@example.com",
			EventDate:    "2026-09-15",
			Slot:         types.SLOT_MORNING,
			Venue:        "Garden Hall",
			GuestCount:   50,
			TotalAmount:  1120,
			Items: []models.BookingItem{
				{Quantity: 2, UnitPrice: 250, MenuItem: models.MenuItem{Name: "Buffet A"}},
				{Quantity: 1, UnitPrice: 500, MenuItem: models.MenuItem{Name: "Lechon"}},
			},
		},
	}

	var buf bytes.Buffer
	err := RenderReceiptPDF(&buf, receipt)
	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}
