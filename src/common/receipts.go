package common

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"cbs/src/config"
	"cbs/src/db"
	"cbs/src/lib"
	"cbs/src/models"
	"cbs/src/types"
	"cbs/src/utils"

	"gorm.io/gorm"
)

var (
	ErrBookingNotBillable = errors.New("booking must be confirmed or completed before a receipt can be issued")
	ErrReceiptExists      = errors.New("a receipt already exists for this booking")
)

// GenerateReceipt issues a receipt for a billable booking. Amounts derive from
// the booking total: tax = subtotal x the fixed rate, total = subtotal + tax.
func GenerateReceipt(params *types.GenerateReceiptRequestBody) (*models.Receipt, int, error) {
	gdb := db.GetDb()

	var receipt models.Receipt
	err := gdb.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: params.BookingID}).
			Preload("Items.MenuItem").
			First(&booking).
			Error; err != nil {
			return err
		}
		if booking.Status != types.BOOKING_CONFIRMED && booking.Status != types.BOOKING_COMPLETED {
			return ErrBookingNotBillable
		}

		var existing int64
		if err := tx.
			Model(&models.Receipt{}).
			Where("booking_id = ?", booking.ID).
			Count(&existing).
			Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrReceiptExists
		}

		number, err := nextReceiptNumber(tx)
		if err != nil {
			return err
		}

		subtotal := booking.TotalAmount
		tax, total := utils.ComputeReceiptAmounts(subtotal)
		receipt = models.Receipt{
			ReceiptNumber: number,
			BookingID:     booking.ID,
			Subtotal:      subtotal,
			TaxRate:       config.TAX_RATE,
			TaxAmount:     tax,
			Total:         total,
			PaymentMethod: params.PaymentMethod,
			PaymentStatus: types.PAYMENT_PENDING,
			IssuedAt:      time.Now(),
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}
		receipt.Booking = booking
		return nil
	})
	if err != nil {
		log.Printf("GenerateReceipt failed for Booking [%d]: %s\n", params.BookingID, err.Error())
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, http.StatusNotFound, err
		case errors.Is(err, ErrBookingNotBillable):
			return nil, http.StatusBadRequest, err
		case errors.Is(err, ErrReceiptExists):
			return nil, http.StatusConflict, err
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// a concurrent generate won the booking_id or number race
			return nil, http.StatusConflict, ErrReceiptExists
		}
		return nil, http.StatusInternalServerError, err
	}

	if os.Getenv("SMTP_HOST") != "" && receipt.Booking.Email != "" {
		go EmailReceipt(&receipt)
	}

	return &receipt, http.StatusCreated, nil
}

// nextReceiptNumber assigns the next RCP-<year>-<seq> number. The sequence
// resets each year, so only receipts carrying the current year's prefix count.
func nextReceiptNumber(tx *gorm.DB) (string, error) {
	year := time.Now().Year()
	var count int64
	if err := tx.
		Model(&models.Receipt{}).
		Where("receipt_number LIKE ?", fmt.Sprintf("RCP-%d-%%", year)).
		Count(&count).
		Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("RCP-%d-%04d", year, count+1), nil
}

// EmailReceipt sends the rendered PDF to the booking's contact address.
// Failures are logged only; receipt generation never depends on delivery.
func EmailReceipt(receipt *models.Receipt) {
	var buf bytes.Buffer
	if err := utils.RenderReceiptPDF(&buf, receipt); err != nil {
		log.Printf("Error rendering receipt [%s] for email: %s\n", receipt.ReceiptNumber, err.Error())
		return
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USERNAME")
	}
	err := lib.SendMail(&lib.SendMailInput{
		From:     from,
		FromName: config.GetBusinessName(),
		To:       []string{receipt.Booking.Email},
		Subject:  fmt.Sprintf("Your receipt %s", receipt.ReceiptNumber),
		Body:     fmt.Sprintf("Thank you for booking with %s. Your receipt is attached.", config.GetBusinessName()),
		Attachments: map[string][]byte{
			fmt.Sprintf("%s.pdf", receipt.ReceiptNumber): buf.Bytes(),
		},
	})
	if err != nil {
		log.Printf("Error emailing receipt [%s]: %s\n", receipt.ReceiptNumber, err.Error())
	}
}
