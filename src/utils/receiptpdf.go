package utils

import (
	"fmt"
	"io"
	"log"
	"os"

	"cbs/src/config"
	"cbs/src/models"
	"cbs/src/types"

	"github.com/jung-kurt/gofpdf"
	"github.com/yeqown/go-qrcode"
)

func orPlaceholder(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// RenderReceiptPDF writes the fixed-layout receipt document. The receipt's
// Booking association must be preloaded together with its line items.
func RenderReceiptPDF(w io.Writer, receipt *models.Receipt) error {
	booking := receipt.Booking

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Receipt %s", receipt.ReceiptNumber), false)
	pdf.AddPage()

	// Business header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, config.GetBusinessName(), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if addr := config.GetBusinessAddress(); addr != "" {
		pdf.CellFormat(0, 5, addr, "", 1, "C", false, 0, "")
	}
	if phone := config.GetBusinessPhone(); phone != "" {
		pdf.CellFormat(0, 5, phone, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)
	pdf.SetDrawColor(80, 80, 80)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(4)

	// Receipt metadata
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "OFFICIAL RECEIPT", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, fmt.Sprintf("Receipt No: %s", orPlaceholder(receipt.ReceiptNumber)), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Issued: %s", receipt.IssuedAt.Format("2006-01-02")), "", 1, "R", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Payment Method: %s", orPlaceholder(receipt.PaymentMethod)), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Payment Status: %s", orPlaceholder(string(receipt.PaymentStatus))), "", 1, "R", false, 0, "")
	pdf.Ln(3)

	// Customer block
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Billed To", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, orPlaceholder(booking.CustomerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, orPlaceholder(booking.Email), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, orPlaceholder(booking.Phone), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Event block
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, "Event Details", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 5, fmt.Sprintf("Date: %s", orPlaceholder(booking.EventDate)), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 5, fmt.Sprintf("Time: %s", types.SlotLabel(booking.Slot)), "", 1, "L", false, 0, "")
	pdf.CellFormat(95, 5, fmt.Sprintf("Venue: %s", orPlaceholder(booking.Venue)), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 5, fmt.Sprintf("Guests: %d", booking.GuestCount), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Line-item table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(90, 7, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 7, "Line Total", "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for i := range booking.Items {
		item := &booking.Items[i]
		name := item.MenuItem.Name
		if name == "" {
			name = fmt.Sprintf("Item #%d", item.MenuItemID)
		}
		pdf.CellFormat(90, 7, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.2f", item.LineTotal()), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// Totals
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(150, 6, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", receipt.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(150, 6, fmt.Sprintf("Tax (%.0f%%)", receipt.TaxRate*100), "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", receipt.TaxAmount), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(150, 8, "TOTAL", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", receipt.Total), "", 1, "R", false, 0, "")

	if path, err := receiptQRCode(receipt.ReceiptNumber); err == nil {
		defer os.Remove(path)
		pdf.ImageOptions(path, 10, pdf.GetY()+5, 30, 30, false, gofpdf.ImageOptions{ImageType: "JPEG"}, 0, "")
	} else {
		log.Printf("Could not render QR code for receipt [%s]: %s\n", receipt.ReceiptNumber, err.Error())
	}

	return pdf.Output(w)
}

func receiptQRCode(receiptNumber string) (string, error) {
	qrc, err := qrcode.New(receiptNumber)
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "receipt-qr-*.jpeg")
	if err != nil {
		return "", err
	}
	path := f.Name()
	f.Close()
	if err := qrc.Save(path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
