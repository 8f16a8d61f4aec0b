package invoicesvc

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"bookstore/model"
)

// Render turns a fully-populated order into PDF bytes. It is a pure function
// of the order: both document dates are pinned to the order date so the same
// order always renders to identical bytes. Leaving either unset would make
// gofpdf stamp the wall clock into the document info dictionary.
func Render(o *model.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(o.OrderDate.UTC())
	pdf.SetModificationDate(o.OrderDate.UTC())
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "===== BOOKSTORE INVOICE =====", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	line(pdf, fmt.Sprintf("Order ID: %d", o.ID))
	line(pdf, "Customer: "+o.UserEmail)
	line(pdf, "Date: "+o.OrderDate.UTC().Format(time.RFC3339))
	line(pdf, "Payment Status: "+string(o.PaymentStatus))
	line(pdf, "Order Status: "+string(o.OrderStatus))
	pdf.Ln(4)

	line(pdf, "Items:")
	line(pdf, "---------------------------------------")
	for _, it := range o.Items {
		line(pdf, fmt.Sprintf("Book ID: %d | Quantity: %d | Price: %.2f", it.BookID, it.Quantity, it.Price))
	}
	line(pdf, "---------------------------------------")

	pdf.SetFont("Helvetica", "B", 12)
	line(pdf, fmt.Sprintf("Total Amount: $%.2f", o.TotalAmount))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "I", 10)
	line(pdf, "Thank you for your purchase!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func line(pdf *gofpdf.Fpdf, s string) {
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
}

// Filename builds the download name for the content-disposition header.
func Filename(orderID int64) string {
	return fmt.Sprintf("invoice_%d.pdf", orderID)
}
