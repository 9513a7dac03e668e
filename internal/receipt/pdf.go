// Package receipt renders order receipts as PDF.
package receipt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
)

const Title = "EZ FOOD Receipt"

var columns = []struct {
	header string
	width  float64
	align  string
}{
	{"Item", 80, "L"},
	{"Quantity", 30, "C"},
	{"Price", 35, "R"},
	{"Total", 35, "R"},
}

func Filename(orderID string) string {
	return fmt.Sprintf("receipt_%s.pdf", orderID)
}

// Render lays out the receipt for an order with its items loaded. Dates are
// printed in loc.
func Render(o *models.Order, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	header := [][2]string{
		{"Order #", o.OrderID},
		{"Date", o.DateCreated.In(loc).Format("02 Jan 2006 15:04")},
		{"Student ID", o.StudentID},
		{"Customer", o.Name},
		{"Payment Method", o.PaymentMethod},
	}
	for _, kv := range header {
		pdf.CellFormat(40, 7, kv[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(224, 224, 224)
	for _, c := range columns {
		pdf.CellFormat(c.width, 8, c.header, "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for i := range o.Items {
		it := &o.Items[i]
		cells := []string{
			it.Name,
			fmt.Sprintf("%d", it.Quantity),
			"Rs. " + it.Price.StringFixed(2),
			"Rs. " + it.LineTotal().StringFixed(2),
		}
		for j, c := range columns {
			pdf.CellFormat(c.width, 8, cells[j], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(columns[0].width+columns[1].width+columns[2].width, 9, "Grand Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(columns[3].width, 9, "Rs. "+o.Total().StringFixed(2), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
