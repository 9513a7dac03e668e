// Package report renders the manager transaction export workbook.
package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
)

const (
	SummarySheet = "Summary Statistics"
	DataSheet    = "Transaction Data"

	reportTitle = "Cafeteria Management System - Transaction Report"
)

var dataHeaders = []string{"Order ID", "Student ID", "Name", "Date", "Total Amount", "Payment Method", "Status"}

type styles struct {
	title, bold, italic, header int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}); err != nil {
		return s, err
	}
	if s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	if s.italic, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Italic: true}}); err != nil {
		return s, err
	}
	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
	})
	return s, err
}

// Build renders the two sheet workbook for the given orders.
func Build(orders []models.Order, w Window, generated time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(DataSheet); err != nil {
		return nil, err
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, fmt.Errorf("report styles: %w", err)
	}

	if err := writeSummary(f, st, Summarize(orders), w, generated); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	if err := writeData(f, st, orders); err != nil {
		return nil, fmt.Errorf("data sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cellWriter stops at the first failed write.
type cellWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (cw *cellWriter) set(cell string, v any, style int) {
	if cw.err != nil {
		return
	}
	if cw.err = cw.f.SetCellValue(cw.sheet, cell, v); cw.err != nil {
		return
	}
	if style != 0 {
		cw.err = cw.f.SetCellStyle(cw.sheet, cell, cell, style)
	}
}

func (cw *cellWriter) at(col, row int, v any, style int) {
	if cw.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		cw.err = err
		return
	}
	cw.set(cell, v, style)
}

func writeSummary(f *excelize.File, st styles, s Stats, w Window, generated time.Time) error {
	cw := &cellWriter{f: f, sheet: SummarySheet}

	cw.set("A1", reportTitle, st.title)
	if cw.err == nil {
		cw.err = f.MergeCell(SummarySheet, "A1", "D1")
	}
	cw.set("A3", w.Label, st.bold)
	cw.set("A4", fmt.Sprintf("Report Downloaded On: %s IST", generated.In(IST).Format("02/01/2006 15:04:05")), st.italic)

	cw.set("A6", "Total Transactions:", st.bold)
	cw.set("B6", s.Transactions, 0)
	cw.set("A7", "Total Revenue:", st.bold)
	cw.set("B7", "₹"+s.Revenue.StringFixed(2), 0)
	cw.set("A8", "Average Order Value:", st.bold)
	cw.set("B8", "₹"+s.AverageOrder.StringFixed(2), 0)

	cw.set("D6", "Payment Method Breakdown", st.bold)
	cw.set("D7", "Payment Type", st.header)
	cw.set("E7", "Count", st.header)
	cw.set("F7", "Percentage", st.header)
	breakdown := []struct {
		label string
		n     int
	}{
		{"Cash Orders", s.CashOrders},
		{"Online/UPI Orders", s.OnlineOrders},
		{"Deliver to Class", s.DeliveryOrders},
	}
	for i, b := range breakdown {
		row := 8 + i
		cw.at(4, row, b.label, 0)
		cw.at(5, row, b.n, 0)
		cw.at(6, row, fmt.Sprintf("%.1f%%", percent(b.n, s.Transactions)), 0)
	}

	row := writeItemTable(cw, st, 10, "Top Sold Items", s.TopItems)
	writeItemTable(cw, st, row+2, "Least Sold Items", s.LeastItems)

	if cw.err == nil {
		cw.err = f.SetColWidth(SummarySheet, "A", "A", 28)
	}
	if cw.err == nil {
		cw.err = f.SetColWidth(SummarySheet, "D", "D", 26)
	}
	if cw.err == nil && len(s.TopItems) > 0 {
		cw.err = addPie(f, "H6", "Top Sold Items", 12, 11+len(s.TopItems))
	}
	return cw.err
}

// writeItemTable writes a titled name/quantity table and returns the last
// row used.
func writeItemTable(cw *cellWriter, st styles, row int, title string, items []ItemCount) int {
	cw.at(1, row, title, st.bold)
	cw.at(1, row+1, "Item Name", st.header)
	cw.at(2, row+1, "Quantity", st.header)
	r := row + 2
	for _, it := range items {
		cw.at(1, r, it.Name, 0)
		cw.at(2, r, it.Quantity, 0)
		r++
	}
	return r - 1
}

func addPie(f *excelize.File, anchor, title string, firstRow, lastRow int) error {
	ref := func(col string) string {
		return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", SummarySheet, col, firstRow, col, lastRow)
	}
	return f.AddChart(SummarySheet, anchor, &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       title,
			Categories: ref("A"),
			Values:     ref("B"),
		}},
		Title: []excelize.RichTextRun{{Text: title}},
	})
}

func writeData(f *excelize.File, st styles, orders []models.Order) error {
	cw := &cellWriter{f: f, sheet: DataSheet}

	for i, h := range dataHeaders {
		cw.at(i+1, 1, h, st.header)
	}
	for i := range orders {
		o := &orders[i]
		row := i + 2
		cw.at(1, row, o.OrderID, 0)
		cw.at(2, row, o.StudentID, 0)
		cw.at(3, row, o.Name, 0)
		cw.at(4, row, o.DateCreated.In(IST).Format("2006-01-02 15:04:05"), 0)
		total, _ := o.Total().Float64()
		cw.at(5, row, total, 0)
		cw.at(6, row, o.PaymentMethod, 0)
		cw.at(7, row, o.Status, 0)
	}
	if cw.err == nil {
		cw.err = f.SetColWidth(DataSheet, "A", "G", 18)
	}
	return cw.err
}
