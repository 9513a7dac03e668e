package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
)

func item(name, price string, qty int) models.OrderItem {
	return models.OrderItem{Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
}

func sampleOrders() []models.Order {
	now := time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC)
	return []models.Order{
		{OrderID: "CMS-000001", StudentID: "S1", Name: "Asha", PaymentMethod: "cash", Status: "successful", DateCreated: now,
			Items: []models.OrderItem{item("Tea", "10.00", 2), item("Samosa", "15.00", 1)}},
		{OrderID: "CMS-000002", StudentID: "S2", Name: "Ravi", PaymentMethod: "upi", Status: "in_progress", DateCreated: now,
			Items: []models.OrderItem{item("Tea", "10.00", 3)}},
		{OrderID: "CMS-000003", StudentID: "S3", Name: "Meera", PaymentMethod: "classroom_delivery", Status: "pending", DateCreated: now,
			Items: []models.OrderItem{item("Coffee", "20.00", 1)}, Delivery: &models.DeliveryInfo{Classroom: "B-204"}},
	}
}

func TestWindowFor(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC) // 01:30 IST on the 11th

	w, err := WindowFor(FilterToday, now)
	require.NoError(t, err)
	assert.Equal(t, "transactions_2026-03-11.xlsx", w.Filename)
	assert.Equal(t, time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC), w.Since)

	w, err = WindowFor(FilterWeek, now)
	require.NoError(t, err)
	assert.Equal(t, "transactions_last7days.xlsx", w.Filename)
	assert.Equal(t, now.AddDate(0, 0, -7), w.Since)

	w, err = WindowFor(FilterMonth, now)
	require.NoError(t, err)
	assert.Equal(t, "transactions_last30days.xlsx", w.Filename)

	w, err = WindowFor("", now)
	require.NoError(t, err)
	assert.Equal(t, "all_transactions.xlsx", w.Filename)
	assert.True(t, w.Since.IsZero())

	_, err = WindowFor("year", now)
	assert.ErrorIs(t, err, ErrUnknownFilter)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	s := Summarize(sampleOrders())
	assert.Equal(t, 3, s.Transactions)
	assert.Equal(t, "85.00", s.Revenue.StringFixed(2))
	assert.Equal(t, "28.33", s.AverageOrder.StringFixed(2))
	assert.Equal(t, 1, s.CashOrders)
	assert.Equal(t, 1, s.OnlineOrders)
	assert.Equal(t, 1, s.DeliveryOrders)

	require.Len(t, s.TopItems, 3)
	assert.Equal(t, ItemCount{Name: "Tea", Quantity: 5}, s.TopItems[0])
	require.Len(t, s.LeastItems, 3)
	assert.Equal(t, "Samosa", s.LeastItems[0].Name)
	assert.Equal(t, "Tea", s.LeastItems[2].Name)
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	s := Summarize(nil)
	assert.Zero(t, s.Transactions)
	assert.True(t, s.AverageOrder.IsZero())
	assert.Empty(t, s.TopItems)
}

func TestBuild_WritesBothSheets(t *testing.T) {
	t.Parallel()

	w, err := WindowFor(FilterAll, time.Now())
	require.NoError(t, err)

	data, err := Build(sampleOrders(), w, time.Date(2026, 3, 10, 6, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, DataSheet}, f.GetSheetList())

	title, err := f.GetCellValue(SummarySheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, reportTitle, title)

	stamp, err := f.GetCellValue(SummarySheet, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Report Downloaded On: 10/03/2026 11:30:00 IST", stamp)

	count, err := f.GetCellValue(SummarySheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "3", count)

	rows, err := f.GetRows(DataSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, dataHeaders, rows[0])
	assert.Equal(t, "CMS-000001", rows[1][0])
	assert.Equal(t, "35", rows[1][4])
}
