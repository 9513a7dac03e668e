package report

import (
	"errors"
	"fmt"
	"time"
)

const (
	FilterToday = "today"
	FilterWeek  = "week"
	FilterMonth = "month"
	FilterAll   = "all"
)

var ErrUnknownFilter = errors.New("unknown export filter")

// IST is the timezone report timestamps are rendered in.
var IST = time.FixedZone("IST", 5*60*60+30*60)

type Window struct {
	Filter   string
	Since    time.Time // zero for all time
	Filename string
	Label    string
}

// WindowFor maps an export filter to its time window. An empty filter means
// all time.
func WindowFor(filter string, now time.Time) (Window, error) {
	now = now.In(IST)
	switch filter {
	case FilterToday:
		day := now.Format("2006-01-02")
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, IST)
		return Window{Filter: filter, Since: start.UTC(), Filename: fmt.Sprintf("transactions_%s.xlsx", day), Label: "Date: " + day}, nil
	case FilterWeek:
		start := now.AddDate(0, 0, -7)
		return Window{Filter: filter, Since: start.UTC(), Filename: "transactions_last7days.xlsx",
			Label: fmt.Sprintf("Period: %s to %s", start.Format("2006-01-02"), now.Format("2006-01-02"))}, nil
	case FilterMonth:
		start := now.AddDate(0, 0, -30)
		return Window{Filter: filter, Since: start.UTC(), Filename: "transactions_last30days.xlsx",
			Label: fmt.Sprintf("Period: %s to %s", start.Format("2006-01-02"), now.Format("2006-01-02"))}, nil
	case FilterAll, "":
		return Window{Filter: FilterAll, Filename: "all_transactions.xlsx", Label: "All Time"}, nil
	}
	return Window{}, fmt.Errorf("%w: %q", ErrUnknownFilter, filter)
}
