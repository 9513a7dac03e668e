package report

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/campus_cafeteria/internal/models"
)

type ItemCount struct {
	Name     string
	Quantity int
}

type Stats struct {
	Transactions   int
	Revenue        decimal.Decimal
	AverageOrder   decimal.Decimal
	TopItems       []ItemCount
	LeastItems     []ItemCount
	CashOrders     int
	OnlineOrders   int
	DeliveryOrders int
}

func Summarize(orders []models.Order) Stats {
	st := Stats{Transactions: len(orders), Revenue: decimal.Zero, AverageOrder: decimal.Zero}

	qty := map[string]int{}
	for i := range orders {
		o := &orders[i]
		st.Revenue = st.Revenue.Add(o.Total())
		for _, it := range o.Items {
			qty[it.Name] += it.Quantity
		}

		method := strings.ToLower(o.PaymentMethod)
		switch {
		case method == "cash" || method == "cod" || method == "cash on delivery":
			st.CashOrders++
		case strings.Contains(method, "upi") || method == "online":
			st.OnlineOrders++
		}
		if o.Delivery != nil || strings.Contains(method, models.PaymentClassroomDelivery) {
			st.DeliveryOrders++
		}
	}
	if st.Transactions > 0 {
		st.AverageOrder = st.Revenue.Div(decimal.NewFromInt(int64(st.Transactions))).Round(2)
	}

	sorted := make([]ItemCount, 0, len(qty))
	for name, n := range qty {
		sorted = append(sorted, ItemCount{Name: name, Quantity: n})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Quantity != sorted[j].Quantity {
			return sorted[i].Quantity > sorted[j].Quantity
		}
		return sorted[i].Name < sorted[j].Name
	})

	if len(sorted) > 5 {
		st.TopItems = sorted[:5]
	} else {
		st.TopItems = sorted
	}

	least := sorted
	if len(least) > 5 {
		least = least[len(least)-5:]
	}
	st.LeastItems = make([]ItemCount, 0, len(least))
	for i := len(least) - 1; i >= 0; i-- {
		st.LeastItems = append(st.LeastItems, least[i])
	}

	return st
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
