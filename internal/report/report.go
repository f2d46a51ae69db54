// Package report computes back-office sales summaries over the order ledger.
// All functions are pure over order snapshots; cancelled orders never count
// toward revenue.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/agrikart/agrikart/internal/domain/order"
	"github.com/agrikart/agrikart/internal/domain/product"
)

// StatusCounts tallies orders per lifecycle status.
func StatusCounts(orders []order.Order) map[order.Status]int {
	counts := make(map[order.Status]int, 6)
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}

// Revenue sums stored order totals, excluding cancelled orders.
func Revenue(orders []order.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.Status == order.StatusCancelled {
			continue
		}
		total = total.Add(o.Total)
	}
	return total
}

// MonthlyPoint is one month of sales activity.
type MonthlyPoint struct {
	Month   string // YYYY-MM
	Sales   int
	Revenue decimal.Decimal
}

// MonthlySales buckets non-cancelled orders by calendar month of the order
// date, sorted chronologically.
func MonthlySales(orders []order.Order) []MonthlyPoint {
	byMonth := make(map[string]*MonthlyPoint)
	for _, o := range orders {
		if o.Status == order.StatusCancelled {
			continue
		}
		month := o.OrderDate.Format("2006-01")
		pt, ok := byMonth[month]
		if !ok {
			pt = &MonthlyPoint{Month: month, Revenue: decimal.Zero}
			byMonth[month] = pt
		}
		pt.Sales++
		pt.Revenue = pt.Revenue.Add(o.Total)
	}

	out := make([]MonthlyPoint, 0, len(byMonth))
	for _, pt := range byMonth {
		out = append(out, *pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// ProductSales is the sales rollup for one product.
type ProductSales struct {
	ProductID string
	Name      string
	Units     int
	Revenue   decimal.Decimal
}

// TopProducts ranks products in non-cancelled orders by revenue, highest
// first, returning at most limit entries (limit <= 0 means all).
func TopProducts(orders []order.Order, limit int) []ProductSales {
	byProduct := make(map[string]*ProductSales)
	for _, o := range orders {
		if o.Status == order.StatusCancelled {
			continue
		}
		for _, it := range o.Items {
			ps, ok := byProduct[it.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: it.ProductID, Name: it.Name, Revenue: decimal.Zero}
				byProduct[it.ProductID] = ps
			}
			ps.Units += it.Quantity
			ps.Revenue = ps.Revenue.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}

	out := make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].ProductID < out[j].ProductID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CategoryRevenue groups item revenue of non-cancelled orders by catalog
// category. Items whose product has left the catalog land in "Unknown".
func CategoryRevenue(orders []order.Order, catalog product.Catalog) map[string]decimal.Decimal {
	byCategory := make(map[string]decimal.Decimal)
	for _, o := range orders {
		if o.Status == order.StatusCancelled {
			continue
		}
		for _, it := range o.Items {
			category := "Unknown"
			if p, err := catalog.FindByID(it.ProductID); err == nil {
				category = p.Category
			}
			cur, ok := byCategory[category]
			if !ok {
				cur = decimal.Zero
			}
			byCategory[category] = cur.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	return byCategory
}
