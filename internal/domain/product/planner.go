package product

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Planner accumulates pending stock adjustments for the back office. Deltas
// are staged per product and only written to the catalog on Apply. A staged
// delta can never drive the effective stock below zero.
type Planner struct {
	catalog *MemoryCatalog

	mu     sync.Mutex
	deltas map[string]int
}

// NewPlanner creates a Planner over the given catalog.
func NewPlanner(catalog *MemoryCatalog) *Planner {
	return &Planner{
		catalog: catalog,
		deltas:  make(map[string]int),
	}
}

// Adjust stages a stock change for a product. It returns the new pending
// delta, or ErrNotFound for an unknown product. Changes that would take the
// effective stock negative are ignored and the current delta is returned.
func (pl *Planner) Adjust(productID string, change int) (int, error) {
	p, err := pl.catalog.FindByID(productID)
	if err != nil {
		return 0, err
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()

	next := pl.deltas[productID] + change
	if p.Stock+next < 0 {
		return pl.deltas[productID], nil
	}
	pl.deltas[productID] = next
	return next, nil
}

// Pending returns a copy of the staged adjustments.
func (pl *Planner) Pending() map[string]int {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	out := make(map[string]int, len(pl.deltas))
	for id, d := range pl.deltas {
		out[id] = d
	}
	return out
}

// Apply commits all staged adjustments into the catalog and clears them.
// It returns the number of products updated.
func (pl *Planner) Apply() int {
	pl.mu.Lock()
	deltas := pl.deltas
	pl.deltas = make(map[string]int)
	pl.mu.Unlock()

	applied := 0
	for id, d := range deltas {
		if d == 0 {
			continue
		}
		p, err := pl.catalog.FindByID(id)
		if err != nil {
			continue
		}
		if err := pl.catalog.SetStock(id, p.Stock+d); err == nil {
			applied++
		}
	}
	return applied
}

// Summary describes the inventory with staged adjustments included.
type Summary struct {
	TotalValue decimal.Decimal
	TotalStock int
	LowStock   int
}

// Summarize computes inventory totals as they would look after Apply.
// Products with effective stock below threshold count as low stock.
func (pl *Planner) Summarize(threshold int) Summary {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	s := Summary{TotalValue: decimal.Zero}
	for _, p := range pl.catalog.List() {
		stock := p.Stock + pl.deltas[p.ID]
		s.TotalStock += stock
		s.TotalValue = s.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(stock))))
		if stock < threshold {
			s.LowStock++
		}
	}
	return s
}
