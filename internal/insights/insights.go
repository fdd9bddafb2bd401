// Package insights derives read-only statistics from completed carts:
// spending overview, per-store stats, budget variance, budgeted-vs-unbudgeted
// behavior, and per-item price memory. Everything is recomputed on demand
// from an immutable snapshot of the cart list; nothing is cached or mutated.
package insights

import (
	"sort"
	"time"

	"github.com/harrandt/pricewise/internal/cart"
	"github.com/harrandt/pricewise/internal/model"
)

// DefaultWindow is the recency cutoff for the "recent spend" figure.
const DefaultWindow = 30 * 24 * time.Hour

// TopItemCount is how many items the item-memory ranking returns.
const TopItemCount = 5

// Catalog extends the resolver's catalog view with item names for the
// item-memory ranking.
type Catalog interface {
	cart.Catalog
	ItemName(itemID string) (string, bool)
}

// Overview summarizes overall spending across completed trips.
type Overview struct {
	AllTimeSpend    float64
	RecentSpend     float64
	AvgSpendPerTrip float64
	AvgItemsPerTrip float64
	TripCount       int
}

// StoreStats aggregates spend per store. A cart that touched N stores counts
// as one visit to each of them.
type StoreStats struct {
	TotalSpend float64
	VisitCount int
	AvgSpend   float64
}

// BudgetStats covers only carts that had a budget set.
type BudgetStats struct {
	// AvgVariance is the mean of totalSpent - budget; positive means
	// overspend.
	AvgVariance   float64
	CartCount     int
	HasBudgetData bool
}

// Comparison contrasts average spend on budgeted vs unbudgeted trips.
type Comparison struct {
	AvgBudgetedSpend   float64
	AvgUnbudgetedSpend float64
	// PercentDifference is (unbudgeted - budgeted) / budgeted, or 0 when no
	// budgeted average exists.
	PercentDifference float64
}

// ItemStats is the price memory for one frequently bought item.
type ItemStats struct {
	ItemID        string
	Name          string
	Frequency     int
	PriceHistory  []float64
	LastSeenPrice float64
	// PriceVolatility is (max - min) / min over the recorded history.
	PriceVolatility float64
}

// Result is the full insights snapshot handed to the presentation layer.
type Result struct {
	Stores     map[string]StoreStats
	TopItems   []ItemStats
	Overview   Overview
	Budget     BudgetStats
	Comparison Comparison
}

// Snapshot computes insights over the given carts with the default recency
// window.
func Snapshot(carts []*model.Cart, cat Catalog) *Result {
	return Compute(carts, cat, time.Now(), DefaultWindow)
}

// Compute computes insights over the given carts. Only completed carts
// contribute; the cutoff for recent spend is now minus window, inclusive on
// the completion date.
func Compute(all []*model.Cart, cat Catalog, now time.Time, window time.Duration) *Result {
	completed := make([]*model.Cart, 0, len(all))
	for _, c := range all {
		if c.IsCompleted() {
			completed = append(completed, c)
		}
	}

	res := &Result{
		Stores: make(map[string]StoreStats),
	}
	res.Overview = computeOverview(completed, cat, now.Add(-window))
	computeStoreStats(completed, cat, res.Stores)
	res.Budget, res.Comparison = computeBudgetStats(completed, cat)
	res.TopItems = computeItemMemory(completed, cat)
	return res
}

func computeOverview(carts []*model.Cart, cat Catalog, cutoff time.Time) Overview {
	var o Overview
	o.TripCount = len(carts)

	var itemCount int
	for _, c := range carts {
		total := cart.TotalSpent(c, cat)
		o.AllTimeSpend += total
		itemCount += len(c.Items)

		if c.CompletedAt != nil && !c.CompletedAt.Before(cutoff) {
			o.RecentSpend += total
		}
	}

	if o.TripCount > 0 {
		o.AvgSpendPerTrip = o.AllTimeSpend / float64(o.TripCount)
		o.AvgItemsPerTrip = float64(itemCount) / float64(o.TripCount)
	}
	return o
}

func computeStoreStats(carts []*model.Cart, cat Catalog, stats map[string]StoreStats) {
	for _, c := range carts {
		visited := make(map[string]bool)
		for _, ci := range c.Items {
			store := cart.ResolveStore(ci, model.CartStatusCompleted)
			s := stats[store]
			s.TotalSpend += cart.CompletedLineTotal(ci, cat)
			stats[store] = s
			visited[store] = true
		}
		for store := range visited {
			s := stats[store]
			s.VisitCount++
			stats[store] = s
		}
	}

	for store, s := range stats {
		visits := s.VisitCount
		if visits < 1 {
			visits = 1
		}
		s.AvgSpend = s.TotalSpend / float64(visits)
		stats[store] = s
	}
}

func computeBudgetStats(carts []*model.Cart, cat Catalog) (BudgetStats, Comparison) {
	var b BudgetStats
	var cmp Comparison

	var varianceSum float64
	var budgetedSpend, unbudgetedSpend float64
	var unbudgetedCount int

	for _, c := range carts {
		total := cart.TotalSpent(c, cat)
		if c.Budget > 0 {
			b.CartCount++
			varianceSum += total - c.Budget
			budgetedSpend += total
		} else {
			unbudgetedCount++
			unbudgetedSpend += total
		}
	}

	if b.CartCount > 0 {
		b.HasBudgetData = true
		b.AvgVariance = varianceSum / float64(b.CartCount)
		cmp.AvgBudgetedSpend = budgetedSpend / float64(b.CartCount)
	}
	if unbudgetedCount > 0 {
		cmp.AvgUnbudgetedSpend = unbudgetedSpend / float64(unbudgetedCount)
	}
	if cmp.AvgBudgetedSpend != 0 {
		cmp.PercentDifference = (cmp.AvgUnbudgetedSpend - cmp.AvgBudgetedSpend) / cmp.AvgBudgetedSpend
	}
	return b, cmp
}

func computeItemMemory(carts []*model.Cart, cat Catalog) []ItemStats {
	// Walk carts oldest first so the last seen price ends up most recent.
	ordered := make([]*model.Cart, len(carts))
	copy(ordered, carts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return completedAt(ordered[i]).Before(completedAt(ordered[j]))
	})

	memory := make(map[string]*ItemStats)
	for _, c := range ordered {
		for _, ci := range c.Items {
			if !ci.IsFulfilled {
				continue
			}

			stat, ok := memory[ci.ItemID]
			if !ok {
				stat = &ItemStats{
					ItemID: ci.ItemID,
					Name:   itemName(ci, cat),
				}
				memory[ci.ItemID] = stat
			}
			stat.Frequency++

			price := cart.ResolvePrice(ci, cat, model.CartStatusCompleted)
			if price != 0 {
				stat.PriceHistory = append(stat.PriceHistory, price)
				stat.LastSeenPrice = price
			}
		}
	}

	ranked := make([]ItemStats, 0, len(memory))
	for _, stat := range memory {
		stat.PriceVolatility = volatility(stat.PriceHistory)
		ranked = append(ranked, *stat)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Frequency != ranked[j].Frequency {
			return ranked[i].Frequency > ranked[j].Frequency
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > TopItemCount {
		ranked = ranked[:TopItemCount]
	}
	return ranked
}

func itemName(ci *model.CartItem, cat Catalog) string {
	if ci.IsShoppingOnlyItem {
		return ci.ShoppingOnlyName
	}
	if cat != nil {
		if name, ok := cat.ItemName(ci.ItemID); ok {
			return name
		}
	}
	return ""
}

func volatility(history []float64) float64 {
	if len(history) == 0 {
		return 0
	}
	minP, maxP := history[0], history[0]
	for _, p := range history[1:] {
		if p < minP {
			minP = p
		}
		if p > maxP {
			maxP = p
		}
	}
	if minP == 0 {
		return 0
	}
	return (maxP - minP) / minP
}

func completedAt(c *model.Cart) time.Time {
	if c.CompletedAt == nil {
		return time.Time{}
	}
	return *c.CompletedAt
}
