package service

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/Skotchmaster/retailer_portal/internal/models"
)

const (
	frequentProducts = 5
	restockAfterDays = 7
	urgentAfterDays  = 14
	maxRestock       = 3
	maxCombos        = 3
	suggestionSample = 5
)

type RestockHint struct {
	Product string `json:"product"`
	Message string `json:"message"`
	Urgency string `json:"urgency"`
}

type ComboHint struct {
	Products string `json:"products"`
	Discount int    `json:"discount"`
	Reason   string `json:"reason"`
}

type counted struct {
	key string
	n   int
}

// rank sorts by count descending, then key ascending.
func rank(m map[string]int) []counted {
	out := make([]counted, 0, len(m))
	for k, n := range m {
		out = append(out, counted{k, n})
	}
	slices.SortFunc(out, func(a, b counted) int {
		if c := cmp.Compare(b.n, a.n); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})
	return out
}

// restockHints flags the most frequently ordered products not ordered in the
// last week.
func restockHints(rows []models.Order, now time.Time, r Rand) []RestockHint {
	freq := make(map[string]int)
	last := make(map[string]time.Time)
	for _, o := range rows {
		freq[o.ProductName]++
		if o.OrderDate.After(last[o.ProductName]) {
			last[o.ProductName] = o.OrderDate
		}
	}

	top := rank(freq)
	if len(top) > frequentProducts {
		top = top[:frequentProducts]
	}

	var out []RestockHint
	for _, c := range top {
		days := int(now.Sub(last[c.key]).Hours() / 24)
		if days <= restockAfterDays {
			continue
		}
		urgency := "medium"
		if days > urgentAfterDays {
			urgency = "high"
		}
		out = append(out, RestockHint{
			Product: c.key,
			Message: fmt.Sprintf("Restock soon! You usually order this every %d days", between(r, 3, 5)),
			Urgency: urgency,
		})
		if len(out) == maxRestock {
			break
		}
	}
	return out
}

// comboHints returns the product pairs most often bought in the same order.
func comboHints(rows []models.Order, r Rand) []ComboHint {
	byOrder := make(map[int64][]string)
	var orderIDs []int64
	for _, o := range rows {
		if _, ok := byOrder[o.OrderID]; !ok {
			orderIDs = append(orderIDs, o.OrderID)
		}
		byOrder[o.OrderID] = append(byOrder[o.OrderID], o.ProductName)
	}

	pairs := make(map[string]int)
	for _, id := range orderIDs {
		names := byOrder[id]
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				a, b := names[i], names[j]
				if b < a {
					a, b = b, a
				}
				pairs[a+" + "+b]++
			}
		}
	}

	top := rank(pairs)
	if len(top) > maxCombos {
		top = top[:maxCombos]
	}
	out := make([]ComboHint, 0, len(top))
	for _, c := range top {
		out = append(out, ComboHint{
			Products: c.key,
			Discount: between(r, 5, 15),
			Reason:   fmt.Sprintf("Frequently bought together (%d times)", c.n),
		})
	}
	return out
}

// sample picks up to n items in random order without repeats.
func sample[T any](items []T, n int, r Rand) []T {
	out := slices.Clone(items)
	rr := randOr(r)
	for i := len(out) - 1; i > 0; i-- {
		j := rr.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}
