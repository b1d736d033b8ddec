package period

import (
	"slices"
	"strings"
)

// Order is a sort direction for month ordering.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
	None Order = "none"
)

// ParseOrder maps user input to an Order, defaulting to fallback.
func ParseOrder(s string, fallback Order) Order {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc
	case Desc:
		return Desc
	case None:
		return None
	}
	return fallback
}

// SortByMonth returns a copy of items ordered by month ordinal. The sort is
// stable and names that are not months always go last. Any order other than
// Asc or Desc keeps the input order.
func SortByMonth[T any](items []T, order Order, month func(T) string) []T {
	out := slices.Clone(items)
	if order != Asc && order != Desc {
		return out
	}
	slices.SortStableFunc(out, func(a, b T) int {
		oa, ob := Ordinal(month(a)), Ordinal(month(b))
		switch {
		case oa == ob:
			return 0
		case oa == 0:
			return 1
		case ob == 0:
			return -1
		case order == Desc:
			return ob - oa
		default:
			return oa - ob
		}
	})
	return out
}
