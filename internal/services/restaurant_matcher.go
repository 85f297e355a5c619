package services

import (
	"fmt"
	"foodcart-service/internal/domain"
)

// MatchPolicy selects how per-line candidate restaurants combine into the
// order's candidate list.
type MatchPolicy string

const (
	// Only the first order line is considered. Lines beyond the first are
	// ignored, so a multi-item order may list restaurants that cannot
	// supply every product. Duplicates are kept.
	MatchFirstLine MatchPolicy = "first-line"
	// Restaurants able to supply every line.
	MatchIntersection MatchPolicy = "intersection"
	// Restaurants able to supply at least one line.
	MatchUnion MatchPolicy = "union"
)

func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch p := MatchPolicy(s); p {
	case MatchFirstLine, MatchIntersection, MatchUnion:
		return p, nil
	case "":
		return MatchFirstLine, nil
	default:
		return "", fmt.Errorf("unknown match policy %q (want %q, %q or %q)", s, MatchFirstLine, MatchIntersection, MatchUnion)
	}
}

// OrderMatch is an order with the restaurants selected for it.
type OrderMatch struct {
	Order               *domain.Order
	SelectedRestaurants []domain.Restaurant
}

// MatchRestaurants attaches candidate restaurants to each order.
//
// available must hold only menu entries flagged available. The result keeps
// the order of orders and, within an order, the order of available.
// Orders without lines get an empty candidate list.
func MatchRestaurants(orders []*domain.Order, available []domain.MenuItem, policy MatchPolicy) []OrderMatch {
	byProduct := make(map[int][]domain.Restaurant)
	for _, item := range available {
		if !item.Available {
			continue
		}
		byProduct[item.Product.ID] = append(byProduct[item.Product.ID], item.Restaurant)
	}

	out := make([]OrderMatch, 0, len(orders))
	for _, order := range orders {
		perLine := make([][]domain.Restaurant, 0, len(order.Lines))
		for _, line := range order.Lines {
			perLine = append(perLine, byProduct[line.ProductID])
		}

		out = append(out, OrderMatch{
			Order:               order,
			SelectedRestaurants: combine(perLine, policy),
		})
	}

	return out
}

func combine(perLine [][]domain.Restaurant, policy MatchPolicy) []domain.Restaurant {
	if len(perLine) == 0 {
		return []domain.Restaurant{}
	}

	switch policy {
	case MatchIntersection:
		counts := make(map[int]int)
		for _, candidates := range perLine {
			for _, r := range dedupe(candidates) {
				counts[r.ID]++
			}
		}
		out := []domain.Restaurant{}
		for _, r := range dedupe(perLine[0]) {
			if counts[r.ID] == len(perLine) {
				out = append(out, r)
			}
		}
		return out

	case MatchUnion:
		all := []domain.Restaurant{}
		for _, candidates := range perLine {
			all = append(all, candidates...)
		}
		return dedupe(all)

	default:
		out := make([]domain.Restaurant, len(perLine[0]))
		copy(out, perLine[0])
		return out
	}
}

// dedupe keeps the first occurrence of each restaurant id.
func dedupe(rs []domain.Restaurant) []domain.Restaurant {
	seen := make(map[int]struct{}, len(rs))
	out := make([]domain.Restaurant, 0, len(rs))
	for _, r := range rs {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}
