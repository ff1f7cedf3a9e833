package services

import (
	"cmp"
	"slices"
	"time"

	"subtrackr/internal/core"
)

// Summarize derives spend totals and renewal urgency from a collection.
func Summarize(subs []core.Subscription, now time.Time, checker RenewalChecker) core.Summary {
	summary := core.Summary{
		Count:      len(subs),
		Upcoming:   []core.Renewal{},
		ByCategory: []core.CategoryAmount{},
	}

	byCategory := make(map[string]*core.CategoryAmount)
	for _, s := range subs {
		monthly := MonthlyEquivalent(s)
		summary.MonthlyTotal += monthly

		name := s.Category
		if name == "" {
			name = core.UncategorizedLabel
		}
		ca, ok := byCategory[name]
		if !ok {
			ca = &core.CategoryAmount{Name: name}
			byCategory[name] = ca
		}
		ca.Amount += monthly
		ca.Count++

		if days, upcoming, err := checker.Check(s, now); err == nil && upcoming {
			summary.Upcoming = append(summary.Upcoming, core.Renewal{Subscription: s, DaysUntil: days})
		}
	}

	// MonthlyTotal * 12, not the sum of native yearly costs.
	summary.YearlyTotal = summary.MonthlyTotal * 12
	if summary.Count > 0 {
		summary.AverageMonthly = summary.MonthlyTotal / float64(summary.Count)
	}

	slices.SortStableFunc(summary.Upcoming, func(a, b core.Renewal) int {
		return cmp.Compare(a.DaysUntil, b.DaysUntil)
	})

	for _, ca := range byCategory {
		summary.ByCategory = append(summary.ByCategory, *ca)
	}
	slices.SortFunc(summary.ByCategory, func(a, b core.CategoryAmount) int {
		if c := cmp.Compare(b.Amount, a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return summary
}
