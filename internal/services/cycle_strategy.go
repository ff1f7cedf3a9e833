// Package services provides business logic and orchestration services.
//
// This file implements the Strategy Pattern for normalizing a subscription's
// cost to a monthly figure. Each billing cycle has its own normalizer.
package services

import (
	"sync"

	"subtrackr/internal/core"
)

// CycleNormalizer converts a cost billed once per cycle into its monthly equivalent.
type CycleNormalizer interface {
	MonthlyEquivalent(cost float64) float64
}

// MonthlyNormalizer implements CycleNormalizer for monthly billing.
type MonthlyNormalizer struct{}

// MonthlyEquivalent returns the cost unchanged.
func (MonthlyNormalizer) MonthlyEquivalent(cost float64) float64 {
	return cost
}

// YearlyNormalizer implements CycleNormalizer for yearly billing.
type YearlyNormalizer struct{}

// MonthlyEquivalent spreads the cost over twelve months.
func (YearlyNormalizer) MonthlyEquivalent(cost float64) float64 {
	return cost / 12
}

var (
	normalizersMu sync.RWMutex
	normalizers   = map[core.BillingCycle]CycleNormalizer{
		core.Monthly: MonthlyNormalizer{},
		core.Yearly:  YearlyNormalizer{},
	}
)

// GetCycleNormalizer returns the normalizer for cycle. Unknown cycles use the
// yearly normalizer: anything stored that is not "monthly" is spread over a year.
func GetCycleNormalizer(cycle core.BillingCycle) CycleNormalizer {
	normalizersMu.RLock()
	defer normalizersMu.RUnlock()
	if n, ok := normalizers[cycle]; ok {
		return n
	}
	return YearlyNormalizer{}
}

// RegisterCycleNormalizer installs a normalizer for a new or existing cycle.
func RegisterCycleNormalizer(cycle core.BillingCycle, n CycleNormalizer) {
	normalizersMu.Lock()
	defer normalizersMu.Unlock()
	normalizers[cycle] = n
}

// MonthlyEquivalent normalizes one subscription's cost.
func MonthlyEquivalent(s core.Subscription) float64 {
	return GetCycleNormalizer(s.BillingCycle).MonthlyEquivalent(s.Cost)
}
