// Package budget implements the two-tier spending limit checks used both by
// request handlers for early feedback and by the local gateway for the
// authoritative decision inside a transaction.
package budget

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sm2control/backend/internal/models"
)

// Rounding slack for comparisons against the percentage cap. Amounts are
// stored to two decimal places, so anything under a tenth of a unit is noise.
var epsilon = decimal.NewFromFloat(0.1)

var (
	ErrExceedsGlobalLimit    = errors.New("amount exceeds project spending cap")
	ErrExceedsCategoryBudget = errors.New("amount exceeds remaining category balance")
	ErrUnknownNetwork        = errors.New("network code not found in project")
)

// Totals is the budget position of one project across all of its networks.
type Totals struct {
	TotalFull            decimal.Decimal `json:"totalFull"`
	GlobalLimit          decimal.Decimal `json:"globalLimit"`
	TotalSpent           decimal.Decimal `json:"totalSpent"`
	RemainingGlobalLimit decimal.Decimal `json:"remainingGlobalLimit"`
}

// ComputeTotals derives the project position from its networks and the cut
// records charged against it. Records for WBS codes other than the project's
// must be filtered out by the caller.
func ComputeTotals(p *models.Project, records []models.CutRecord) Totals {
	var t Totals
	for i := range p.Networks {
		t.TotalFull = t.TotalFull.Add(p.Networks[i].TotalFull())
	}
	pct := decimal.NewFromFloat(p.MaxBudgetPercent).Div(decimal.NewFromInt(100))
	t.GlobalLimit = t.TotalFull.Mul(pct)
	for i := range records {
		t.TotalSpent = t.TotalSpent.Add(records[i].Total())
	}
	t.RemainingGlobalLimit = t.GlobalLimit.Sub(t.TotalSpent)
	if t.RemainingGlobalLimit.IsNegative() {
		t.RemainingGlobalLimit = decimal.Zero
	}
	return t
}

// PercentUsed reports spent as a percentage of the global limit, zero when
// the limit itself is zero.
func (t Totals) PercentUsed() float64 {
	if t.GlobalLimit.IsZero() {
		return 0
	}
	f, _ := t.TotalSpent.Div(t.GlobalLimit).Mul(decimal.NewFromInt(100)).Float64()
	return f
}

// ValidateCut runs both limit checks for a proposed withdrawal. When editing
// an existing record its id is passed as excludeRecordID so the old amount is
// credited back before the checks run; pass "" for a new record.
//
// Tier one caps cumulative spending at the project's percentage of the total
// full allocation. Tier two requires the target category of the target
// network to physically hold the amount.
func ValidateCut(p *models.Project, records []models.CutRecord, networkCode string, category models.Category, amount decimal.Decimal, excludeRecordID string) error {
	if !amount.IsPositive() {
		return errors.New("cut amount must be positive")
	}

	network := p.FindNetwork(networkCode)
	if network == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNetwork, networkCode)
	}

	var creditBack decimal.Decimal
	filtered := records[:0:0]
	for i := range records {
		if excludeRecordID != "" && records[i].ID == excludeRecordID {
			creditBack = records[i].Total()
			continue
		}
		filtered = append(filtered, records[i])
	}

	t := ComputeTotals(p, filtered)
	if amount.Sub(t.RemainingGlobalLimit).GreaterThan(epsilon) {
		return fmt.Errorf("%w: limit %s, remaining %s, requested %s",
			ErrExceedsGlobalLimit, t.GlobalLimit.StringFixed(2),
			t.RemainingGlobalLimit.StringFixed(2), amount.StringFixed(2))
	}

	available := network.BalanceFor(category)
	if excludeRecordID != "" {
		// The stored balance still reflects the record being replaced,
		// so only the prior amount in the same network and category is
		// actually re-spendable.
		for i := range records {
			if records[i].ID == excludeRecordID && records[i].NetworkCode == networkCode && records[i].Category() == category {
				available = available.Add(creditBack)
			}
		}
	}
	// No slack on the physical balance; overdrawing it would store a
	// negative amount.
	if amount.GreaterThan(available) {
		return fmt.Errorf("%w: %s has %s available in %s, requested %s",
			ErrExceedsCategoryBudget, networkCode, available.StringFixed(2),
			category, amount.StringFixed(2))
	}
	return nil
}
