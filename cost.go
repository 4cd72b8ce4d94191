package apidex

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// CostEntry records the unit price and expected monthly volume of one
// operation on one API (cost_tracking row). Unit costs are stored in
// USD micro-dollars (1e-6 USD) so that money never touches floats.
type CostEntry struct {
	ID             string    `json:"id"`
	APIID          string    `json:"apiId"`
	Operation      string    `json:"operation"`
	Unit           string    `json:"unit"` // "call", "1k_tokens", "month", ...
	UnitCostMicros int64     `json:"unitCostMicros"`
	MonthlyVolume  int64     `json:"monthlyVolume"`
	Notes          string    `json:"notes"`
	RecordedAt     time.Time `json:"recordedAt"`
}

// Validate returns an error if the cost entry contains invalid fields.
func (c *CostEntry) Validate() error {
	if c.APIID == "" {
		return Errorf(EINVALID, "cost entry API ID required")
	}
	if c.Operation == "" {
		return Errorf(EINVALID, "cost entry operation required")
	}
	if c.UnitCostMicros < 0 {
		return Errorf(EINVALID, "unit cost cannot be negative")
	}
	if c.MonthlyVolume < 0 {
		return Errorf(EINVALID, "monthly volume cannot be negative")
	}
	return nil
}

// MonthlyCostMicros returns the projected monthly cost of the entry.
func (c *CostEntry) MonthlyCostMicros() int64 {
	return c.UnitCostMicros * c.MonthlyVolume
}

// CostService represents a service for managing cost entries.
type CostService interface {
	// CreateCostEntry records a cost entry.
	CreateCostEntry(ctx context.Context, entry *CostEntry) error

	// FindCostEntries retrieves entries matching the filter.
	FindCostEntries(ctx context.Context, filter CostFilter) ([]*CostEntry, error)

	// DeleteCostEntry permanently removes a cost entry.
	// Returns ENOTFOUND if it does not exist.
	DeleteCostEntry(ctx context.Context, id string) error
}

// CostFilter represents a filter for FindCostEntries.
type CostFilter struct {
	ID        *string `json:"id"`
	APIID     *string `json:"apiId"`
	Operation *string `json:"operation"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// CostComparison ranks providers for a single operation by projected
// monthly cost.
type CostComparison struct {
	Operation string       `json:"operation"`
	Options   []CostOption `json:"options"` // ascending by monthly cost
}

// CostOption is one provider's cost for an operation.
type CostOption struct {
	APIID             string `json:"apiId"`
	APIName           string `json:"apiName"`
	Unit              string `json:"unit"`
	UnitCostMicros    int64  `json:"unitCostMicros"`
	MonthlyVolume     int64  `json:"monthlyVolume"`
	MonthlyCostMicros int64  `json:"monthlyCostMicros"`
	Cheapest          bool   `json:"cheapest"`

	// SavingsMicros is the monthly saving of the cheapest option
	// relative to this one. Zero for the cheapest option itself.
	SavingsMicros int64 `json:"savingsMicros"`
}

// CompareCosts groups cost entries by operation and ranks the
// providers of each operation by projected monthly cost, ascending.
// Ties are broken by API name for stable output. apiName resolves an
// API ID to a display name; it may be nil.
func CompareCosts(entries []*CostEntry, apiName func(apiID string) string) []CostComparison {
	if apiName == nil {
		apiName = func(id string) string { return id }
	}

	byOp := make(map[string][]CostOption)
	for _, e := range entries {
		byOp[e.Operation] = append(byOp[e.Operation], CostOption{
			APIID:             e.APIID,
			APIName:           apiName(e.APIID),
			Unit:              e.Unit,
			UnitCostMicros:    e.UnitCostMicros,
			MonthlyVolume:     e.MonthlyVolume,
			MonthlyCostMicros: e.MonthlyCostMicros(),
		})
	}

	ops := make([]string, 0, len(byOp))
	for op := range byOp {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	comparisons := make([]CostComparison, 0, len(ops))
	for _, op := range ops {
		options := byOp[op]
		sort.Slice(options, func(i, j int) bool {
			if options[i].MonthlyCostMicros != options[j].MonthlyCostMicros {
				return options[i].MonthlyCostMicros < options[j].MonthlyCostMicros
			}
			return options[i].APIName < options[j].APIName
		})

		cheapest := options[0].MonthlyCostMicros
		options[0].Cheapest = true
		for i := range options {
			options[i].SavingsMicros = options[i].MonthlyCostMicros - cheapest
		}

		comparisons = append(comparisons, CostComparison{Operation: op, Options: options})
	}

	return comparisons
}

// FormatMicros renders a micro-dollar amount as a dollar string, e.g.
// 1250000 → "$1.25". Sub-cent precision is kept only when present.
func FormatMicros(micros int64) string {
	sign := ""
	if micros < 0 {
		sign = "-"
		micros = -micros
	}
	dollars := micros / 1_000_000
	rem := micros % 1_000_000
	if rem == 0 {
		return fmt.Sprintf("%s$%d", sign, dollars)
	}
	if rem%10_000 == 0 {
		return fmt.Sprintf("%s$%d.%02d", sign, dollars, rem/10_000)
	}
	s := fmt.Sprintf("%s$%d.%06d", sign, dollars, rem)
	for s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	return s
}
