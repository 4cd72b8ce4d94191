package main

import (
	"fmt"

	"github.com/mstanek/apidex"
)

// Run executes the cost add command.
func (c *CostAddCmd) Run(deps *Dependencies) error {
	api, err := lookupAPI(deps, c.Name)
	if err != nil {
		return err
	}

	entry := &apidex.CostEntry{
		APIID:          api.ID,
		Operation:      c.Operation,
		Unit:           c.Unit,
		UnitCostMicros: c.UnitCost,
		MonthlyVolume:  c.MonthlyVolume,
		Notes:          c.Notes,
	}

	if err := deps.Costs.CreateCostEntry(deps.Ctx, entry); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Recorded %s per %s for %s %s", apidex.FormatMicros(entry.UnitCostMicros), entry.Unit, c.Name, c.Operation)
	if entry.MonthlyVolume > 0 {
		fmt.Fprintf(deps.Stdout, " (%s/mo at %d %ss)", apidex.FormatMicros(entry.MonthlyCostMicros()), entry.MonthlyVolume, entry.Unit)
	}
	fmt.Fprintln(deps.Stdout)
	return nil
}

// Run executes the cost compare command.
func (c *CostCompareCmd) Run(deps *Dependencies) error {
	filter := apidex.CostFilter{}
	if c.Operation != "" {
		filter.Operation = &c.Operation
	}

	entries, err := deps.Costs.FindCostEntries(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No cost entries recorded. Use 'apidex cost add' to track provider pricing.")
		return nil
	}

	apis, err := deps.APIs.FindAPIs(deps.Ctx, apidex.APIFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", apidex.ErrorMessage(err))
		return err
	}
	names := make(map[string]string, len(apis))
	for _, api := range apis {
		names[api.ID] = api.Name
	}

	comparisons := apidex.CompareCosts(entries, func(apiID string) string {
		if name, ok := names[apiID]; ok {
			return name
		}
		return apiID
	})

	for i, cmp := range comparisons {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprintf(deps.Stdout, "%s:\n", cmp.Operation)
		for _, opt := range cmp.Options {
			marker := " "
			if opt.Cheapest {
				marker = "*"
			}
			fmt.Fprintf(deps.Stdout, "  %s %-20s %s/mo (%s per %s x %d)",
				marker, opt.APIName, apidex.FormatMicros(opt.MonthlyCostMicros),
				apidex.FormatMicros(opt.UnitCostMicros), opt.Unit, opt.MonthlyVolume)
			if opt.SavingsMicros > 0 {
				fmt.Fprintf(deps.Stdout, "  +%s vs cheapest", apidex.FormatMicros(opt.SavingsMicros))
			}
			fmt.Fprintln(deps.Stdout)
		}
	}

	return nil
}
