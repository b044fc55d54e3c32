// Package batch repeatedly invokes the placement solver to build multiple
// batches for one (cycle, autoclave) pair, grounded on
// original_source's _create_multiple_batches_per_autoclave and the
// teacher's optimizeGuillotine outer retention loop
// (internal/engine/optimizer.go).
package batch

import (
	"context"
	"sort"

	"github.com/cureops/autobatch/internal/planmodel"
	"github.com/cureops/autobatch/internal/solver"
	"github.com/google/uuid"
)

// shortID mirrors planmodel's uuid.New().String()[:8] convention; batch IDs
// are stamped here rather than via a planmodel constructor since
// BatchLayout has no NewBatchLayout of its own.
func shortID() string {
	return uuid.New().String()[:8]
}

const (
	targetEfficiency        = 0.75
	minAcceptableEfficiency = 0.50
	minRetainedForRelaxed   = 3
)

// Build constructs batches for a single (cycle, autoclave, elevated-map)
// triple per spec.md §4.6. The outer retention loop is explicitly greedy
// and not globally optimal (spec.md §9) — it never retries a work-order
// removed from one batch attempt in the same call.
func Build(ctx context.Context, cycleCode string, wos []planmodel.WorkOrder, autoclave planmodel.Autoclave, elevated map[string][]string, c solver.Constraints) []planmodel.BatchLayout {
	remaining := make([]planmodel.WorkOrder, len(wos))
	copy(remaining, wos)
	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].TotalArea() > remaining[j].TotalArea()
	})

	var batches []planmodel.BatchLayout

	for len(remaining) > 0 {
		if ctx.Err() != nil {
			break
		}

		retained, retainedOutcome := fillOneBatch(ctx, remaining, autoclave, elevated, c)

		if len(retained) == 0 {
			// Forcibly start a new batch with the single largest remaining WO.
			largest := remaining[0]
			outcome := attempt(ctx, []planmodel.WorkOrder{largest}, autoclave, elevated, c)
			remaining = remaining[1:]
			if outcome.Attempt {
				batches = append(batches, toBatchLayout(cycleCode, autoclave, outcome.Result, []planmodel.WorkOrder{largest}))
			}
			continue
		}

		batches = append(batches, toBatchLayout(cycleCode, autoclave, retainedOutcome.Result, retained))
		remaining = removeRetained(remaining, retained)
	}

	return batches
}

// fillOneBatch iterates the remaining work-orders once, tentatively adding
// each to the candidate set and invoking the solver, keeping it only when
// the resulting layout is valid and meets the retention rule.
func fillOneBatch(ctx context.Context, remaining []planmodel.WorkOrder, autoclave planmodel.Autoclave, elevated map[string][]string, c solver.Constraints) ([]planmodel.WorkOrder, solver.SolveOutcome) {
	var candidate []planmodel.WorkOrder
	var lastGoodOutcome solver.SolveOutcome

	for _, wo := range remaining {
		if ctx.Err() != nil {
			break
		}

		trial := append(append([]planmodel.WorkOrder{}, candidate...), wo)
		outcome := attempt(ctx, trial, autoclave, elevated, c)

		if !outcome.Attempt {
			continue
		}

		eff := outcome.Result.PlacedArea() / autoclave.Area()
		accept := eff >= targetEfficiency ||
			(eff >= minAcceptableEfficiency && len(candidate) >= minRetainedForRelaxed)

		if accept {
			candidate = trial
			lastGoodOutcome = outcome
		}
	}

	return candidate, lastGoodOutcome
}

// attempt runs the solver for a candidate set of work-orders.
func attempt(ctx context.Context, wos []planmodel.WorkOrder, autoclave planmodel.Autoclave, elevated map[string][]string, c solver.Constraints) solver.SolveOutcome {
	items := solver.ItemsFromWorkOrders(wos, elevated)
	return solver.Solve(ctx, items, autoclave, c, false)
}

func toBatchLayout(cycleCode string, autoclave planmodel.Autoclave, result solver.Result, wos []planmodel.WorkOrder) planmodel.BatchLayout {
	layout := planmodel.BatchLayout{
		ID:          shortID(),
		AutoclaveID: autoclave.ID,
		CycleCode:   cycleCode,
		Placements:  result.Placements,
		IsPartial:   result.Partial,
	}

	woByID := make(map[string]planmodel.WorkOrder, len(wos))
	for _, wo := range wos {
		woByID[wo.ID] = wo
	}
	for _, id := range layout.WorkOrderIDs() {
		if wo, ok := woByID[id]; ok {
			layout.TotalWeight += wo.TotalWeight()
			layout.VacuumLines += wo.VacuumLines
		}
	}

	return layout
}

func removeRetained(remaining, retained []planmodel.WorkOrder) []planmodel.WorkOrder {
	retainedIDs := make(map[string]bool, len(retained))
	for _, wo := range retained {
		retainedIDs[wo.ID] = true
	}
	var rest []planmodel.WorkOrder
	for _, wo := range remaining {
		if !retainedIDs[wo.ID] {
			rest = append(rest, wo)
		}
	}
	return rest
}
