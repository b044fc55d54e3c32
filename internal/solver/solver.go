package solver

import (
	"context"

	"github.com/cureops/autobatch/internal/planmodel"
)

// SolveOutcome reports which engine produced the returned Result, for
// callers that want to log or audit the choice.
type SolveOutcome struct {
	Result   Result
	Engine   string // "heuristic", "exact", or "row_major"
	Attempt  bool   // false when Solve produced nothing at all
}

// Solve places items into ac under the given constraints. The heuristic
// engine runs first as the fast path; the exact model is invoked only when
// the heuristic's efficiency falls below AcceptThreshold or the caller
// forces it, matching spec.md §4.5. When neither produces a placement, a
// row-major packer is tried as a last resort. Solve returns Attempt=false
// only when every engine placed nothing.
func Solve(ctx context.Context, items []Item, autoclave planmodel.Autoclave, c Constraints, forceExact bool) SolveOutcome {
	ac := fromPlanAutoclave(autoclave)

	heuristicResult := heuristicPack(items, ac, c)
	heuristicEff := efficiency(heuristicResult, ac)

	if len(heuristicResult.Placements) > 0 && heuristicEff >= c.AcceptThreshold && !forceExact {
		return SolveOutcome{Result: heuristicResult, Engine: "heuristic", Attempt: true}
	}

	exactResult := exactPack(ctx, items, ac, c)
	if len(exactResult.Placements) > 0 {
		if len(heuristicResult.Placements) == 0 || better(exactResult, heuristicResult, items) {
			return SolveOutcome{Result: exactResult, Engine: "exact", Attempt: true}
		}
		return SolveOutcome{Result: heuristicResult, Engine: "heuristic", Attempt: true}
	}

	if len(heuristicResult.Placements) > 0 {
		return SolveOutcome{Result: heuristicResult, Engine: "heuristic", Attempt: true}
	}

	rowMajor := rowMajorPack(items, ac, c)
	if len(rowMajor.Placements) > 0 {
		return SolveOutcome{Result: rowMajor, Engine: "row_major", Attempt: true}
	}

	return SolveOutcome{Attempt: false}
}

func efficiency(r Result, ac Autoclave) float64 {
	area := ac.Width * ac.Height
	if area <= 0 {
		return 0
	}
	return r.PlacedArea() / area
}

// ItemsFromWorkOrders flattens a set of work-orders into solver items,
// applying the elevated-tool map produced by the elevation selector.
func ItemsFromWorkOrders(wos []planmodel.WorkOrder, elevated map[string][]string) []Item {
	var items []Item
	for _, wo := range wos {
		elevatedSet := make(map[string]bool, len(elevated[wo.ID]))
		for _, id := range elevated[wo.ID] {
			elevatedSet[id] = true
		}
		for _, tool := range wo.Tools {
			items = append(items, Item{
				WorkOrderID: wo.ID,
				ToolID:      tool.ID,
				Width:       tool.Width,
				Height:      tool.Height,
				VacuumLines: wo.VacuumLines,
				Elevated:    elevatedSet[tool.ID],
			})
		}
	}
	return items
}
