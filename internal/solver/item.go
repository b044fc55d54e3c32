// Package solver places a candidate item set into one autoclave. It offers
// two engines — a multi-start greedy search standing in for the exact model,
// and a bottom-left-fill / skyline heuristic — chosen by the
// acceptance-threshold rule in spec.md
// §4.5, plus a last-resort row-major packer for when both produce nothing.
//
// The teacher's duck-typed packing dictionaries (internal/engine/optimizer.go)
// are replaced by the single Item record spec.md §9 calls for, so every
// engine shares one shape.
package solver

import "github.com/cureops/autobatch/internal/planmodel"

// Item is the solver's single input shape: one tool from one work-order,
// with the resource demand and elevation flag needed to place it.
type Item struct {
	WorkOrderID string
	ToolID      string
	Width       float64
	Height      float64
	VacuumLines int
	Elevated    bool
}

func (it Item) area() float64 { return it.Width * it.Height }

// Constraints bundles the geometric/resource knobs a Solve call needs.
type Constraints struct {
	BorderMargin    float64
	Clearance       float64
	AllowRotation   bool
	AcceptThreshold float64 // heuristic efficiency floor before trying the exact model
	TimeCapSeconds  float64
	Workers         int
}

// Autoclave is the minimal shape Solve needs from planmodel.Autoclave.
type Autoclave struct {
	ID          string
	Width       float64
	Height      float64
	VacuumLines int
}

func fromPlanAutoclave(a planmodel.Autoclave) Autoclave {
	return Autoclave{ID: a.ID, Width: a.Width, Height: a.Height, VacuumLines: a.VacuumLines}
}

// Result is what a packing engine produces for one attempt.
type Result struct {
	Placements []planmodel.Placement
	Partial    bool // true if the exact model hit its wall-clock cap
}

// PlacedArea sums the footprint area of every placement.
func (r Result) PlacedArea() float64 {
	var total float64
	for _, p := range r.Placements {
		total += p.Width * p.Height
	}
	return total
}

// VacuumLinesUsed sums vacuum demand across distinct work-orders that
// contributed a placement.
func (r Result) VacuumLinesUsed(items []Item) int {
	byWO := make(map[string]int, len(items))
	for _, it := range items {
		byWO[it.WorkOrderID] = it.VacuumLines
	}
	seen := make(map[string]bool, len(r.Placements))
	total := 0
	for _, p := range r.Placements {
		if !seen[p.WorkOrderID] {
			seen[p.WorkOrderID] = true
			total += byWO[p.WorkOrderID]
		}
	}
	return total
}
