// Package planmodel defines the value types shared by every stage of the
// curing-batch pipeline: tools, work-orders, autoclaves, placements, and
// the aggregate results the orchestrator returns. Entities are constructed
// once from caller input and never mutated; placements and batches are
// produced as new values by the solver and batch builder.
package planmodel

import (
	"github.com/google/uuid"

	"github.com/cureops/autobatch/internal/planerr"
)

// shortID mirrors the teacher's uuid.New().String()[:8] convention for
// human-scannable identifiers.
func shortID() string {
	return uuid.New().String()[:8]
}

// Tool is a physical fixture holding a part, the object actually packed.
// Immutable once created.
type Tool struct {
	ID     string
	Width  float64 // mm
	Height float64 // mm
	Weight float64 // kg, >= 0
}

// Area returns width * height.
func (t Tool) Area() float64 {
	return t.Width * t.Height
}

// Aspect returns max(W,H) / min(W,H).
func (t Tool) Aspect() float64 {
	if t.Width <= 0 || t.Height <= 0 {
		return 0
	}
	if t.Width >= t.Height {
		return t.Width / t.Height
	}
	return t.Height / t.Width
}

// WorkOrder references one or more tools to be cured together.
type WorkOrder struct {
	ID          string
	Number      string
	PartNumber  string
	CuringCycle string
	VacuumLines int // >= 1
	Tools       []Tool
}

// TotalArea sums the area of every tool on the work-order.
func (w WorkOrder) TotalArea() float64 {
	var total float64
	for _, t := range w.Tools {
		total += t.Area()
	}
	return total
}

// TotalWeight sums the weight of every tool on the work-order.
func (w WorkOrder) TotalWeight() float64 {
	var total float64
	for _, t := range w.Tools {
		total += t.Weight
	}
	return total
}

// Autoclave is a rectangular industrial oven bin into which tools are
// packed for curing.
type Autoclave struct {
	ID          string
	Code        string
	Width       float64 // interior width, mm
	Height      float64 // interior length, mm
	VacuumLines int     // capacity, >= 1
	MaxWeight   *float64
}

// Area returns width * height.
func (a Autoclave) Area() float64 {
	return a.Width * a.Height
}

// Placement is a single tool placed inside an autoclave.
type Placement struct {
	WorkOrderID string
	ToolID      string
	X, Y        float64 // lower-left corner, autoclave coordinates, mm
	Width       float64 // effective (post-rotation) width, mm
	Height      float64 // effective (post-rotation) height, mm
	Rotated     bool
	Level       int // 0 = ground, 1 = elevated
}

// Area returns the footprint area of the placement.
func (p Placement) Area() float64 {
	return p.Width * p.Height
}

// BatchLayout is one curing run: a set of placements inside one autoclave.
type BatchLayout struct {
	ID           string
	AutoclaveID  string
	CycleCode    string
	Placements   []Placement
	TotalWeight  float64
	VacuumLines  int
	IsPartial    bool // true if the solver hit its wall-clock cap
}

// Efficiency returns occupied area / autoclave area, rounded to 3 decimals
// (invariant I6 / spec property P6). autoclaveArea must be the area of the
// BatchLayout's autoclave.
func (b BatchLayout) Efficiency(autoclaveArea float64) float64 {
	if autoclaveArea <= 0 {
		return 0
	}
	var occupied float64
	for _, p := range b.Placements {
		occupied += p.Area()
	}
	return roundTo(occupied/autoclaveArea, 3)
}

// WorkOrderIDs returns the distinct set of work-order IDs contributing a
// placement to this batch, in first-seen order.
func (b BatchLayout) WorkOrderIDs() []string {
	seen := make(map[string]bool, len(b.Placements))
	var ids []string
	for _, p := range b.Placements {
		if !seen[p.WorkOrderID] {
			seen[p.WorkOrderID] = true
			ids = append(ids, p.WorkOrderID)
		}
	}
	return ids
}

// CycleGroup is the aggregate of every work-order sharing a curing cycle.
type CycleGroup struct {
	CycleCode  string
	WorkOrders []WorkOrder
	TotalArea  float64
	Score      float64 // in [0, 1], rounded to 3 decimals
}

// Assignment records which autoclave a cycle group was mapped to, and why.
type Assignment struct {
	CycleCode   string
	AutoclaveID string
	Reason      string
	WorkOrders  int
	TotalArea   float64
}

// ConstraintBundle holds the geometric and resource tolerances applied by
// the solver and batch builder. Zero values are not valid defaults — use
// config.Default() to obtain the spec's default bundle.
type ConstraintBundle struct {
	BorderMargin    float64 // β, mm
	Clearance       float64 // γ, mm
	AllowRotation   bool
	ElevationCap    float64 // p, fraction in (0, 1]
	SupportSpacing  float64 // mm, advisory only — never enforced by the solver
	SolverTimeCap   float64 // seconds, hard-capped at 300 by the orchestrator
	SolverWorkers   int     // worker-count hint for the exact solver's search
	AcceptThreshold float64 // heuristic-efficiency floor below which the exact model is tried
}

// BatchSummary is the orchestrator's compact per-batch report.
type BatchSummary struct {
	ID            string
	Efficiency    float64
	WorkOrders    int
	IsRecommended bool // efficiency >= 0.7
}

// RunMetrics aggregates the counters the orchestrator returns alongside
// the ranked batch list.
type RunMetrics struct {
	WorkOrdersIn      int
	WorkOrdersPlaced  int
	CyclesProcessed   int
	BatchesProduced   int
	Partial           bool
	Batches           []BatchSummary
	AssignmentNotes   []Assignment
}

func roundTo(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+0.5)) / scale
}

// NewTool constructs a Tool with a fresh short ID.
func NewTool(width, height, weight float64) Tool {
	return Tool{ID: shortID(), Width: width, Height: height, Weight: weight}
}

// NewWorkOrder constructs a WorkOrder with a fresh short ID.
func NewWorkOrder(number, partNumber, cycle string, vacuumLines int, tools []Tool) WorkOrder {
	return WorkOrder{
		ID:          shortID(),
		Number:      number,
		PartNumber:  partNumber,
		CuringCycle: cycle,
		VacuumLines: vacuumLines,
		Tools:       tools,
	}
}

// NewAutoclave constructs an Autoclave with a fresh short ID.
func NewAutoclave(code string, width, height float64, vacuumLines int) Autoclave {
	return Autoclave{
		ID:          shortID(),
		Code:        code,
		Width:       width,
		Height:      height,
		VacuumLines: vacuumLines,
	}
}

// ValidateInputs rejects the four documented Input-invalid cases before
// optimization begins: a negative tool dimension, a work-order with zero
// vacuum-line demand, an autoclave with zero capacity, and a work-order
// whose single largest tool cannot fit any autoclave even alone (ignoring
// border margin, since this is a coarse pre-flight check, not the solver).
func ValidateInputs(wos []WorkOrder, autoclaves []Autoclave) error {
	for _, ac := range autoclaves {
		if ac.Width <= 0 || ac.Height <= 0 || ac.VacuumLines <= 0 {
			return planerr.InputInvalid(ac.ID, "autoclave capacity must be greater than zero")
		}
	}

	for _, wo := range wos {
		if wo.VacuumLines <= 0 {
			return planerr.InputInvalid(wo.ID, "vacuum-line demand must be at least 1")
		}

		var largest Tool
		for _, t := range wo.Tools {
			if t.Width < 0 || t.Height < 0 {
				return planerr.InputInvalid(wo.ID, "tool dimensions must be non-negative")
			}
			if t.Area() > largest.Area() {
				largest = t
			}
		}

		if len(wo.Tools) == 0 {
			continue
		}
		if !fitsAnyAutoclaveAlone(largest, autoclaves) {
			return planerr.InputInvalid(wo.ID, "largest tool cannot fit any autoclave alone")
		}
	}

	return nil
}

func fitsAnyAutoclaveAlone(t Tool, autoclaves []Autoclave) bool {
	for _, ac := range autoclaves {
		if (t.Width <= ac.Width && t.Height <= ac.Height) || (t.Height <= ac.Width && t.Width <= ac.Height) {
			return true
		}
	}
	return false
}
