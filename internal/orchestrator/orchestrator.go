// Package orchestrator ties the cycle analyzer, elevation selector,
// autoclave assigner, batch builder, and lock registry into the two
// entrypoints a caller needs: a read-only Analyze preview and a full
// Execute run. CompareScenarios is adapted from the teacher's
// internal/engine/compare.go side-by-side scenario runner.
package orchestrator

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/cureops/autobatch/internal/assign"
	"github.com/cureops/autobatch/internal/batch"
	"github.com/cureops/autobatch/internal/cycle"
	"github.com/cureops/autobatch/internal/elevation"
	"github.com/cureops/autobatch/internal/geometry"
	"github.com/cureops/autobatch/internal/lockreg"
	"github.com/cureops/autobatch/internal/obslog"
	"github.com/cureops/autobatch/internal/planerr"
	"github.com/cureops/autobatch/internal/planmodel"
	"github.com/cureops/autobatch/internal/solver"
)

// Orchestrator wires the pipeline stages together for one logical run.
type Orchestrator struct {
	locks  lockreg.Registry
	logger *zap.Logger
}

// New constructs an Orchestrator. A nil logger defaults to a no-op one so
// callers that don't care about logging (most tests) don't have to build
// one.
func New(locks lockreg.Registry, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{locks: locks, logger: logger}
}

// AnalysisReport is Analyze's read-only result: it never touches the lock
// registry or invokes the solver, so it is safe to call repeatedly while
// exploring "what if" groupings before committing to Execute.
type AnalysisReport struct {
	Groups          []planmodel.CycleGroup
	RecommendedCodes []string
	ElevatedTools    map[string][]string
	ElevatedPercent  float64
	Assignment       map[string]string
	AssignmentNotes  []planmodel.Assignment
}

// Analyze groups work-orders by curing cycle, ranks elevation candidates,
// and proposes a cycle->autoclave assignment, without placing anything.
func (o *Orchestrator) Analyze(wos []planmodel.WorkOrder, autoclaves []planmodel.Autoclave, elevationCap float64) AnalysisReport {
	groups, recommended := cycle.Analyze(wos)
	elevated, elevatedPct := elevation.Select(wos, elevationCap)
	assignment, notes := assign.Assign(groups, autoclaves)

	return AnalysisReport{
		Groups:           groups,
		RecommendedCodes: recommended,
		ElevatedTools:    elevated,
		ElevatedPercent:  elevatedPct,
		Assignment:       assignment,
		AssignmentNotes:  notes,
	}
}

// ExecuteRequest is Execute's input envelope (spec.md §6): the work-orders
// and autoclaves to plan over, the constraint bundle to plan under, and
// three optional overrides that bypass the corresponding Analyze step
// instead of recomputing it: SelectedCycles restricts planning to a subset
// of cycle codes, ElevatedToolIDs substitutes for the elevation selector,
// and CycleToAutoclave substitutes for the autoclave assigner. A zero-value
// override (nil) means "compute it as Analyze would."
type ExecuteRequest struct {
	WorkOrders  []planmodel.WorkOrder
	Autoclaves  []planmodel.Autoclave
	Constraints planmodel.ConstraintBundle

	SelectedCycles   []string
	ElevatedToolIDs  map[string][]string
	CycleToAutoclave map[string]string
}

// ExecuteResult is Execute's output: the ranked batch list plus aggregate
// metrics.
type ExecuteResult = planmodel.RunMetrics

// Execute runs the full pipeline: analysis (or the caller's overrides),
// lock validation, per-(cycle, autoclave) batch construction, a post-solve
// invariant audit, and lock registration for every batch produced. B1: an
// empty work-order list returns zero-value metrics with no error.
func (o *Orchestrator) Execute(ctx context.Context, req ExecuteRequest) (ExecuteResult, error) {
	wos, autoclaves, c := req.WorkOrders, req.Autoclaves, req.Constraints

	if len(wos) == 0 {
		return planmodel.RunMetrics{}, nil
	}
	if len(autoclaves) == 0 {
		return planmodel.RunMetrics{}, planerr.InputInvalid("autoclaves", "at least one autoclave is required")
	}
	if err := planmodel.ValidateInputs(wos, autoclaves); err != nil {
		return planmodel.RunMetrics{}, err
	}

	if len(req.SelectedCycles) > 0 {
		wos = filterByCycles(wos, req.SelectedCycles)
		if len(wos) == 0 {
			return planmodel.RunMetrics{}, nil
		}
	}

	woIDs := make([]string, 0, len(wos))
	for _, wo := range wos {
		woIDs = append(woIDs, wo.ID)
	}
	validIDs, warnings, lockErr := o.locks.Validate(woIDs)
	for _, w := range warnings {
		o.logger.Warn("lock validation warning", zap.String("detail", w))
	}
	if lockErr != nil {
		o.logger.Warn("one or more work-orders dropped by lock validation", zap.Error(lockErr))
	}
	validSet := make(map[string]bool, len(validIDs))
	for _, id := range validIDs {
		validSet[id] = true
	}
	wos = filterByValidIDs(wos, validSet)
	if len(wos) == 0 {
		return planmodel.RunMetrics{WorkOrdersIn: len(woIDs)}, lockErr
	}

	groups, _ := cycle.Analyze(wos)

	elevatedTools := req.ElevatedToolIDs
	if elevatedTools == nil {
		elevatedTools, _ = elevation.Select(wos, c.ElevationCap)
	}

	assignment := req.CycleToAutoclave
	var assignmentNotes []planmodel.Assignment
	if assignment == nil {
		assignment, assignmentNotes = assign.Assign(groups, autoclaves)
	}

	acByID := make(map[string]planmodel.Autoclave, len(autoclaves))
	for _, ac := range autoclaves {
		acByID[ac.ID] = ac
	}

	// The solver's wall-clock budget is hard-capped at 300 s per run.
	const maxSolverTimeCapSeconds = 300.0
	timeCap := c.SolverTimeCap
	if timeCap > maxSolverTimeCapSeconds {
		timeCap = maxSolverTimeCapSeconds
	}

	solverConstraints := solver.Constraints{
		BorderMargin:    c.BorderMargin,
		Clearance:       c.Clearance,
		AllowRotation:   c.AllowRotation,
		AcceptThreshold: c.AcceptThreshold,
		TimeCapSeconds:  timeCap,
		Workers:         c.SolverWorkers,
	}

	var allBatches []planmodel.BatchLayout
	for _, g := range groups {
		acID, ok := assignment[g.CycleCode]
		if !ok {
			continue
		}
		ac := acByID[acID]

		batches := batch.Build(ctx, g.CycleCode, g.WorkOrders, ac, elevatedTools, solverConstraints)
		allBatches = append(allBatches, batches...)
	}

	if err := auditInvariants(allBatches, acByID); err != nil {
		o.logger.Error("invariant audit failed", zap.Error(err))
		return planmodel.RunMetrics{}, err
	}

	sort.SliceStable(allBatches, func(i, j int) bool {
		effI := allBatches[i].Efficiency(acByID[allBatches[i].AutoclaveID].Area())
		effJ := allBatches[j].Efficiency(acByID[allBatches[j].AutoclaveID].Area())
		return effI > effJ
	})

	metrics := planmodel.RunMetrics{
		WorkOrdersIn:    len(wos),
		CyclesProcessed: len(groups),
		BatchesProduced: len(allBatches),
		AssignmentNotes: assignmentNotes,
	}

	placedWOs := make(map[string]bool)
	for _, b := range allBatches {
		eff := b.Efficiency(acByID[b.AutoclaveID].Area())
		metrics.Batches = append(metrics.Batches, planmodel.BatchSummary{
			ID:            b.ID,
			Efficiency:    eff,
			WorkOrders:    len(b.WorkOrderIDs()),
			IsRecommended: eff >= 0.7,
		})
		if b.IsPartial {
			metrics.Partial = true
		}
		for _, id := range b.WorkOrderIDs() {
			placedWOs[id] = true
		}

		o.locks.RegisterBatch(b.ID, b.WorkOrderIDs())
	}
	metrics.WorkOrdersPlaced = len(placedWOs)

	o.logger.Info("run complete", obslog.RunFields("", metrics.WorkOrdersIn)...)

	return metrics, nil
}

func filterByCycles(wos []planmodel.WorkOrder, cycles []string) []planmodel.WorkOrder {
	keep := make(map[string]bool, len(cycles))
	for _, c := range cycles {
		keep[c] = true
	}
	out := make([]planmodel.WorkOrder, 0, len(wos))
	for _, wo := range wos {
		if keep[wo.CuringCycle] {
			out = append(out, wo)
		}
	}
	return out
}

func filterByValidIDs(wos []planmodel.WorkOrder, validIDs map[string]bool) []planmodel.WorkOrder {
	out := make([]planmodel.WorkOrder, 0, len(wos))
	for _, wo := range wos {
		if validIDs[wo.ID] {
			out = append(out, wo)
		}
	}
	return out
}

// auditInvariants re-checks every produced batch before Execute hands
// results back: each placement lies inside its autoclave, same-level
// placements do not overlap, and a work-order never appears in two batches
// (I4). Bounds and overlap are tested with zero margin and zero clearance,
// so the border margin (I1) and the clearance (I2) themselves are not
// re-checked. A failure here means the solver or batch builder produced an
// invalid layout, which is always a bug rather than a caller mistake.
func auditInvariants(batches []planmodel.BatchLayout, acByID map[string]planmodel.Autoclave) error {
	seenWO := make(map[string]string) // work-order ID -> batch ID

	for _, b := range batches {
		ac, ok := acByID[b.AutoclaveID]
		if !ok {
			return planerr.InvariantViolation(b.ID, "batch references an unknown autoclave")
		}

		for _, id := range b.WorkOrderIDs() {
			if other, dup := seenWO[id]; dup && other != b.ID {
				return planerr.InvariantViolation(id, fmt.Sprintf("work-order placed in batches %s and %s", other, b.ID))
			}
			seenWO[id] = b.ID
		}

		for i := 0; i < len(b.Placements); i++ {
			pi := b.Placements[i]
			boxI := geometry.Box{X: pi.X, Y: pi.Y, W: pi.Width, H: pi.Height}
			if !geometry.FitsInAutoclave(boxI, ac.Width, ac.Height, 0) {
				return planerr.InvariantViolation(pi.ToolID, "placement falls outside autoclave bounds")
			}
			for j := i + 1; j < len(b.Placements); j++ {
				pj := b.Placements[j]
				if pi.Level != pj.Level {
					continue
				}
				boxJ := geometry.Box{X: pj.X, Y: pj.Y, W: pj.Width, H: pj.Height}
				if geometry.OverlapWithGap(boxI, boxJ, 0) {
					return planerr.InvariantViolation(pi.ToolID, fmt.Sprintf("overlaps %s in batch %s", pj.ToolID, b.ID))
				}
			}
		}
	}

	return nil
}

// Scenario is one named constraint variant for CompareScenarios.
type Scenario struct {
	Name        string
	Constraints planmodel.ConstraintBundle
}

// ComparisonResult is one scenario's outcome alongside its derived stats.
type ComparisonResult struct {
	Scenario      Scenario
	Metrics       planmodel.RunMetrics
	AverageEfficiency float64
	Err           error
}

// CompareScenarios runs Execute once per scenario against the same
// work-orders and autoclaves, so a caller can compare constraint choices
// side by side — adapted from the teacher's CompareScenarios /
// BuildDefaultScenarios pair (internal/engine/compare.go).
func (o *Orchestrator) CompareScenarios(ctx context.Context, wos []planmodel.WorkOrder, autoclaves []planmodel.Autoclave, scenarios []Scenario) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, s := range scenarios {
		metrics, err := o.Execute(ctx, ExecuteRequest{
			WorkOrders:  wos,
			Autoclaves:  autoclaves,
			Constraints: s.Constraints,
		})
		avg := averageEfficiency(metrics.Batches)
		results = append(results, ComparisonResult{
			Scenario:          s,
			Metrics:           metrics,
			AverageEfficiency: avg,
			Err:               err,
		})

		// Comparison runs are exploratory, not a commitment: free each
		// scenario's locks immediately so the next scenario sees the same
		// unlocked work-orders rather than rejecting on a conflict with
		// itself.
		for _, b := range metrics.Batches {
			o.locks.ReleaseBatch(b.ID)
		}
	}

	return results
}

// BuildDefaultScenarios varies rotation and the elevation cap off a base
// bundle, mirroring the teacher's algorithm/kerf/edge-trim what-if set.
func BuildDefaultScenarios(base planmodel.ConstraintBundle) []Scenario {
	scenarios := []Scenario{{Name: "current settings", Constraints: base}}

	noRotation := base
	noRotation.AllowRotation = !base.AllowRotation
	rotationLabel := "rotation disabled"
	if noRotation.AllowRotation {
		rotationLabel = "rotation enabled"
	}
	scenarios = append(scenarios, Scenario{Name: rotationLabel, Constraints: noRotation})

	if base.ElevationCap > 0.1 {
		lowerCap := base
		lowerCap.ElevationCap = base.ElevationCap * 0.5
		scenarios = append(scenarios, Scenario{
			Name:        fmt.Sprintf("elevation cap %.2f (half)", lowerCap.ElevationCap),
			Constraints: lowerCap,
		})
	}

	return scenarios
}

func averageEfficiency(summaries []planmodel.BatchSummary) float64 {
	if len(summaries) == 0 {
		return 0
	}
	var total float64
	for _, s := range summaries {
		total += s.Efficiency
	}
	return total / float64(len(summaries))
}
