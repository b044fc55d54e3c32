package solver

import (
	"math"
	"sort"

	"github.com/cureops/autobatch/internal/geometry"
	"github.com/cureops/autobatch/internal/planmodel"
)

// itemState is the per-item lifecycle the heuristic packer drives items
// through, per spec.md §4.5: pending -> (rejected_capacity | placed*).
// There is no transition out of a placed state.
type itemState int

const (
	statePending itemState = iota
	stateRejectedCapacity
	statePlaced
)

// point is a packing candidate position.
type point struct{ x, y float64 }

const emptyCellSize = 50.0

// heuristicPack runs bottom-left-fill on a candidate-point set: the
// border-offset origin (β, β) plus, for every already-placed rectangle, three
// derived points (right-edge, top-edge, and the corner of both), each
// offset by the clearance. Among feasible candidates (and both
// rotations, when allowed) it picks the one minimising
// x + y + 0.01*empty_cells, where empty_cells counts uncovered 50x50
// cells to the left and below the candidate box.
//
// Grounded on the teacher's guillotinePacker (internal/engine/optimizer.go):
// the best-area-fit free-rect search there is replaced by the spec's
// explicit candidate-point enumeration, but the "smallest waste wins" and
// "reject on containment or overlap" shape is the same.
func heuristicPack(items []Item, ac Autoclave, c Constraints) Result {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].area() > sorted[j].area()
	})

	var placedBoxes []geometry.Box
	var placements []planmodel.Placement
	states := make([]itemState, len(sorted))

	vacuumUsed := 0
	woContributed := make(map[string]bool)
	woVacuum := make(map[string]int)
	for _, it := range sorted {
		woVacuum[it.WorkOrderID] = it.VacuumLines
	}

	for i, it := range sorted {
		additionalVacuum := 0
		if !woContributed[it.WorkOrderID] {
			additionalVacuum = it.VacuumLines
		}
		if vacuumUsed+additionalVacuum > ac.VacuumLines {
			states[i] = stateRejectedCapacity
			continue
		}

		best, ok := bestCandidate(it, placedBoxes, ac, c)
		if !ok {
			continue
		}

		placedBoxes = append(placedBoxes, best.box)
		placements = append(placements, planmodel.Placement{
			WorkOrderID: it.WorkOrderID,
			ToolID:      it.ToolID,
			X:           best.box.X,
			Y:           best.box.Y,
			Width:       best.box.W,
			Height:      best.box.H,
			Rotated:     best.rotated,
			Level:       levelOf(it),
		})
		states[i] = statePlaced

		if !woContributed[it.WorkOrderID] {
			woContributed[it.WorkOrderID] = true
			vacuumUsed += woVacuum[it.WorkOrderID]
		}
	}

	return Result{Placements: placements}
}

func levelOf(it Item) int {
	if it.Elevated {
		return 1
	}
	return 0
}

type candidateFit struct {
	box     geometry.Box
	rotated bool
	waste   float64
}

// bestCandidate enumerates candidate points and both rotations (when
// allowed), rejects infeasible placements, and returns the lowest-waste
// survivor.
func bestCandidate(it Item, placed []geometry.Box, ac Autoclave, c Constraints) (candidateFit, bool) {
	points := candidatePoints(placed, c.BorderMargin, c.Clearance)

	rotations := []bool{false}
	if c.AllowRotation && it.Width != it.Height {
		rotations = append(rotations, true)
	}

	var best candidateFit
	found := false

	for _, rotated := range rotations {
		w, h := geometry.RotatedDims(it.Width, it.Height, rotated)
		for _, p := range points {
			box := geometry.Box{X: p.x, Y: p.y, W: w, H: h}

			if !geometry.FitsInAutoclave(box, ac.Width, ac.Height, c.BorderMargin) {
				continue
			}
			if overlapsAny(box, placed, c.Clearance) {
				continue
			}

			waste := box.X + box.Y + 0.01*emptyCells(box, placed)
			if !found || waste < best.waste {
				best = candidateFit{box: box, rotated: rotated, waste: waste}
				found = true
			}
		}
	}

	return best, found
}

// candidatePoints returns the border-offset origin (border, border) plus, for each placed box,
// its three derived points per spec.md §4.5: right-edge+gap at the same y,
// same x at top-edge+gap, and both offsets combined.
func candidatePoints(placed []geometry.Box, border, gap float64) []point {
	points := []point{{x: border, y: border}}
	for _, b := range placed {
		points = append(points,
			point{x: b.Right() + gap, y: b.Y},
			point{x: b.X, y: b.Top() + gap},
			point{x: b.Right() + gap, y: b.Top() + gap},
		)
	}
	return dedupeWithin1mm(points)
}

// dedupeWithin1mm collapses points within 1mm of one another, per spec.md's
// "two positions within 1 mm are considered equal" numeric semantics.
func dedupeWithin1mm(points []point) []point {
	var out []point
	for _, p := range points {
		dup := false
		for _, q := range out {
			if math.Abs(p.x-q.x) < 1 && math.Abs(p.y-q.y) < 1 {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

func overlapsAny(box geometry.Box, placed []geometry.Box, clearance float64) bool {
	for _, p := range placed {
		if geometry.OverlapWithGap(box, p, clearance) {
			return true
		}
	}
	return false
}

// emptyCells counts uncovered 50x50mm cells to the left of and below the
// candidate box, within the rectangle spanned by the origin and the box.
func emptyCells(box geometry.Box, placed []geometry.Box) float64 {
	count := 0.0
	for y := 0.0; y < box.Y; y += emptyCellSize {
		for x := 0.0; x < box.X; x += emptyCellSize {
			cell := geometry.Box{X: x, Y: y, W: emptyCellSize, H: emptyCellSize}
			if !overlapsAny(cell, placed, 0) {
				count++
			}
		}
	}
	return count
}
