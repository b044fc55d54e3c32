package solver

import (
	"sort"

	"github.com/cureops/autobatch/internal/geometry"
	"github.com/cureops/autobatch/internal/planmodel"
)

// rowMajorPack is the literal "last resort" fallback spec.md §4.5 requires
// when both the heuristic and exact engines produce nothing: it lays items
// out left-to-right, wrapping to a new row when the current row is full,
// with no rotation search and no waste optimisation. This is deliberately
// simple — spec.md §9 explicitly does not ask for the teacher's abandoned
// "simplified" packer to be reproduced as a behaviour to preserve, only for
// a last-resort path to exist.
func rowMajorPack(items []Item, ac Autoclave, c Constraints) Result {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].area() > sorted[j].area()
	})

	var placements []planmodel.Placement
	x, y, rowHeight := c.BorderMargin, c.BorderMargin, 0.0

	vacuumUsed := 0
	woContributed := make(map[string]bool)

	for _, it := range sorted {
		additionalVacuum := 0
		if !woContributed[it.WorkOrderID] {
			additionalVacuum = it.VacuumLines
		}
		if vacuumUsed+additionalVacuum > ac.VacuumLines {
			continue
		}

		w, h := it.Width, it.Height

		if x+w > ac.Width-c.BorderMargin {
			x = c.BorderMargin
			y += rowHeight + c.Clearance
			rowHeight = 0
		}

		box := geometry.Box{X: x, Y: y, W: w, H: h}
		if !geometry.FitsInAutoclave(box, ac.Width, ac.Height, c.BorderMargin) {
			continue
		}

		placements = append(placements, planmodel.Placement{
			WorkOrderID: it.WorkOrderID,
			ToolID:      it.ToolID,
			X:           x,
			Y:           y,
			Width:       w,
			Height:      h,
			Rotated:     false,
			Level:       levelOf(it),
		})

		if !woContributed[it.WorkOrderID] {
			woContributed[it.WorkOrderID] = true
			vacuumUsed += it.VacuumLines
		}

		x += w + c.Clearance
		if h > rowHeight {
			rowHeight = h
		}
	}

	return Result{Placements: placements}
}
