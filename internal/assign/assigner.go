// Package assign maps curing-cycle groups onto autoclaves by size/count
// affinity, grounded on original_source's _assign_autoclaves_by_area_and_count
// and spec.md §4.4.
package assign

import (
	"fmt"
	"sort"

	"github.com/cureops/autobatch/internal/planmodel"
)

// Assign sorts cycles by priority (0.6*area + 0.4*1000*count) descending
// and autoclaves by area descending, then pairs them index by index.
// Cycles beyond len(autoclaves) are all assigned to the largest autoclave.
// Returns the cycle->autoclave map and a human-readable rationale list.
func Assign(groups []planmodel.CycleGroup, autoclaves []planmodel.Autoclave) (map[string]string, []planmodel.Assignment) {
	if len(autoclaves) == 0 {
		return map[string]string{}, nil
	}

	sortedGroups := make([]planmodel.CycleGroup, len(groups))
	copy(sortedGroups, groups)
	sort.SliceStable(sortedGroups, func(i, j int) bool {
		return priority(sortedGroups[i]) > priority(sortedGroups[j])
	})

	sortedAutoclaves := make([]planmodel.Autoclave, len(autoclaves))
	copy(sortedAutoclaves, autoclaves)
	sort.SliceStable(sortedAutoclaves, func(i, j int) bool {
		return sortedAutoclaves[i].Area() > sortedAutoclaves[j].Area()
	})

	largest := sortedAutoclaves[0]

	assignment := make(map[string]string, len(sortedGroups))
	var notes []planmodel.Assignment

	for i, g := range sortedGroups {
		var ac planmodel.Autoclave
		var reason string
		if i < len(sortedAutoclaves) {
			ac = sortedAutoclaves[i]
			reason = fmt.Sprintf(
				"cycle %s ranked #%d by priority (area %.0f mm², %d WOs); matched to autoclave %s ranked #%d by area (%.0f mm²)",
				g.CycleCode, i+1, g.TotalArea, len(g.WorkOrders), ac.Code, i+1, ac.Area(),
			)
		} else {
			ac = largest
			reason = fmt.Sprintf(
				"cycle %s ranked #%d by priority, beyond the %d available autoclaves; shared with the largest autoclave %s",
				g.CycleCode, i+1, len(sortedAutoclaves), ac.Code,
			)
		}

		assignment[g.CycleCode] = ac.ID
		notes = append(notes, planmodel.Assignment{
			CycleCode:   g.CycleCode,
			AutoclaveID: ac.ID,
			Reason:      reason,
			WorkOrders:  len(g.WorkOrders),
			TotalArea:   g.TotalArea,
		})
	}

	return assignment, notes
}

func priority(g planmodel.CycleGroup) float64 {
	return 0.6*g.TotalArea + 0.4*1000*float64(len(g.WorkOrders))
}
