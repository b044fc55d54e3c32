// Package cycle groups work-orders by curing-cycle code and scores each
// group for nesting viability, grounded on the teacher's groupByMaterial
// partitioning pass in internal/engine/optimizer.go generalized from
// material codes to curing-cycle codes, with the scoring formula from
// spec.md §4.2 / original_source's CuringCycleFilter.
package cycle

import (
	"math"
	"sort"

	"github.com/cureops/autobatch/internal/planmodel"
)

// Analyze partitions work-orders by curing-cycle code, scores each group,
// and returns the groups plus a recommended-cycle-code list.
//
// Recommendation cutoff is literal: every cycle scoring above 0.6, and
// then fill up to three entries if fewer qualify. This can surface four
// or more recommendations when many cycles score above 0.6 — that is
// preserved intentionally (spec.md §9 Open Question).
func Analyze(wos []planmodel.WorkOrder) (groups []planmodel.CycleGroup, recommended []string) {
	byCode := make(map[string][]planmodel.WorkOrder)
	var order []string
	for _, wo := range wos {
		if _, ok := byCode[wo.CuringCycle]; !ok {
			order = append(order, wo.CuringCycle)
		}
		byCode[wo.CuringCycle] = append(byCode[wo.CuringCycle], wo)
	}

	groups = make([]planmodel.CycleGroup, 0, len(order))
	for _, code := range order {
		members := byCode[code]
		totalArea := 0.0
		for _, wo := range members {
			totalArea += wo.TotalArea()
		}
		groups = append(groups, planmodel.CycleGroup{
			CycleCode:  code,
			WorkOrders: members,
			TotalArea:  totalArea,
			Score:      score(members),
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Score > groups[j].Score
	})

	for _, g := range groups {
		if g.Score > 0.6 || len(recommended) < 3 {
			recommended = append(recommended, g.CycleCode)
		}
	}

	return groups, recommended
}

// score implements spec.md §4.2: 0.4*quantity + 0.3*uniformity + 0.3*density.
func score(members []planmodel.WorkOrder) float64 {
	if len(members) == 0 {
		return 0
	}

	quantity := math.Min(1, math.Log(float64(len(members)+1))/math.Log(20))

	areas := make([]float64, len(members))
	var sumArea float64
	for i, wo := range members {
		areas[i] = wo.TotalArea()
		sumArea += areas[i]
	}
	meanArea := sumArea / float64(len(members))

	uniformity := 0.8
	if len(members) > 1 {
		var variance float64
		for _, a := range areas {
			d := a - meanArea
			variance += d * d
		}
		variance /= float64(len(members))
		stdDev := math.Sqrt(variance)
		cv := 1.0
		if meanArea > 0 {
			cv = stdDev / meanArea
		}
		uniformity = math.Max(0, 1-cv)
	}

	density := math.Max(0, 1-meanArea/1e5)

	s := 0.4*quantity + 0.3*uniformity + 0.3*density
	return roundTo(s, 3)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
