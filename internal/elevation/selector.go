// Package elevation ranks tools for second-level placement, grounded on
// original_source's ElevatedSupportFilter and spec.md §4.3.
package elevation

import (
	"math"
	"sort"

	"github.com/cureops/autobatch/internal/planmodel"
)

// candidate bundles a tool with its owning work-order for ranking.
type candidate struct {
	workOrderID string
	tool        planmodel.Tool
	score       float64
}

// Select ranks every tool across every work-order and returns the top
// ceil(p*N) as elevated, plus the elevated share of total area expressed
// as a percentage rounded to one decimal. Ties are broken by area
// descending, then tool ID lexicographically.
func Select(wos []planmodel.WorkOrder, p float64) (map[string][]string, float64) {
	var candidates []candidate
	var totalArea float64
	for _, wo := range wos {
		for _, tool := range wo.Tools {
			candidates = append(candidates, candidate{
				workOrderID: wo.ID,
				tool:        tool,
				score:       elevationScore(tool),
			})
			totalArea += tool.Area()
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].tool.Area() != candidates[j].tool.Area() {
			return candidates[i].tool.Area() > candidates[j].tool.Area()
		}
		return candidates[i].tool.ID < candidates[j].tool.ID
	})

	n := int(math.Ceil(p * float64(len(candidates))))
	if n > len(candidates) {
		n = len(candidates)
	}
	if n < 0 {
		n = 0
	}

	elevated := make(map[string][]string)
	var elevatedArea float64
	for _, c := range candidates[:n] {
		elevated[c.workOrderID] = append(elevated[c.workOrderID], c.tool.ID)
		elevatedArea += c.tool.Area()
	}

	percent := 0.0
	if totalArea > 0 {
		percent = roundTo(elevatedArea/totalArea*100, 1)
	}

	return elevated, percent
}

// elevationScore implements spec.md §4.3.
func elevationScore(t planmodel.Tool) float64 {
	areaS := math.Min(1, t.Area()/1e6)
	aspectS := math.Min(1, (t.Aspect()-1)/2)

	wtS := 0.8
	if t.Weight > 0 {
		wtS = math.Max(0, 1-t.Weight/100)
	}

	bonus := 0.0
	if t.Area() >= 5e5 {
		bonus += 0.2
	}
	if t.Aspect() >= 1.5 {
		bonus += 0.1
	}

	score := 0.4*areaS + 0.3*aspectS + 0.2*wtS + bonus
	return roundTo(score, 3)
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
