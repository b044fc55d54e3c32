package solver

import (
	"context"
	"testing"

	"github.com/cureops/autobatch/internal/geometry"
	"github.com/cureops/autobatch/internal/planmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConstraints() Constraints {
	return Constraints{
		BorderMargin:    20,
		Clearance:       15,
		AllowRotation:   true,
		AcceptThreshold: 0.4,
		TimeCapSeconds:  1,
		Workers:         2,
	}
}

func testAutoclave() planmodel.Autoclave {
	return planmodel.NewAutoclave("AC", 2000, 1500, 4)
}

// S1: four 600x400 tools, v=1 each -> one batch, 4 placements, efficiency
// round(4*240000/3000000, 3) = 0.320.
func TestSolveScenarioS1(t *testing.T) {
	var items []Item
	for i := 0; i < 4; i++ {
		items = append(items, Item{WorkOrderID: "WO1", ToolID: "T" + string(rune('A'+i)), Width: 600, Height: 400, VacuumLines: 1})
	}
	ac := testAutoclave()
	out := Solve(context.Background(), items, ac, testConstraints(), false)

	require.True(t, out.Attempt)
	assert.Len(t, out.Result.Placements, 4)

	eff := roundTo(out.Result.PlacedArea()/ac.Area(), 3)
	assert.InDelta(t, 0.320, eff, 1e-9)

	assertNoOverlaps(t, out.Result.Placements, 15)
	assertWithinBounds(t, out.Result.Placements, ac, 20)
}

// S3: one 1800x1400 tool, v=4, alone -> placed at (20, 20), efficiency
// round(2520000/3000000, 3) = 0.840.
func TestSolveScenarioS3(t *testing.T) {
	items := []Item{{WorkOrderID: "WO1", ToolID: "T1", Width: 1800, Height: 1400, VacuumLines: 4}}
	ac := testAutoclave()
	out := Solve(context.Background(), items, ac, testConstraints(), false)

	require.True(t, out.Attempt)
	require.Len(t, out.Result.Placements, 1)
	p := out.Result.Placements[0]
	assert.InDelta(t, 20, p.X, 1e-6)
	assert.InDelta(t, 20, p.Y, 1e-6)

	eff := roundTo(out.Result.PlacedArea()/ac.Area(), 3)
	assert.InDelta(t, 0.840, eff, 1e-9)
}

// S4: three 900x900 tools (v=2) with V=4 -> at most two placed per batch
// (vacuum cap).
func TestSolveScenarioS4VacuumCap(t *testing.T) {
	items := []Item{
		{WorkOrderID: "WO1", ToolID: "T1", Width: 900, Height: 900, VacuumLines: 2},
		{WorkOrderID: "WO2", ToolID: "T2", Width: 900, Height: 900, VacuumLines: 2},
		{WorkOrderID: "WO3", ToolID: "T3", Width: 900, Height: 900, VacuumLines: 2},
	}
	ac := testAutoclave()
	out := Solve(context.Background(), items, ac, testConstraints(), false)

	require.True(t, out.Attempt)
	assert.LessOrEqual(t, len(out.Result.Placements), 2)
	assertNoOverlaps(t, out.Result.Placements, 15)
}

func TestSolveReturnsNoAttemptWhenNothingFits(t *testing.T) {
	items := []Item{{WorkOrderID: "WO1", ToolID: "T1", Width: 5000, Height: 5000, VacuumLines: 1}}
	ac := testAutoclave()
	out := Solve(context.Background(), items, ac, testConstraints(), false)
	assert.False(t, out.Attempt)
}

func assertNoOverlaps(t *testing.T, placements []planmodel.Placement, gap float64) {
	t.Helper()
	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			if placements[i].Level != placements[j].Level {
				continue
			}
			a := geometry.Box{X: placements[i].X, Y: placements[i].Y, W: placements[i].Width, H: placements[i].Height}
			b := geometry.Box{X: placements[j].X, Y: placements[j].Y, W: placements[j].Width, H: placements[j].Height}
			assert.False(t, geometry.OverlapWithGap(a, b, gap), "placements %d and %d overlap", i, j)
		}
	}
}

func assertWithinBounds(t *testing.T, placements []planmodel.Placement, ac planmodel.Autoclave, border float64) {
	t.Helper()
	for _, p := range placements {
		box := geometry.Box{X: p.X, Y: p.Y, W: p.Width, H: p.Height}
		assert.True(t, geometry.FitsInAutoclave(box, ac.Width, ac.Height, border))
	}
}

func roundTo(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	r := float64(int64(v*scale+0.5)) / scale
	return r
}
