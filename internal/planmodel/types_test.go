package planmodel

import (
	"testing"

	"github.com/cureops/autobatch/internal/planerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolAreaAndAspect(t *testing.T) {
	tool := NewTool(600, 400, 12.5)
	assert.Equal(t, 240000.0, tool.Area())
	assert.InDelta(t, 1.5, tool.Aspect(), 1e-9)

	square := NewTool(500, 500, 0)
	assert.InDelta(t, 1.0, square.Aspect(), 1e-9)
}

func TestWorkOrderTotals(t *testing.T) {
	wo := NewWorkOrder("WO-1", "PN-1", "C1", 2, []Tool{
		NewTool(600, 400, 10),
		NewTool(300, 300, 5),
	})
	assert.Equal(t, 240000.0+90000.0, wo.TotalArea())
	assert.Equal(t, 15.0, wo.TotalWeight())
}

func TestBatchLayoutEfficiencyRoundsToThreeDecimals(t *testing.T) {
	batch := BatchLayout{
		Placements: []Placement{
			{Width: 600, Height: 400},
			{Width: 600, Height: 400},
			{Width: 600, Height: 400},
			{Width: 600, Height: 400},
		},
	}
	eff := batch.Efficiency(2000 * 1500)
	require.InDelta(t, 0.320, eff, 1e-9)
}

func TestBatchLayoutWorkOrderIDsDeduped(t *testing.T) {
	batch := BatchLayout{
		Placements: []Placement{
			{WorkOrderID: "a", ToolID: "t1"},
			{WorkOrderID: "a", ToolID: "t2"},
			{WorkOrderID: "b", ToolID: "t3"},
		},
	}
	assert.Equal(t, []string{"a", "b"}, batch.WorkOrderIDs())
}

func TestValidateInputsAcceptsWellFormedData(t *testing.T) {
	ac := NewAutoclave("AC", 2000, 1500, 4)
	wo := NewWorkOrder("WO1", "PN1", "C", 1, []Tool{NewTool(600, 400, 10)})
	err := ValidateInputs([]WorkOrder{wo}, []Autoclave{ac})
	require.NoError(t, err)
}

func TestValidateInputsRejectsNegativeToolDimension(t *testing.T) {
	ac := NewAutoclave("AC", 2000, 1500, 4)
	wo := NewWorkOrder("WO1", "PN1", "C", 1, []Tool{NewTool(-100, 400, 10)})
	err := ValidateInputs([]WorkOrder{wo}, []Autoclave{ac})
	require.Error(t, err)
	assert.True(t, planerr.Is(err, planerr.KindInputInvalid))
}

func TestValidateInputsRejectsZeroVacuumDemand(t *testing.T) {
	ac := NewAutoclave("AC", 2000, 1500, 4)
	wo := NewWorkOrder("WO1", "PN1", "C", 0, []Tool{NewTool(600, 400, 10)})
	err := ValidateInputs([]WorkOrder{wo}, []Autoclave{ac})
	require.Error(t, err)
	assert.True(t, planerr.Is(err, planerr.KindInputInvalid))
}

func TestValidateInputsRejectsZeroCapacityAutoclave(t *testing.T) {
	ac := NewAutoclave("AC", 0, 1500, 4)
	wo := NewWorkOrder("WO1", "PN1", "C", 1, []Tool{NewTool(600, 400, 10)})
	err := ValidateInputs([]WorkOrder{wo}, []Autoclave{ac})
	require.Error(t, err)
	assert.True(t, planerr.Is(err, planerr.KindInputInvalid))
}

func TestValidateInputsRejectsToolThatFitsNoAutoclaveAlone(t *testing.T) {
	ac := NewAutoclave("AC", 2000, 1500, 4)
	wo := NewWorkOrder("WO1", "PN1", "C", 1, []Tool{NewTool(5000, 5000, 10)})
	err := ValidateInputs([]WorkOrder{wo}, []Autoclave{ac})
	require.Error(t, err)
	assert.True(t, planerr.Is(err, planerr.KindInputInvalid))
}

func TestValidateInputsAllowsRotatedFit(t *testing.T) {
	ac := NewAutoclave("AC", 2000, 1500, 4)
	wo := NewWorkOrder("WO1", "PN1", "C", 1, []Tool{NewTool(1500, 1900, 10)})
	err := ValidateInputs([]WorkOrder{wo}, []Autoclave{ac})
	require.NoError(t, err)
}
