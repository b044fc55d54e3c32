package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cureops/autobatch/internal/planmodel"
)

// toolInput/workOrderInput/autoclaveInput are the CLI's JSON wire shapes;
// they omit IDs so every load stamps fresh ones via planmodel's
// constructors, matching the teacher's "ID generated by service" CLI idiom.
type toolInput struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

type workOrderInput struct {
	Number      string      `json:"number"`
	PartNumber  string      `json:"part_number"`
	CuringCycle string      `json:"curing_cycle"`
	VacuumLines int         `json:"vacuum_lines"`
	Tools       []toolInput `json:"tools"`
}

type autoclaveInput struct {
	Code        string   `json:"code"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	VacuumLines int      `json:"vacuum_lines"`
	MaxWeight   *float64 `json:"max_weight,omitempty"`
}

type runInput struct {
	WorkOrders []workOrderInput `json:"work_orders"`
	Autoclaves []autoclaveInput `json:"autoclaves"`

	// SelectedCycles restricts execute to a subset of curing cycles
	// (spec.md §6). Caller-supplied cycle codes survive toDomain
	// unchanged, unlike work-order/tool/autoclave IDs which are
	// regenerated on load, so this is the one override the CLI wire
	// format can express directly.
	SelectedCycles []string `json:"selected_cycles,omitempty"`
}

func loadRunInput(path string) (runInput, error) {
	var in runInput
	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read input file: %w", err)
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse input file: %w", err)
	}
	return in, nil
}

func (in runInput) toDomain() ([]planmodel.WorkOrder, []planmodel.Autoclave) {
	wos := make([]planmodel.WorkOrder, 0, len(in.WorkOrders))
	for _, w := range in.WorkOrders {
		tools := make([]planmodel.Tool, 0, len(w.Tools))
		for _, t := range w.Tools {
			tools = append(tools, planmodel.NewTool(t.Width, t.Height, t.Weight))
		}
		wos = append(wos, planmodel.NewWorkOrder(w.Number, w.PartNumber, w.CuringCycle, w.VacuumLines, tools))
	}

	autoclaves := make([]planmodel.Autoclave, 0, len(in.Autoclaves))
	for _, a := range in.Autoclaves {
		ac := planmodel.NewAutoclave(a.Code, a.Width, a.Height, a.VacuumLines)
		ac.MaxWeight = a.MaxWeight
		autoclaves = append(autoclaves, ac)
	}

	return wos, autoclaves
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
