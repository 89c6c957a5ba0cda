package export

import (
	"encoding/json"
	"fmt"

	"offerplan/internal/core"
)

// jsonDocument pairs the raw plan data with the computed projections so
// the dump is useful without re-running the arithmetic elsewhere.
type jsonDocument struct {
	Months  core.Plan        `json:"months"`
	Summary core.PlanSummary `json:"summary"`
}

func renderJSON(plan core.Plan) (Result, error) {
	doc := jsonDocument{
		Months:  plan,
		Summary: core.SummarizePlan(plan),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("encode json export: %w", err)
	}
	return Result{
		ContentType: "application/json",
		Filename:    exportFilename(plan, "json"),
		Data:        data,
	}, nil
}
