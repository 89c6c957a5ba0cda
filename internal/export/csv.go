package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"offerplan/internal/core"
)

var csvHeader = []string{
	"Month", "Offer Title", "Type", "Pricing",
	"Target Units", "Status", "Description", "Strategy",
}

func renderCSV(plan core.Plan) (Result, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return Result{}, fmt.Errorf("write csv header: %w", err)
	}
	for _, m := range plan {
		for _, o := range m.Offers {
			row := []string{
				m.Name,
				o.Title,
				string(o.Type),
				o.Pricing,
				o.TargetUnits.Display(),
				o.Status(),
				o.Description,
				o.WhyItWorks,
			}
			if err := w.Write(row); err != nil {
				return Result{}, fmt.Errorf("write csv row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Result{}, fmt.Errorf("flush csv: %w", err)
	}

	return Result{
		ContentType: "text/csv",
		Filename:    exportFilename(plan, "csv"),
		Data:        buf.Bytes(),
	}, nil
}
