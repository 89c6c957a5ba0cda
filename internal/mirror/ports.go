// Package mirror defines the advisory remote copy of the plan. The
// mirror is write-only and eventually consistent; the local store is
// always authoritative.
package mirror

import (
	"context"

	"offerplan/internal/core"
)

// PlanMirror replaces the remote copy with the given plan state.
type PlanMirror interface {
	WritePlan(ctx context.Context, plan core.Plan, revision int64) error
}

// Header is the column layout of the mirrored sheet, one row per offer.
var Header = []any{
	"Month", "Offer Title", "Type", "Pricing",
	"Target Units", "Projected Revenue", "Status", "Description",
}

// Rows flattens the plan into sheet rows matching Header. Cancelled
// offers are included so the mirror shows the full editing state.
func Rows(plan core.Plan) [][]any {
	rows := [][]any{Header}
	for _, m := range plan {
		for _, o := range m.Offers {
			r := core.ProjectOffer(o)
			rows = append(rows, []any{
				m.Name,
				o.Title,
				string(o.Type),
				o.Pricing,
				o.TargetUnits.Display(),
				r.TotalRevenue,
				o.Status(),
				o.Description,
			})
		}
	}
	return rows
}
