package export

import (
	"fmt"
	"strings"

	"offerplan/internal/core"
)

// renderEmail builds the plain-text status update circulated to studio
// managers. The same body is used whether it ends up in an outbound
// email or on the clipboard.
func renderEmail(plan core.Plan) (Result, error) {
	summary := core.SummarizePlan(plan)

	var b strings.Builder
	b.WriteString("Promotional Offer Plan Update\n")
	b.WriteString("=============================\n\n")
	fmt.Fprintf(&b, "Projected: %s\n", core.FormatIndianCurrency(summary.TotalProjected))
	fmt.Fprintf(&b, "Target:    %s\n", core.FormatIndianCurrency(summary.TargetRevenue))
	fmt.Fprintf(&b, "Achievement: %d%%\n\n", summary.AchievementPercent)

	for i, m := range plan {
		ms := summary.Months[i]
		fmt.Fprintf(&b, "%s — %s\n", m.Name, m.Theme)
		fmt.Fprintf(&b, "  Projected %s vs target %s",
			core.FormatIndianCurrency(ms.TotalProjected), m.RevenueTargetTotal)
		if ms.Surplus() {
			fmt.Fprintf(&b, " (ahead by %s)\n", core.FormatIndianCurrency(-ms.Gap))
		} else {
			fmt.Fprintf(&b, " (short by %s)\n", core.FormatIndianCurrency(ms.Gap))
		}
		for _, o := range m.Offers {
			fmt.Fprintf(&b, "  - [%s] %s", o.Type, o.Title)
			if o.Pricing != "" {
				fmt.Fprintf(&b, " @ %s", o.Pricing)
			}
			if o.Cancelled {
				b.WriteString(" (CANCELLED)")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return Result{
		ContentType: "text/plain; charset=utf-8",
		Filename:    exportFilename(plan, "txt"),
		Data:        []byte(b.String()),
	}, nil
}

// EmailSubject derives the subject line for an emailed export.
func EmailSubject(plan core.Plan) string {
	if len(plan) == 1 {
		return fmt.Sprintf("Offer Plan Update: %s — %s", plan[0].Name, plan[0].Theme)
	}
	return "Offer Plan Update: Full Year"
}
