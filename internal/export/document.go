package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"offerplan/internal/core"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in plan text is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderDocument builds a printable HTML document from per-month
// markdown sections.
func renderDocument(plan core.Plan) (Result, error) {
	md := buildMarkdown(plan)

	var body bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &body); err != nil {
		return Result{}, fmt.Errorf("render document: %w", err)
	}

	var out bytes.Buffer
	out.WriteString(documentHead)
	out.Write(body.Bytes())
	out.WriteString(documentFoot)

	return Result{
		ContentType: "text/html; charset=utf-8",
		Filename:    exportFilename(plan, "html"),
		Data:        out.Bytes(),
	}, nil
}

func buildMarkdown(plan core.Plan) string {
	var b strings.Builder

	summary := core.SummarizePlan(plan)
	b.WriteString("# Promotional Offer Plan\n\n")
	fmt.Fprintf(&b, "Projected revenue %s against a target of %s (%d%% achievement).\n\n",
		core.FormatIndianCurrency(summary.TotalProjected),
		core.FormatIndianCurrency(summary.TargetRevenue),
		summary.AchievementPercent)

	for _, m := range plan {
		ms := core.SummarizeMonth(m)
		fmt.Fprintf(&b, "## %s: %s\n\n", m.Name, m.Theme)
		if m.Summary != "" {
			b.WriteString(m.Summary)
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Target %s, projected %s", m.RevenueTargetTotal,
			core.FormatIndianCurrency(ms.TotalProjected))
		if ms.Surplus() {
			fmt.Fprintf(&b, " (surplus %s).\n\n", core.FormatIndianCurrency(-ms.Gap))
		} else {
			fmt.Fprintf(&b, " (gap %s).\n\n", core.FormatIndianCurrency(ms.Gap))
		}

		if len(m.Offers) > 0 {
			b.WriteString("| Offer | Type | Pricing | Target Units | Status |\n")
			b.WriteString("| --- | --- | --- | --- | --- |\n")
			for _, o := range m.Offers {
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
					mdCell(o.Title), o.Type, mdCell(o.Pricing),
					mdCell(o.TargetUnits.Display()), o.Status())
			}
			b.WriteString("\n")
		}

		if len(m.Operations) > 0 {
			b.WriteString("### Operations\n\n")
			for _, op := range m.Operations {
				fmt.Fprintf(&b, "- **%s — %s**: %s\n", op.Week, op.Focus, op.Details)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// mdCell keeps free text from breaking the table syntax.
func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

const documentHead = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Promotional Offer Plan</title>
<style>
body { font-family: Georgia, serif; max-width: 860px; margin: 2rem auto; color: #222; }
h1 { border-bottom: 2px solid #222; padding-bottom: .3rem; }
h2 { margin-top: 2rem; page-break-before: always; }
h2:first-of-type { page-break-before: avoid; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #bbb; padding: .35rem .6rem; text-align: left; }
th { background: #f2f2f2; }
</style>
</head>
<body>
`

const documentFoot = `</body>
</html>
`
