// Package export renders the plan in the formats the dashboard offers
// for download and sharing.
package export

import (
	"fmt"

	"offerplan/internal/core"
)

type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatDocument Format = "document"
	FormatImage    Format = "image"
	FormatEmail    Format = "email"
)

func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatCSV, FormatDocument, FormatImage, FormatEmail:
		return true
	default:
		return false
	}
}

// Options selects what to export and how. MonthID narrows the export to
// one month; empty means the whole year. Cancelled offers are excluded
// unless IncludeCancelled is set, matching the projection rule.
type Options struct {
	Format           Format
	MonthID          string
	IncludeCancelled bool
}

// Result is a rendered export ready to serve.
type Result struct {
	ContentType string
	Filename    string
	Data        []byte
}

// Render produces the export described by opts from a plan snapshot.
func Render(plan core.Plan, opts Options) (Result, error) {
	if !opts.Format.IsValid() {
		return Result{}, fmt.Errorf("unknown export format: %q", opts.Format)
	}

	scoped, err := scope(plan, opts)
	if err != nil {
		return Result{}, err
	}

	switch opts.Format {
	case FormatJSON:
		return renderJSON(scoped)
	case FormatCSV:
		return renderCSV(scoped)
	case FormatDocument:
		return renderDocument(scoped)
	case FormatImage:
		return renderImage(scoped)
	case FormatEmail:
		return renderEmail(scoped)
	default:
		return Result{}, fmt.Errorf("unknown export format: %q", opts.Format)
	}
}

// scope narrows the plan to the requested month and drops cancelled
// offers unless asked to keep them. The input is already a snapshot, so
// filtering in place is safe.
func scope(plan core.Plan, opts Options) (core.Plan, error) {
	if opts.MonthID != "" {
		m, err := plan.Month(opts.MonthID)
		if err != nil {
			return nil, err
		}
		plan = core.Plan{*m}
	}
	if opts.IncludeCancelled {
		return plan, nil
	}
	for i := range plan {
		plan[i].Offers = plan[i].ActiveOffers()
	}
	return plan, nil
}

func exportFilename(plan core.Plan, ext string) string {
	if len(plan) == 1 {
		return fmt.Sprintf("offer-plan-%s.%s", plan[0].ID, ext)
	}
	return fmt.Sprintf("offer-plan.%s", ext)
}
