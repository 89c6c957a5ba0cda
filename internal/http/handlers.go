package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/csrf"

	"offerplan/internal/core"
	"offerplan/internal/log"
)

type monthRow struct {
	Month   core.MonthData
	Summary core.MonthSummary
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snapshot := s.service.Snapshot()
	summary := s.summary()

	rows := make([]monthRow, len(snapshot))
	for i, m := range snapshot {
		rows[i] = monthRow{Month: m, Summary: summary.Months[i]}
	}

	data := struct {
		Months    []monthRow
		Summary   core.PlanSummary
		CSRFField interface{}
	}{
		Months:    rows,
		Summary:   summary,
		CSRFField: csrf.TemplateField(r),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	monthID := r.PathValue("id")

	// Execution records are generated lazily on first view and then
	// persisted, so manual edits survive later offer changes.
	m, err := s.service.EnsureExecutionRecords(r.Context(), monthID)
	if err != nil {
		if errors.Is(err, core.ErrMonthNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.ErrorContext(r.Context(), "Month load failed",
			log.FieldMonthID, monthID, "error", err)
		http.Error(w, "failed to load month", http.StatusInternalServerError)
		return
	}

	offers := make([]struct {
		Offer   core.Offer
		Revenue core.OfferRevenue
	}, len(m.Offers))
	for i, o := range m.Offers {
		offers[i].Offer = o
		offers[i].Revenue = core.ProjectOffer(o)
	}

	data := struct {
		Month      core.MonthData
		Summary    core.MonthSummary
		Offers     []struct {
			Offer   core.Offer
			Revenue core.OfferRevenue
		}
		OfferTypes []core.OfferType
		CSRFField  interface{}
	}{
		Month:      m,
		Summary:    core.SummarizeMonth(m),
		Offers:     offers,
		OfferTypes: core.OfferTypes(),
		CSRFField:  csrf.TemplateField(r),
	}

	if err := s.templates.ExecuteTemplate(w, "month.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Month template execution failed",
			log.FieldMonthID, monthID, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	snapshot := s.service.Snapshot()
	summary := s.summary()

	rows := make([]monthRow, len(snapshot))
	for i, m := range snapshot {
		rows[i] = monthRow{Month: m, Summary: summary.Months[i]}
	}

	data := struct {
		Months  []monthRow
		Summary core.PlanSummary
	}{
		Months:  rows,
		Summary: summary,
	}

	if err := s.templates.ExecuteTemplate(w, "overview.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Overview template execution failed", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
