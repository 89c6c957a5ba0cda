package http

import (
	"errors"
	"net/http"

	"offerplan/internal/core"
	"offerplan/internal/log"
	"offerplan/internal/metrics"
	"offerplan/internal/plan"
)

func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	monthID := r.PathValue("id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	o := core.Offer{
		Title:               sanitizeInput(r.Form.Get("title")),
		Type:                core.OfferType(sanitizeInput(r.Form.Get("type"))),
		Description:         sanitizeInput(r.Form.Get("description")),
		Pricing:             sanitizeInput(r.Form.Get("pricing")),
		Savings:             sanitizeInput(r.Form.Get("savings")),
		WhyItWorks:          sanitizeInput(r.Form.Get("whyItWorks")),
		MarketingCollateral: sanitizeInput(r.Form.Get("marketingCollateral")),
		OperationalSupport:  sanitizeInput(r.Form.Get("operationalSupport")),
		PromoteOnAds:        formBool(r.Form, "promoteOnAds"),

		PriceMumbai:         formPrice(r.Form, "priceMumbai"),
		PriceBengaluru:      formPrice(r.Form, "priceBengaluru"),
		FinalPriceMumbai:    formPrice(r.Form, "finalPriceMumbai"),
		FinalPriceBengaluru: formPrice(r.Form, "finalPriceBengaluru"),

		TargetUnits:          formUnits(r.Form, "targetUnits"),
		TargetUnitsMumbai:    formUnits(r.Form, "targetUnitsMumbai"),
		TargetUnitsBengaluru: formUnits(r.Form, "targetUnitsBengaluru"),
	}

	created, err := s.service.AddOffer(r.Context(), monthID, o)
	if err != nil {
		s.writeOfferError(w, r, err)
		return
	}

	metrics.PlanEditsTotal.WithLabelValues(log.OpCreate).Inc()
	s.logger.InfoContext(r.Context(), "Offer created via form",
		log.FieldMonthID, monthID,
		log.FieldOfferID, created.ID)
	http.Redirect(w, r, "/months/"+monthID, http.StatusSeeOther)
}

func (s *Server) handleUpdateOffer(w http.ResponseWriter, r *http.Request) {
	monthID := r.PathValue("id")
	offerID := r.PathValue("offerID")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	patch := plan.OfferPatch{
		Title:               formString(r.Form, "title"),
		Description:         formString(r.Form, "description"),
		Pricing:             formString(r.Form, "pricing"),
		Savings:             formString(r.Form, "savings"),
		WhyItWorks:          formString(r.Form, "whyItWorks"),
		MarketingCollateral: formString(r.Form, "marketingCollateral"),
		OperationalSupport:  formString(r.Form, "operationalSupport"),

		PriceMumbai:         formPrice(r.Form, "priceMumbai"),
		PriceBengaluru:      formPrice(r.Form, "priceBengaluru"),
		FinalPriceMumbai:    formPrice(r.Form, "finalPriceMumbai"),
		FinalPriceBengaluru: formPrice(r.Form, "finalPriceBengaluru"),

		TargetUnits:          formUnits(r.Form, "targetUnits"),
		TargetUnitsMumbai:    formUnits(r.Form, "targetUnitsMumbai"),
		TargetUnitsBengaluru: formUnits(r.Form, "targetUnitsBengaluru"),
	}
	if v := formString(r.Form, "type"); v != nil {
		t := core.OfferType(*v)
		patch.Type = &t
	}
	if _, ok := r.Form["promoteOnAds"]; ok {
		v := formBool(r.Form, "promoteOnAds")
		patch.PromoteOnAds = &v
	}

	if _, err := s.service.UpdateOffer(r.Context(), monthID, offerID, patch); err != nil {
		s.writeOfferError(w, r, err)
		return
	}

	metrics.PlanEditsTotal.WithLabelValues(log.OpUpdate).Inc()
	http.Redirect(w, r, "/months/"+monthID, http.StatusSeeOther)
}

func (s *Server) handleToggleOffer(w http.ResponseWriter, r *http.Request) {
	monthID := r.PathValue("id")
	offerID := r.PathValue("offerID")

	cancelled, err := s.service.ToggleCancelled(r.Context(), monthID, offerID)
	if err != nil {
		s.writeOfferError(w, r, err)
		return
	}

	metrics.PlanEditsTotal.WithLabelValues(log.OpToggle).Inc()
	s.logger.InfoContext(r.Context(), "Offer toggled via form",
		log.FieldMonthID, monthID,
		log.FieldOfferID, offerID,
		"cancelled", cancelled)
	http.Redirect(w, r, "/months/"+monthID, http.StatusSeeOther)
}

// handleDeleteOffer permanently removes an offer. The form must carry
// confirm=yes; cancellation via toggle is the reversible path.
func (s *Server) handleDeleteOffer(w http.ResponseWriter, r *http.Request) {
	monthID := r.PathValue("id")
	offerID := r.PathValue("offerID")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if r.Form.Get("confirm") != "yes" {
		http.Error(w, "deletion requires confirmation", http.StatusBadRequest)
		return
	}

	if err := s.service.DeleteOffer(r.Context(), monthID, offerID); err != nil {
		s.writeOfferError(w, r, err)
		return
	}

	metrics.PlanEditsTotal.WithLabelValues(log.OpDelete).Inc()
	http.Redirect(w, r, "/months/"+monthID, http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if r.Form.Get("confirm") != "yes" {
		http.Error(w, "reset requires confirmation", http.StatusBadRequest)
		return
	}

	if err := s.service.Reset(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "Plan reset failed", "error", err)
		http.Error(w, "reset failed", http.StatusInternalServerError)
		return
	}

	metrics.PlanEditsTotal.WithLabelValues(log.OpReset).Inc()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) writeOfferError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrMonthNotFound), errors.Is(err, core.ErrOfferNotFound):
		http.NotFound(w, r)
	case errors.Is(err, core.ErrEmptyTitle), errors.Is(err, core.ErrInvalidOfferType):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.logger.ErrorContext(r.Context(), "Offer operation failed", "error", err)
		http.Error(w, "operation failed", http.StatusInternalServerError)
	}
}
