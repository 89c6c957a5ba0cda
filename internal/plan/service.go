// Package plan orchestrates all edits to the year plan. The in-memory
// document is authoritative for reads; every mutation is persisted to
// the store and then announced to the sync worker on a best-effort
// basis, so a broken broker never blocks an edit.
package plan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"offerplan/internal/core"
	"offerplan/internal/log"
	"offerplan/internal/seed"
	"offerplan/internal/store"
)

// SyncPublisher announces plan revisions to the sync worker.
type SyncPublisher interface {
	PublishPlanSync(ctx context.Context, revision int64) error
}

type Service struct {
	mu        sync.RWMutex
	plan      core.Plan
	revision  int64
	store     store.PlanStore
	publisher SyncPublisher
	logger    *log.Logger
}

// OfferPatch is a partial update. Nil fields are left unchanged.
type OfferPatch struct {
	Title               *string
	Type                *core.OfferType
	Description         *string
	Pricing             *string
	Savings             *string
	WhyItWorks          *string
	MarketingCollateral *string
	OperationalSupport  *string

	PriceMumbai         *float64
	PriceBengaluru      *float64
	FinalPriceMumbai    *float64
	FinalPriceBengaluru *float64

	TargetUnits          *core.FlexInt
	TargetUnitsMumbai    *core.FlexInt
	TargetUnitsBengaluru *core.FlexInt

	PromoteOnAds *bool
}

// NewService loads the stored plan, seeding the default year on first
// run. publisher may be nil when no broker is configured.
func NewService(ctx context.Context, st store.PlanStore, publisher SyncPublisher, logger *log.Logger) (*Service, error) {
	s := &Service{
		store:     st,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentPlan),
	}

	doc, err := st.LoadPlan(ctx)
	switch {
	case err == nil:
		s.plan = doc.Plan
		s.revision = doc.Revision
		s.logger.InfoContext(ctx, "Loaded stored plan",
			log.FieldRevision, doc.Revision,
			"months", len(doc.Plan))
	case errors.Is(err, store.ErrNoDocument):
		seeded, err := seed.Plan()
		if err != nil {
			return nil, fmt.Errorf("seed plan: %w", err)
		}
		s.plan = seeded
		if err := s.persistLocked(ctx); err != nil {
			return nil, fmt.Errorf("persist seeded plan: %w", err)
		}
		s.logger.InfoContext(ctx, "Seeded default plan", "months", len(seeded))
	default:
		return nil, fmt.Errorf("load plan: %w", err)
	}

	return s, nil
}

// Snapshot returns a deep copy of the current plan.
func (s *Service) Snapshot() core.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan.Clone()
}

// Revision returns the current plan revision.
func (s *Service) Revision() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Month returns a deep copy of one month.
func (s *Service) Month(id string) (core.MonthData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, err := s.plan.Month(id)
	if err != nil {
		return core.MonthData{}, err
	}
	clone := core.Plan{*m}.Clone()
	return clone[0], nil
}

// AddOffer validates and appends a new offer to the month. The offer id
// is always generated server-side.
func (s *Service) AddOffer(ctx context.Context, monthID string, o core.Offer) (core.Offer, error) {
	if err := o.Validate(); err != nil {
		return core.Offer{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.plan.Month(monthID)
	if err != nil {
		return core.Offer{}, err
	}

	o.ID = uuid.NewString()
	o.Cancelled = false
	m.Offers = append(m.Offers, o)

	if err := s.persistLocked(ctx); err != nil {
		m.Offers = m.Offers[:len(m.Offers)-1]
		return core.Offer{}, err
	}

	s.logger.InfoContext(ctx, "Offer added",
		log.FieldMonthID, monthID,
		log.FieldOfferID, o.ID,
		log.FieldOfferTitle, o.Title)
	return o, nil
}

// UpdateOffer applies a partial patch to an existing offer.
func (s *Service) UpdateOffer(ctx context.Context, monthID, offerID string, patch OfferPatch) (core.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.plan.Month(monthID)
	if err != nil {
		return core.Offer{}, err
	}
	o, err := m.Offer(offerID)
	if err != nil {
		return core.Offer{}, err
	}

	prev := *o
	applyPatch(o, patch)
	if err := o.Validate(); err != nil {
		*o = prev
		return core.Offer{}, err
	}

	if err := s.persistLocked(ctx); err != nil {
		*o = prev
		return core.Offer{}, err
	}

	s.logger.InfoContext(ctx, "Offer updated",
		log.FieldMonthID, monthID,
		log.FieldOfferID, offerID)
	return *o, nil
}

// ToggleCancelled flips an offer's cancelled flag and returns the new
// state. Cancelled offers stay in the plan but drop out of projections.
func (s *Service) ToggleCancelled(ctx context.Context, monthID, offerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.plan.Month(monthID)
	if err != nil {
		return false, err
	}
	o, err := m.Offer(offerID)
	if err != nil {
		return false, err
	}

	o.Cancelled = !o.Cancelled
	if err := s.persistLocked(ctx); err != nil {
		o.Cancelled = !o.Cancelled
		return false, err
	}

	s.logger.InfoContext(ctx, "Offer cancellation toggled",
		log.FieldMonthID, monthID,
		log.FieldOfferID, offerID,
		"cancelled", o.Cancelled)
	return o.Cancelled, nil
}

// DeleteOffer removes an offer permanently. Deleting an id that is not
// in the month is a no-op, so repeated submits of the same form are
// harmless.
func (s *Service) DeleteOffer(ctx context.Context, monthID, offerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.plan.Month(monthID)
	if err != nil {
		return err
	}

	idx := -1
	for i := range m.Offers {
		if m.Offers[i].ID == offerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	removed := m.Offers[idx]
	m.Offers = append(m.Offers[:idx], m.Offers[idx+1:]...)

	if err := s.persistLocked(ctx); err != nil {
		m.Offers = append(m.Offers[:idx], append([]core.Offer{removed}, m.Offers[idx:]...)...)
		return err
	}

	s.logger.InfoContext(ctx, "Offer deleted",
		log.FieldMonthID, monthID,
		log.FieldOfferID, offerID,
		log.FieldOfferTitle, removed.Title)
	return nil
}

// Reset discards every edit and reinstates the default seed plan.
func (s *Service) Reset(ctx context.Context) error {
	seeded, err := seed.Plan()
	if err != nil {
		return fmt.Errorf("seed plan: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.plan
	s.plan = seeded
	if err := s.persistLocked(ctx); err != nil {
		s.plan = prev
		return err
	}

	s.logger.InfoContext(ctx, "Plan reset to defaults", "months", len(seeded))
	return nil
}

// EnsureExecutionRecords generates the month's marketing collateral and
// CRM timeline from its active offers if they have not been generated
// yet. Once generated they are persisted and edited independently, so
// later offer changes never overwrite manual edits.
func (s *Service) EnsureExecutionRecords(ctx context.Context, monthID string) (core.MonthData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.plan.Month(monthID)
	if err != nil {
		return core.MonthData{}, err
	}

	if len(m.MarketingCollateral) > 0 || len(m.CRMTimeline) > 0 {
		clone := core.Plan{*m}.Clone()
		return clone[0], nil
	}

	for _, o := range m.ActiveOffers() {
		if o.MarketingCollateral == "" {
			continue
		}
		content := o.MarketingCollateral

		m.MarketingCollateral = append(m.MarketingCollateral, core.CollateralItem{
			ID:               uuid.NewString(),
			Offer:            o.Title,
			CollateralNeeded: collateralHeadline(content),
			Type:             collateralType(content),
			Medium:           collateralMedium(content),
			Messaging:        content,
			DueDate:          "Before launch",
			Notes:            o.WhyItWorks,
		})

		entry := core.CRMEntry{
			ID:      uuid.NewString(),
			Offer:   o.Title,
			Content: content,
		}
		if isSocialCampaign(content) {
			entry.SendDate = "Launch week"
			entry.AdsStartDate = "Day 1"
			entry.AdsEndDate = "Throughout month"
		} else {
			entry.SendDate = "Pre-launch"
		}
		m.CRMTimeline = append(m.CRMTimeline, entry)
	}

	// Nothing to generate means nothing to persist. Without this a
	// month whose offers carry no collateral text would write the store
	// and publish a sync on every view.
	if len(m.MarketingCollateral) == 0 && len(m.CRMTimeline) == 0 {
		clone := core.Plan{*m}.Clone()
		return clone[0], nil
	}

	if err := s.persistLocked(ctx); err != nil {
		m.MarketingCollateral = nil
		m.CRMTimeline = nil
		return core.MonthData{}, err
	}

	s.logger.InfoContext(ctx, "Execution records generated",
		log.FieldMonthID, monthID,
		"collateral_items", len(m.MarketingCollateral),
		"crm_entries", len(m.CRMTimeline))

	clone := core.Plan{*m}.Clone()
	return clone[0], nil
}

// persistLocked bumps the revision, saves the document, and notifies
// the sync worker. Callers must hold the write lock. A store failure
// rolls the revision back and fails the edit; a publish failure is only
// logged because the mirror is advisory.
func (s *Service) persistLocked(ctx context.Context) error {
	s.revision++
	doc := store.PlanDocument{
		Plan:      s.plan.Clone(),
		Revision:  s.revision,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.SavePlan(ctx, doc); err != nil {
		s.revision--
		return fmt.Errorf("save plan: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishPlanSync(ctx, s.revision); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish sync message",
				log.FieldRevision, s.revision, "error", err)
		}
	}
	return nil
}

func applyPatch(o *core.Offer, p OfferPatch) {
	if p.Title != nil {
		o.Title = *p.Title
	}
	if p.Type != nil {
		o.Type = *p.Type
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.Pricing != nil {
		o.Pricing = *p.Pricing
	}
	if p.Savings != nil {
		o.Savings = *p.Savings
	}
	if p.WhyItWorks != nil {
		o.WhyItWorks = *p.WhyItWorks
	}
	if p.MarketingCollateral != nil {
		o.MarketingCollateral = *p.MarketingCollateral
	}
	if p.OperationalSupport != nil {
		o.OperationalSupport = *p.OperationalSupport
	}
	if p.PriceMumbai != nil {
		o.PriceMumbai = p.PriceMumbai
	}
	if p.PriceBengaluru != nil {
		o.PriceBengaluru = p.PriceBengaluru
	}
	if p.FinalPriceMumbai != nil {
		o.FinalPriceMumbai = p.FinalPriceMumbai
	}
	if p.FinalPriceBengaluru != nil {
		o.FinalPriceBengaluru = p.FinalPriceBengaluru
	}
	if p.TargetUnits != nil {
		o.TargetUnits = p.TargetUnits
	}
	if p.TargetUnitsMumbai != nil {
		o.TargetUnitsMumbai = p.TargetUnitsMumbai
	}
	if p.TargetUnitsBengaluru != nil {
		o.TargetUnitsBengaluru = p.TargetUnitsBengaluru
	}
	if p.PromoteOnAds != nil {
		o.PromoteOnAds = *p.PromoteOnAds
	}
}

func collateralType(content string) string {
	c := strings.ToLower(content)
	switch {
	case strings.Contains(c, "email"):
		return "Email Campaign"
	case strings.Contains(c, "whatsapp"):
		return "WhatsApp Blast"
	case strings.Contains(c, "poster"), strings.Contains(c, "easel"), strings.Contains(c, "tent card"):
		return "In-Studio Materials"
	case strings.Contains(c, "landing page"):
		return "Website"
	case strings.Contains(c, "meta ads"), strings.Contains(c, "instagram"), strings.Contains(c, "facebook"):
		return "Social Media Ads"
	default:
		return "Mixed Media"
	}
}

func collateralMedium(content string) string {
	c := strings.ToLower(content)
	switch {
	case strings.Contains(c, "email"):
		return "Email Marketing"
	case strings.Contains(c, "whatsapp"):
		return "WhatsApp Broadcast"
	case strings.Contains(c, "poster"):
		return "Physical Posters"
	case strings.Contains(c, "meta ads"):
		return "Meta Ads Platform"
	case strings.Contains(c, "instagram"):
		return "Instagram"
	default:
		return "Multi-channel"
	}
}

func isSocialCampaign(content string) bool {
	c := strings.ToLower(content)
	return strings.Contains(c, "meta ads") ||
		strings.Contains(c, "instagram") ||
		strings.Contains(c, "facebook") ||
		strings.Contains(c, "google ads")
}

// collateralHeadline is the short label shown in the collateral table:
// the first comma-separated item, or a truncated prefix.
func collateralHeadline(content string) string {
	if i := strings.Index(content, ","); i > 0 {
		return content[:i]
	}
	if len(content) > 50 {
		return content[:50]
	}
	return content
}
