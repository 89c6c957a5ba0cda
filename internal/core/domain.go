package core

import (
	"errors"
	"strings"
)

const (
	TypeNew       OfferType = "New"
	TypeHero      OfferType = "Hero"
	TypeRetention OfferType = "Retention"
	TypeFlash     OfferType = "Flash"
	TypeEvent     OfferType = "Event"
	TypeStudent   OfferType = "Student"
	TypeCorporate OfferType = "Corporate"
	TypeLapsed    OfferType = "Lapsed"
)

type (
	// OfferType is the closed set of campaign category tags.
	OfferType string

	// Offer is one promotional pricing package within a month. Numeric
	// target fields may arrive as JSON numbers or free-text strings; all
	// arithmetic goes through FlexInt so bad data degrades to zero.
	Offer struct {
		ID          string    `json:"id"`
		Title       string    `json:"title"`
		Type        OfferType `json:"type"`
		Description string    `json:"description"`
		Pricing     string    `json:"pricing,omitempty"`
		Savings     string    `json:"savings,omitempty"`
		WhyItWorks  string    `json:"whyItWorks,omitempty"`

		PriceMumbai         *float64 `json:"priceMumbai,omitempty"`
		PriceBengaluru      *float64 `json:"priceBengaluru,omitempty"`
		FinalPriceMumbai    *float64 `json:"finalPriceMumbai,omitempty"`
		FinalPriceBengaluru *float64 `json:"finalPriceBengaluru,omitempty"`

		TargetUnits          *FlexInt `json:"targetUnits,omitempty"`
		TargetUnitsMumbai    *FlexInt `json:"targetUnitsMumbai,omitempty"`
		TargetUnitsBengaluru *FlexInt `json:"targetUnitsBengaluru,omitempty"`

		Cancelled           bool   `json:"cancelled"`
		PromoteOnAds        bool   `json:"promoteOnAds,omitempty"`
		MarketingCollateral string `json:"marketingCollateral,omitempty"`
		OperationalSupport  string `json:"operationalSupport,omitempty"`
	}

	// FinancialTarget is a display-only per-location target breakdown row.
	FinancialTarget struct {
		Location      string `json:"location"`
		Category      string `json:"category"`
		TargetUnits   int    `json:"targetUnits"`
		EstTicketSize string `json:"estTicketSize"`
		RevenueTarget string `json:"revenueTarget"`
		Logic         string `json:"logic"`
	}

	// OperationalTask is one weekly operational-focus note.
	OperationalTask struct {
		Week    string `json:"week"`
		Focus   string `json:"focus"`
		Details string `json:"details"`
	}

	// CollateralItem is an editable campaign-execution record, generated
	// once from offer data and persisted independently thereafter.
	CollateralItem struct {
		ID               string `json:"id"`
		Offer            string `json:"offer"`
		CollateralNeeded string `json:"collateralNeeded"`
		Type             string `json:"type"`
		Medium           string `json:"medium"`
		Messaging        string `json:"messaging"`
		DueDate          string `json:"dueDate"`
		Notes            string `json:"notes,omitempty"`
	}

	// CRMEntry is one row of the month's CRM send timeline.
	CRMEntry struct {
		ID           string `json:"id"`
		Offer        string `json:"offer"`
		Content      string `json:"content"`
		SendDate     string `json:"sendDate,omitempty"`
		AdsStartDate string `json:"adsStartDate,omitempty"`
		AdsEndDate   string `json:"adsEndDate,omitempty"`
	}

	// MonthData is one calendar month's plan. Offers are owned exclusively
	// by their month; insertion order is display order.
	MonthData struct {
		ID                 string `json:"id"`
		Name               string `json:"name"`
		Theme              string `json:"theme"`
		Summary            string `json:"summary"`
		RevenueTargetTotal string `json:"revenueTargetTotal"`

		FinancialTargets    []FinancialTarget `json:"financialTargets"`
		Offers              []Offer           `json:"offers"`
		Operations          []OperationalTask `json:"operations"`
		MarketingCollateral []CollateralItem  `json:"marketingCollateral,omitempty"`
		CRMTimeline         []CRMEntry        `json:"crmTimeline,omitempty"`
	}

	// Plan is the full year: an ordered list of twelve id-unique months.
	Plan []MonthData
)

var (
	ErrEmptyTitle       = errors.New("empty offer title")
	ErrInvalidOfferType = errors.New("invalid offer type")
	ErrMonthNotFound    = errors.New("month not found")
	ErrOfferNotFound    = errors.New("offer not found")
)

// OfferTypes lists the valid category tags in display order.
func OfferTypes() []OfferType {
	return []OfferType{
		TypeNew, TypeHero, TypeRetention, TypeFlash,
		TypeEvent, TypeStudent, TypeCorporate, TypeLapsed,
	}
}

func (t OfferType) IsValid() bool {
	switch t {
	case TypeNew, TypeHero, TypeRetention, TypeFlash,
		TypeEvent, TypeStudent, TypeCorporate, TypeLapsed:
		return true
	default:
		return false
	}
}

func (o Offer) Validate() error {
	if len(strings.TrimSpace(o.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(o.Title) > 200 {
		return errors.New("offer title too long (max 200 characters)")
	}
	if !o.Type.IsValid() {
		return ErrInvalidOfferType
	}
	return nil
}

// Status returns the display status used by exports.
func (o Offer) Status() string {
	if o.Cancelled {
		return "Cancelled"
	}
	return "Active"
}

// Month returns the month with the given id, or ErrMonthNotFound.
func (p Plan) Month(id string) (*MonthData, error) {
	for i := range p {
		if p[i].ID == id {
			return &p[i], nil
		}
	}
	return nil, ErrMonthNotFound
}

// Offer returns the offer with the given id, or ErrOfferNotFound.
func (m *MonthData) Offer(id string) (*Offer, error) {
	for i := range m.Offers {
		if m.Offers[i].ID == id {
			return &m.Offers[i], nil
		}
	}
	return nil, ErrOfferNotFound
}

// ActiveOffers returns the offers that count toward revenue, preserving
// display order. Cancelled offers are retained in storage but excluded
// here and from exports by default.
func (m *MonthData) ActiveOffers() []Offer {
	out := make([]Offer, 0, len(m.Offers))
	for _, o := range m.Offers {
		if !o.Cancelled {
			out = append(out, o)
		}
	}
	return out
}

// Clone returns a deep copy of the plan so callers can hand out snapshots
// without sharing the service's internal slices.
func (p Plan) Clone() Plan {
	if p == nil {
		return nil
	}
	out := make(Plan, len(p))
	for i, m := range p {
		out[i] = m
		out[i].FinancialTargets = append([]FinancialTarget(nil), m.FinancialTargets...)
		out[i].Operations = append([]OperationalTask(nil), m.Operations...)
		out[i].MarketingCollateral = append([]CollateralItem(nil), m.MarketingCollateral...)
		out[i].CRMTimeline = append([]CRMEntry(nil), m.CRMTimeline...)
		out[i].Offers = make([]Offer, len(m.Offers))
		for j, o := range m.Offers {
			out[i].Offers[j] = o.clone()
		}
	}
	return out
}

func (o Offer) clone() Offer {
	c := o
	c.PriceMumbai = clonePtr(o.PriceMumbai)
	c.PriceBengaluru = clonePtr(o.PriceBengaluru)
	c.FinalPriceMumbai = clonePtr(o.FinalPriceMumbai)
	c.FinalPriceBengaluru = clonePtr(o.FinalPriceBengaluru)
	c.TargetUnits = clonePtr(o.TargetUnits)
	c.TargetUnitsMumbai = clonePtr(o.TargetUnitsMumbai)
	c.TargetUnitsBengaluru = clonePtr(o.TargetUnitsBengaluru)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
