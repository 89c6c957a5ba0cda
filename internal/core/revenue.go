package core

import "math"

// OfferRevenue is the projected contribution of a single offer, split by
// location. All values are non-negative.
type OfferRevenue struct {
	MumbaiRevenue    float64
	BengaluruRevenue float64
	TotalRevenue     float64
	MumbaiUnits      int
	BengaluruUnits   int
}

// MonthSummary is the target-vs-projection rollup for one month.
// Gap is target minus projected: positive means shortfall, negative
// means surplus.
type MonthSummary struct {
	TotalProjected     float64
	TotalMumbai        float64
	TotalBengaluru     float64
	TargetRevenue      float64
	Gap                float64
	AchievementPercent int
	ActiveOffers       int
	TotalUnits         int
}

// PlanSummary aggregates the month summaries across the full year.
type PlanSummary struct {
	TotalProjected     float64
	TargetRevenue      float64
	Gap                float64
	AchievementPercent int
	Months             []MonthSummary
}

// ProjectOffer derives the revenue one offer is projected to generate.
//
// Unit counts resolve per location, falling back to the legacy single
// targetUnits field when a location-specific count is absent. Prices
// resolve final price first, then list price, then zero. There is no
// apportionment heuristic: a location with no price contributes nothing,
// whatever the other location is doing.
func ProjectOffer(o Offer) OfferRevenue {
	unitsMumbai := resolveUnits(o.TargetUnitsMumbai, o.TargetUnits)
	unitsBengaluru := resolveUnits(o.TargetUnitsBengaluru, o.TargetUnits)

	priceMumbai := resolvePrice(o.FinalPriceMumbai, o.PriceMumbai)
	priceBengaluru := resolvePrice(o.FinalPriceBengaluru, o.PriceBengaluru)

	r := OfferRevenue{
		MumbaiRevenue:    priceMumbai * float64(unitsMumbai),
		BengaluruRevenue: priceBengaluru * float64(unitsBengaluru),
		MumbaiUnits:      unitsMumbai,
		BengaluruUnits:   unitsBengaluru,
	}
	r.TotalRevenue = r.MumbaiRevenue + r.BengaluruRevenue
	return r
}

// SummarizeMonth rolls up all non-cancelled offers in a month against its
// stated target. A zero or unparseable target yields achievement 0, never
// a division by zero.
func SummarizeMonth(m MonthData) MonthSummary {
	var s MonthSummary
	for _, o := range m.Offers {
		if o.Cancelled {
			continue
		}
		r := ProjectOffer(o)
		s.TotalProjected += r.TotalRevenue
		s.TotalMumbai += r.MumbaiRevenue
		s.TotalBengaluru += r.BengaluruRevenue
		s.TotalUnits += r.MumbaiUnits + r.BengaluruUnits
		s.ActiveOffers++
	}
	s.TargetRevenue = ParseTargetRevenue(m.RevenueTargetTotal)
	s.Gap = s.TargetRevenue - s.TotalProjected
	s.AchievementPercent = achievement(s.TotalProjected, s.TargetRevenue)
	return s
}

// SummarizePlan sums the month rollups for year-level reporting, applying
// the same gap and achievement formulas at plan scope.
func SummarizePlan(p Plan) PlanSummary {
	out := PlanSummary{Months: make([]MonthSummary, 0, len(p))}
	for _, m := range p {
		ms := SummarizeMonth(m)
		out.Months = append(out.Months, ms)
		out.TotalProjected += ms.TotalProjected
		out.TargetRevenue += ms.TargetRevenue
	}
	out.Gap = out.TargetRevenue - out.TotalProjected
	out.AchievementPercent = achievement(out.TotalProjected, out.TargetRevenue)
	return out
}

// Surplus reports whether the month is projected above target.
func (s MonthSummary) Surplus() bool { return s.Gap < 0 }

// Surplus reports whether the year is projected above target.
func (s PlanSummary) Surplus() bool { return s.Gap < 0 }

func achievement(projected, target float64) int {
	if target <= 0 {
		return 0
	}
	return int(math.Round(projected / target * 100))
}

func resolveUnits(specific, legacy *FlexInt) int {
	if specific != nil {
		return specific.Int()
	}
	return legacy.Int()
}

func resolvePrice(final, list *float64) float64 {
	p := 0.0
	switch {
	case final != nil:
		p = *final
	case list != nil:
		p = *list
	}
	if p < 0 {
		return 0
	}
	return p
}
