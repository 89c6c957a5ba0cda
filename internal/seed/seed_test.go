package seed

import (
	"testing"

	"offerplan/internal/core"
)

func TestPlanHasTwelveMonths(t *testing.T) {
	plan, err := Plan()
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if len(plan) != 12 {
		t.Fatalf("expected 12 months, got %d", len(plan))
	}

	seen := make(map[string]bool)
	for _, m := range plan {
		if m.ID == "" {
			t.Errorf("month %q has empty id", m.Name)
		}
		if seen[m.ID] {
			t.Errorf("duplicate month id %q", m.ID)
		}
		seen[m.ID] = true
		if m.Theme == "" {
			t.Errorf("month %s has empty theme", m.ID)
		}
		if len(m.Offers) == 0 {
			t.Errorf("month %s has no offers", m.ID)
		}
	}
}

func TestPlanOffersValid(t *testing.T) {
	plan, err := Plan()
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	ids := make(map[string]bool)
	for _, m := range plan {
		for _, o := range m.Offers {
			if err := o.Validate(); err != nil {
				t.Errorf("month %s offer %q invalid: %v", m.ID, o.Title, err)
			}
			if o.ID == "" {
				t.Errorf("month %s offer %q has empty id", m.ID, o.Title)
			}
			if ids[o.ID] {
				t.Errorf("duplicate offer id %q", o.ID)
			}
			ids[o.ID] = true
			if o.Cancelled {
				t.Errorf("seed offer %q starts cancelled", o.Title)
			}
		}
	}
}

func TestPlanFreshIDsPerCall(t *testing.T) {
	first, err := Plan()
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	second, err := Plan()
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if first[0].Offers[0].ID == second[0].Offers[0].ID {
		t.Error("expected distinct offer ids across calls")
	}
}

func TestPlanProjectsRevenue(t *testing.T) {
	plan, err := Plan()
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	summary := core.SummarizePlan(plan)
	if summary.TotalProjected <= 0 {
		t.Errorf("expected positive projected revenue, got %.2f", summary.TotalProjected)
	}
	if summary.TargetRevenue <= 0 {
		t.Errorf("expected positive target revenue, got %.2f", summary.TargetRevenue)
	}

	// January carries explicit per-location pricing, so both cities
	// must contribute.
	jan, err := plan.Month("jan")
	if err != nil {
		t.Fatalf("Month(jan): %v", err)
	}
	ms := core.SummarizeMonth(*jan)
	if ms.TotalMumbai <= 0 {
		t.Errorf("expected Mumbai revenue in January, got %.2f", ms.TotalMumbai)
	}
	if ms.TotalBengaluru <= 0 {
		t.Errorf("expected Bengaluru revenue in January, got %.2f", ms.TotalBengaluru)
	}
}
