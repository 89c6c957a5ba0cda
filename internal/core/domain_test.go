package core

import (
	"errors"
	"testing"
)

func TestOfferValidate(t *testing.T) {
	cases := []struct {
		name  string
		offer Offer
		want  error
	}{
		{"valid", Offer{Title: "Fresh Start", Type: TypeNew}, nil},
		{"empty title", Offer{Title: "  ", Type: TypeHero}, ErrEmptyTitle},
		{"bad type", Offer{Title: "x", Type: OfferType("Mystery")}, ErrInvalidOfferType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.offer.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestOfferTypeIsValid(t *testing.T) {
	for _, ot := range OfferTypes() {
		if !ot.IsValid() {
			t.Errorf("%s should be valid", ot)
		}
	}
	if OfferType("Bogus").IsValid() {
		t.Error("Bogus should be invalid")
	}
}

func TestPlanMonthLookup(t *testing.T) {
	p := Plan{{ID: "jan", Name: "January"}, {ID: "feb", Name: "February"}}

	m, err := p.Month("feb")
	if err != nil || m.Name != "February" {
		t.Fatalf("Month(feb) = %v, %v", m, err)
	}
	if _, err := p.Month("zzz"); !errors.Is(err, ErrMonthNotFound) {
		t.Fatalf("expected ErrMonthNotFound, got %v", err)
	}
}

func TestMonthOfferLookup(t *testing.T) {
	m := MonthData{Offers: []Offer{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}}

	o, err := m.Offer("b")
	if err != nil || o.Title != "B" {
		t.Fatalf("Offer(b) = %v, %v", o, err)
	}
	if _, err := m.Offer("nope"); !errors.Is(err, ErrOfferNotFound) {
		t.Fatalf("expected ErrOfferNotFound, got %v", err)
	}
}

func TestActiveOffers(t *testing.T) {
	m := MonthData{Offers: []Offer{
		{ID: "a"}, {ID: "b", Cancelled: true}, {ID: "c"},
	}}
	active := m.ActiveOffers()
	if len(active) != 2 || active[0].ID != "a" || active[1].ID != "c" {
		t.Fatalf("ActiveOffers = %+v", active)
	}
}

func TestPlanCloneIsDeep(t *testing.T) {
	price := 5000.0
	p := Plan{{
		ID:     "jan",
		Offers: []Offer{{ID: "a", Title: "A", PriceMumbai: &price, TargetUnits: fi(10)}},
	}}
	c := p.Clone()

	c[0].Offers[0].Title = "changed"
	*c[0].Offers[0].PriceMumbai = 1
	if p[0].Offers[0].Title != "A" {
		t.Fatal("clone shares offer slice with original")
	}
	if *p[0].Offers[0].PriceMumbai != 5000 {
		t.Fatal("clone shares price pointer with original")
	}
}
