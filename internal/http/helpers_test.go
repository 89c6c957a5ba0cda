package http

import (
	"net/url"
	"testing"
)

func TestRateLimiterAllowsThenBlocks(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d blocked under the limit", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatalf("request 61 should be blocked")
	}
	if !rl.allow("10.0.0.2") {
		t.Fatalf("different client should not share the budget")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  hello\x00world  "); got != "helloworld" {
		t.Fatalf("sanitizeInput = %q", got)
	}
	if got := sanitizeInput("line1\nline2"); got != "line1\nline2" {
		t.Fatalf("newlines should survive, got %q", got)
	}
}

func TestFormPrice(t *testing.T) {
	form := url.Values{}
	if formPrice(form, "price") != nil {
		t.Fatalf("absent field should be nil")
	}

	form.Set("price", "₹12,599.50")
	p := formPrice(form, "price")
	if p == nil || *p != 12599.50 {
		t.Fatalf("formPrice = %v", p)
	}

	form.Set("price", "-100")
	if formPrice(form, "price") != nil {
		t.Fatalf("negative prices should be dropped")
	}

	form.Set("price", "free")
	if formPrice(form, "price") != nil {
		t.Fatalf("non-numeric prices should be dropped")
	}
}

func TestFormUnits(t *testing.T) {
	form := url.Values{}
	if formUnits(form, "units") != nil {
		t.Fatalf("absent field should be nil")
	}

	form.Set("units", "120")
	u := formUnits(form, "units")
	if u == nil || u.Int() != 120 {
		t.Fatalf("numeric units = %v", u)
	}

	form.Set("units", "Upsell Focus")
	u = formUnits(form, "units")
	if u == nil || u.Display() != "Upsell Focus" {
		t.Fatalf("free-text units = %v", u)
	}
}
