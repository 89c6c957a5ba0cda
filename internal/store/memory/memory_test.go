package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"offerplan/internal/core"
	"offerplan/internal/store"
)

func testDoc(revision int64) store.PlanDocument {
	return store.PlanDocument{
		Plan: core.Plan{
			{ID: "jan", Name: "January", Theme: "Reset", Offers: []core.Offer{
				{ID: "o1", Title: "Fresh Start", Type: core.TypeNew},
			}},
		},
		Revision:  revision,
		UpdatedAt: time.Now().UTC(),
	}
}

func TestEmptyStoreReturnsErrNoDocument(t *testing.T) {
	s := New()
	if _, err := s.LoadPlan(context.Background()); !errors.Is(err, store.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.SavePlan(ctx, testDoc(3)); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	got, err := s.LoadPlan(ctx)
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if got.Revision != 3 {
		t.Errorf("revision = %d, want 3", got.Revision)
	}
	if len(got.Plan) != 1 || got.Plan[0].ID != "jan" {
		t.Errorf("unexpected plan contents: %+v", got.Plan)
	}
}

func TestLoadReturnsIsolatedCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.SavePlan(ctx, testDoc(1)); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	first, _ := s.LoadPlan(ctx)
	first.Plan[0].Offers[0].Title = "mutated"

	second, _ := s.LoadPlan(ctx)
	if second.Plan[0].Offers[0].Title != "Fresh Start" {
		t.Error("mutation of a loaded document leaked into the store")
	}
}

func TestClearPlan(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.SavePlan(ctx, testDoc(1)); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	if err := s.ClearPlan(ctx); err != nil {
		t.Fatalf("ClearPlan: %v", err)
	}
	if _, err := s.LoadPlan(ctx); !errors.Is(err, store.ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument after clear, got %v", err)
	}
	// Clearing twice is fine.
	if err := s.ClearPlan(ctx); err != nil {
		t.Fatalf("second ClearPlan: %v", err)
	}
}
