// Package store defines the persistence port for plan documents and the
// factory that selects a backend from configuration.
package store

import (
	"context"
	"errors"
	"time"

	"offerplan/internal/core"
)

// ErrNoDocument is returned by LoadPlan when no plan has been saved yet.
var ErrNoDocument = errors.New("store: no plan document")

// PlanDocument is the unit of persistence: the whole year as one
// document plus a monotonically increasing revision used by the sync
// worker to detect staleness.
type PlanDocument struct {
	Plan      core.Plan `json:"plan"`
	Revision  int64     `json:"revision"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PlanStore persists the plan as a single document. Implementations
// must be safe for concurrent use.
type PlanStore interface {
	// LoadPlan returns the stored document, or ErrNoDocument when the
	// store is empty.
	LoadPlan(ctx context.Context) (PlanDocument, error)

	// SavePlan replaces the stored document.
	SavePlan(ctx context.Context, doc PlanDocument) error

	// ClearPlan removes the stored document. Clearing an empty store
	// is not an error.
	ClearPlan(ctx context.Context) error
}
