// Package memory provides an in-process PlanStore used in development
// and tests. Contents do not survive a restart.
package memory

import (
	"context"
	"sync"

	"offerplan/internal/store"
)

type Store struct {
	mu  sync.RWMutex
	doc store.PlanDocument
	set bool
}

func New() *Store {
	return &Store{}
}

func (s *Store) LoadPlan(_ context.Context) (store.PlanDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return store.PlanDocument{}, store.ErrNoDocument
	}
	return store.PlanDocument{
		Plan:      s.doc.Plan.Clone(),
		Revision:  s.doc.Revision,
		UpdatedAt: s.doc.UpdatedAt,
	}, nil
}

func (s *Store) SavePlan(_ context.Context, doc store.PlanDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = store.PlanDocument{
		Plan:      doc.Plan.Clone(),
		Revision:  doc.Revision,
		UpdatedAt: doc.UpdatedAt,
	}
	s.set = true
	return nil
}

func (s *Store) ClearPlan(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = store.PlanDocument{}
	s.set = false
	return nil
}
