package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"offerplan/internal/amqp"
	"offerplan/internal/core"
	"offerplan/internal/store"
	"offerplan/internal/store/memory"
)

type fakeMirror struct {
	writes    []int64
	failWrite bool
}

func (f *fakeMirror) WritePlan(_ context.Context, _ core.Plan, revision int64) error {
	if f.failWrite {
		return errors.New("sheets unavailable")
	}
	f.writes = append(f.writes, revision)
	return nil
}

func seedStore(t *testing.T, revision int64) store.PlanStore {
	t.Helper()
	st := memory.New()
	err := st.SavePlan(context.Background(), store.PlanDocument{
		Plan:      core.Plan{{ID: "jan", Name: "January"}},
		Revision:  revision,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	return st
}

func TestHandleSyncMessageMirrorsCurrentDocument(t *testing.T) {
	st := seedStore(t, 5)
	m := &fakeMirror{}
	w := NewSyncWorker(st, m)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewPlanSyncMessage(5)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}
	if len(m.writes) != 1 || m.writes[0] != 5 {
		t.Errorf("mirror writes = %v, want [5]", m.writes)
	}
}

func TestHandleSyncMessageDropsStaleRevision(t *testing.T) {
	st := seedStore(t, 5)
	m := &fakeMirror{}
	w := NewSyncWorker(st, m)
	ctx := context.Background()

	if err := w.HandleSyncMessage(ctx, amqp.NewPlanSyncMessage(5)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}
	// An older notification arriving late must not trigger a write.
	if err := w.HandleSyncMessage(ctx, amqp.NewPlanSyncMessage(3)); err != nil {
		t.Fatalf("stale HandleSyncMessage: %v", err)
	}
	if len(m.writes) != 1 {
		t.Errorf("mirror writes = %v, want one write", m.writes)
	}
}

func TestHandleSyncMessageSurfacesMirrorFailure(t *testing.T) {
	st := seedStore(t, 2)
	m := &fakeMirror{failWrite: true}
	w := NewSyncWorker(st, m)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewPlanSyncMessage(2)); err == nil {
		t.Fatal("expected mirror failure to surface for requeue")
	}
}

func TestStartupSyncCheck(t *testing.T) {
	st := seedStore(t, 7)
	m := &fakeMirror{}
	w := NewSyncWorker(st, m)

	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}
	if len(m.writes) != 1 || m.writes[0] != 7 {
		t.Errorf("mirror writes = %v, want [7]", m.writes)
	}
}

func TestStartupSyncCheckEmptyStore(t *testing.T) {
	m := &fakeMirror{}
	w := NewSyncWorker(memory.New(), m)

	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("StartupSyncCheck on empty store: %v", err)
	}
	if len(m.writes) != 0 {
		t.Errorf("mirror writes = %v, want none", m.writes)
	}
}

func TestRunPeriodicMirrorsNewRevisions(t *testing.T) {
	st := seedStore(t, 1)
	m := &fakeMirror{}
	w := NewSyncWorker(st, m)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()

	err := w.RunPeriodic(ctx, 20*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RunPeriodic returned %v, want deadline exceeded", err)
	}
	if len(m.writes) == 0 {
		t.Fatal("expected at least one periodic mirror write")
	}
	// Revision never changed after the first write, so no re-writes.
	if len(m.writes) != 1 {
		t.Errorf("mirror writes = %v, want exactly one", m.writes)
	}
}
