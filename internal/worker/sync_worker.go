// Package worker mirrors the persisted plan to the remote sheet. It is
// driven by AMQP notifications with a periodic fallback for missed
// messages; the mirror never feeds anything back into the store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"offerplan/internal/amqp"
	"offerplan/internal/mirror"
	"offerplan/internal/store"
)

type SyncWorker struct {
	store  store.PlanStore
	mirror mirror.PlanMirror

	mu           sync.Mutex
	lastMirrored int64
}

func NewSyncWorker(st store.PlanStore, m mirror.PlanMirror) *SyncWorker {
	return &SyncWorker{store: st, mirror: m}
}

// HandleSyncMessage processes one plan sync notification. Stale
// notifications are dropped: once revision N is mirrored, any pending
// message for an older revision carries nothing new.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.PlanSyncMessage) error {
	w.mu.Lock()
	mirrored := w.lastMirrored
	w.mu.Unlock()

	if msg.Revision <= mirrored {
		slog.InfoContext(ctx, "Skipping stale sync message",
			"revision", msg.Revision,
			"mirrored", mirrored)
		return nil
	}

	return w.mirrorCurrent(ctx)
}

// StartupSyncCheck mirrors the current document once at startup so the
// sheet recovers from any messages missed while the worker was down.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup sync check")
	if err := w.mirrorCurrent(ctx); err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			slog.InfoContext(ctx, "No plan document yet, nothing to mirror")
			return nil
		}
		return err
	}
	return nil
}

// RunPeriodic re-mirrors on an interval until ctx is done. This is the
// safety net for lost notifications; a revision check keeps the quiet
// case free of sheet writes.
func (w *SyncWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic sync", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			doc, err := w.store.LoadPlan(ctx)
			if err != nil {
				if errors.Is(err, store.ErrNoDocument) {
					continue
				}
				slog.ErrorContext(ctx, "Periodic sync load failed", "error", err)
				continue
			}

			w.mu.Lock()
			behind := doc.Revision > w.lastMirrored
			w.mu.Unlock()
			if !behind {
				continue
			}

			if err := w.mirrorCurrent(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
			}
		}
	}
}

// mirrorCurrent reads the stored document and writes it to the mirror.
// Reading fresh rather than trusting message payloads means a burst of
// edits costs one sheet write.
func (w *SyncWorker) mirrorCurrent(ctx context.Context) error {
	doc, err := w.store.LoadPlan(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoDocument) {
			return err
		}
		return fmt.Errorf("load plan from store: %w", err)
	}

	if err := w.mirror.WritePlan(ctx, doc.Plan, doc.Revision); err != nil {
		return fmt.Errorf("write plan to mirror: %w", err)
	}

	w.mu.Lock()
	if doc.Revision > w.lastMirrored {
		w.lastMirrored = doc.Revision
	}
	w.mu.Unlock()

	slog.InfoContext(ctx, "Plan mirrored",
		"revision", doc.Revision,
		"months", len(doc.Plan))
	return nil
}
