// Package notify is the boundary to the reminder delivery layer. The entry
// store asks for exactly one reminder when a check-in goes pending and one
// cancel when it completes or is deleted; delivery itself lives outside
// this service.
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Scheduler schedules and cancels post-meal reminders keyed by entry id.
type Scheduler interface {
	Schedule(ctx context.Context, entryID string, at time.Time) error
	Cancel(ctx context.Context, entryID string) error
}

// LogScheduler records the obligation in the log and nothing else. Used
// when no push integration is configured.
type LogScheduler struct {
	Log *zap.Logger
}

func (s LogScheduler) Schedule(_ context.Context, entryID string, at time.Time) error {
	s.Log.Info("reminder scheduled",
		zap.String("entry_id", entryID),
		zap.Time("at", at),
	)
	return nil
}

func (s LogScheduler) Cancel(_ context.Context, entryID string) error {
	s.Log.Info("reminder cancelled", zap.String("entry_id", entryID))
	return nil
}
