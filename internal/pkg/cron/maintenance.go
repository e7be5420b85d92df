package cron

import (
	"context"
	"log/slog"
	"time"
)

// SnapshotPruner drops cached source snapshots older than its retention.
type SnapshotPruner interface {
	Prune(now time.Time) int
}

// TokenPurger forgets revoked tokens that have expired anyway.
type TokenPurger interface {
	PurgeRevoked(now time.Time) int
}

type MaintenanceJobs struct {
	snapshots SnapshotPruner
	tokens    TokenPurger

	snapshotInterval time.Duration
	tokenInterval    time.Duration

	now func() time.Time
}

func NewMaintenanceJobs(snapshots SnapshotPruner, tokens TokenPurger, snapshotInterval, tokenInterval time.Duration) *MaintenanceJobs {
	return &MaintenanceJobs{
		snapshots:        snapshots,
		tokens:           tokens,
		snapshotInterval: snapshotInterval,
		tokenInterval:    tokenInterval,
		now:              time.Now,
	}
}

func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler) {
	if j.snapshots != nil && j.snapshotInterval > 0 {
		scheduler.AddDelayedJob("prune_stale_snapshots", j.snapshotInterval, j.PruneStaleSnapshots)
	}
	if j.tokens != nil && j.tokenInterval > 0 {
		scheduler.AddDelayedJob("purge_revoked_tokens", j.tokenInterval, j.PurgeRevokedTokens)
	}
}

func (j *MaintenanceJobs) PruneStaleSnapshots(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n := j.snapshots.Prune(j.now()); n > 0 {
		slog.Info("Cron: pruned stale snapshots", "count", n)
	}
	return nil
}

func (j *MaintenanceJobs) PurgeRevokedTokens(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n := j.tokens.PurgeRevoked(j.now()); n > 0 {
		slog.Info("Cron: purged revoked tokens", "count", n)
	}
	return nil
}
