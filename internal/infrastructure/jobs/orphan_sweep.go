package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"monthly-club.backend/internal/usecases"
	"monthly-club.backend/pkg/logger"
)

type orphanSweeper interface {
	Sweep(ctx context.Context, limit int) (*usecases.SweepResult, error)
}

// OrphanSweepJob periodically deletes processor objects that were created
// remotely but never linked to a local record.
type OrphanSweepJob struct {
	sweeper  orphanSweeper
	interval time.Duration
	batch    int
	stop     chan struct{}
}

func NewOrphanSweepJob(sweeper orphanSweeper, interval time.Duration, batch int) *OrphanSweepJob {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if batch <= 0 {
		batch = 50
	}
	return &OrphanSweepJob{
		sweeper:  sweeper,
		interval: interval,
		batch:    batch,
		stop:     make(chan struct{}),
	}
}

func (j *OrphanSweepJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting orphan sweep job", zap.Duration("interval", j.interval), zap.Int("batch", j.batch))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Orphan sweep job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Orphan sweep job stopped")
			return
		case <-ticker.C:
			j.sweepOnce(ctx)
		}
	}
}

func (j *OrphanSweepJob) Stop() {
	close(j.stop)
}

func (j *OrphanSweepJob) sweepOnce(ctx context.Context) {
	result, err := j.sweeper.Sweep(ctx, j.batch)
	if err != nil {
		logger.Error(ctx, "Orphan sweep failed", zap.Error(err))
		return
	}
	if result.Resolved+result.Failed == 0 {
		return
	}
	logger.Info(ctx, "Orphan sweep processed batch", zap.Int("resolved", result.Resolved), zap.Int("failed", result.Failed))
}
