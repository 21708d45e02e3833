package producer

import (
	"context"
	"time"

	"go-payroll/internal/messaging/kafka"

	"go.uber.org/zap"
)

// PurgeSentEvents removes sent outbox rows processed more than retention ago.
// A non positive retention keeps everything.
func PurgeSentEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	retention time.Duration,
	now time.Time,
	logger *zap.Logger,
) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}

	deleted, err := repo.DeleteSentBefore(ctx, now.Add(-retention))
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		logger.Info("purged sent outbox events", zap.Int64("deleted", deleted), zap.Duration("retention", retention))
	}
	return deleted, nil
}
