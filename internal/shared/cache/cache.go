package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	PayrollSummaryKeyPrefix = "payroll:summary:"
	// PayrollSummaryEpochKey is bumped on every summary invalidation. It sits
	// outside the summary key pattern.
	PayrollSummaryEpochKey = "payroll:summary-epoch"
)

// PayrollSummaryKey identifies a cached summary computed at the given epoch.
// An empty shopID is the all-shops summary.
func PayrollSummaryKey(year, month int, shopID string, epoch int64) string {
	if shopID == "" {
		shopID = "all"
	}
	return fmt.Sprintf("%s%d:%d:%s:e%d", PayrollSummaryKeyPrefix, year, month, shopID, epoch)
}

// PayrollSummaryEpoch reads the current invalidation epoch. A missing key is
// epoch 0.
func PayrollSummaryEpoch(ctx context.Context, rdb *redis.Client) (int64, error) {
	epoch, err := rdb.Get(ctx, PayrollSummaryEpochKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return epoch, err
}

// InvalidatePayrollSummaries moves the epoch forward, so fills that read the
// database before the write land on keys nobody reads again, then drops the
// keys matching pattern. A nil client is a no-op.
func InvalidatePayrollSummaries(ctx context.Context, rdb *redis.Client, pattern string) error {
	if rdb == nil {
		return nil
	}
	if err := rdb.Incr(ctx, PayrollSummaryEpochKey).Err(); err != nil {
		return fmt.Errorf("bump summary epoch: %w", err)
	}
	return DeleteKeysByPattern(ctx, rdb, pattern)
}

// PayrollSummaryPeriodPattern matches every summary of one period.
func PayrollSummaryPeriodPattern(year, month int) string {
	return fmt.Sprintf("%s%d:%d:*", PayrollSummaryKeyPrefix, year, month)
}

// DeleteKeysByPattern removes every key matching pattern. A nil client is a no-op.
func DeleteKeysByPattern(ctx context.Context, rdb *redis.Client, pattern string) error {
	if rdb == nil {
		return nil
	}

	iter := rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("delete key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan keys %s: %w", pattern, err)
	}
	return nil
}
