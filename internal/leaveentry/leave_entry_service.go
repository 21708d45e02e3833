package leaveentry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	leaveentryerrors "go-payroll/internal/leaveentry/errors"
	"go-payroll/internal/salary"
	"go-payroll/internal/salaryrecord"
	salaryrecorderrors "go-payroll/internal/salaryrecord/errors"
	"go-payroll/internal/shared/cache"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	List(ctx context.Context, recordID string) ([]salaryrecord.LeaveEntryResponse, error)
	Add(ctx context.Context, recordID string, req CreateLeaveEntryRequest) (MutationResponse, error)
	Remove(ctx context.Context, recordID, entryID string) (MutationResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	records salaryrecord.Repository
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, records salaryrecord.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leaveentry.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaveentry.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		records: records,
		rdb:     rdb,
		logger:  l,
	}
}

func (s *service) List(ctx context.Context, recordID string) ([]salaryrecord.LeaveEntryResponse, error) {
	if _, err := uuid.Parse(recordID); err != nil {
		return nil, salaryrecorderrors.ErrInvalidSalaryRecordID
	}

	rec, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		return nil, recordError(err)
	}

	res := make([]salaryrecord.LeaveEntryResponse, len(rec.LeaveEntries))
	for i, e := range rec.LeaveEntries {
		res[i] = salaryrecord.MapLeaveEntry(e)
	}
	return res, nil
}

func (s *service) Add(ctx context.Context, recordID string, req CreateLeaveEntryRequest) (MutationResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(recordID); err != nil {
		return MutationResponse{}, salaryrecorderrors.ErrInvalidSalaryRecordID
	}
	leaveDate, err := time.Parse(time.DateOnly, req.LeaveDate)
	if err != nil {
		return MutationResponse{}, leaveentryerrors.ErrInvalidLeaveDate
	}
	s.logger.Debug("add leave entry requested",
		zap.String("request_id", rid),
		zap.String("salary_record_id", recordID),
		zap.String("leave_date", req.LeaveDate),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("add leave entry begin tx failed", zap.Error(err))
		return MutationResponse{}, err
	}
	defer tx.Rollback()

	rtx := s.records.WithTx(tx)
	rec, err := rtx.FindByIDForUpdate(ctx, recordID)
	if err != nil {
		return MutationResponse{}, recordError(err)
	}
	if !rec.InPeriod(leaveDate) {
		return MutationResponse{}, leaveentryerrors.ErrLeaveDateOutsidePeriod
	}

	entry := &salaryrecord.LeaveEntry{
		ID:             uuid.New(),
		SalaryRecordID: rec.ID,
		LeaveDate:      leaveDate,
		Reason:         strings.TrimSpace(req.Reason),
	}
	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		s.logger.Warn("add leave entry persist failed", zap.Error(err))
		return MutationResponse{}, mapRepositoryError(err)
	}

	if err := s.reconcile(ctx, rtx, rec); err != nil {
		return MutationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("add leave entry commit failed", zap.Error(err))
		return MutationResponse{}, err
	}

	s.invalidateSummaries(ctx, rec)

	s.logger.Info("add leave entry success",
		zap.String("request_id", rid),
		zap.String("salary_record_id", recordID),
		zap.Int("leave_unpaid", rec.LeaveUnpaid),
	)

	resp := salaryrecord.MapLeaveEntry(*entry)
	return MutationResponse{Entry: &resp, Record: toReconciled(rec)}, nil
}

func (s *service) Remove(ctx context.Context, recordID, entryID string) (MutationResponse, error) {
	if _, err := uuid.Parse(recordID); err != nil {
		return MutationResponse{}, salaryrecorderrors.ErrInvalidSalaryRecordID
	}
	if _, err := uuid.Parse(entryID); err != nil {
		return MutationResponse{}, leaveentryerrors.ErrInvalidLeaveEntryID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("remove leave entry begin tx failed", zap.Error(err))
		return MutationResponse{}, err
	}
	defer tx.Rollback()

	rtx := s.records.WithTx(tx)
	rec, err := rtx.FindByIDForUpdate(ctx, recordID)
	if err != nil {
		return MutationResponse{}, recordError(err)
	}

	if err := s.repo.WithTx(tx).Delete(ctx, recordID, entryID); err != nil {
		return MutationResponse{}, mapRepositoryError(err)
	}

	if err := s.reconcile(ctx, rtx, rec); err != nil {
		return MutationResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("remove leave entry commit failed", zap.Error(err))
		return MutationResponse{}, err
	}

	s.invalidateSummaries(ctx, rec)

	s.logger.Info("remove leave entry success",
		zap.String("salary_record_id", recordID),
		zap.String("leave_entry_id", entryID),
	)
	return MutationResponse{Record: toReconciled(rec)}, nil
}

// reconcile derives the day partition from the entry count and saves the
// recomputed record. Must run inside the transaction holding the row lock.
func (s *service) reconcile(ctx context.Context, rtx salaryrecord.Repository, rec *salaryrecord.SalaryRecord) error {
	count, err := rtx.CountLeaveEntries(ctx, rec.ID.String())
	if err != nil {
		s.logger.Error("count leave entries failed", zap.Error(err))
		return err
	}

	days := salary.FromLeaveCount(int(count), rec.PaidLeave)
	rec.AttendanceDays = days.Attendance
	rec.LeaveUnpaid = days.LeaveUnpaid
	rec.PaidLeave = days.PaidLeave
	salaryrecord.Recalculate(rec)

	if err := rtx.Update(ctx, rec); err != nil {
		s.logger.Error("save reconciled salary record failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *service) invalidateSummaries(ctx context.Context, rec *salaryrecord.SalaryRecord) {
	if err := cache.InvalidatePayrollSummaries(ctx, s.rdb, cache.PayrollSummaryPeriodPattern(rec.Year, rec.Month)); err != nil {
		s.logger.Error("failed to invalidate payroll summary cache", zap.Error(err))
	}
}

func recordError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return salaryrecorderrors.ErrSalaryRecordNotFound
	}
	return err
}

func toReconciled(rec *salaryrecord.SalaryRecord) ReconciledRecord {
	return ReconciledRecord{
		ID:              rec.ID.String(),
		AttendanceDays:  rec.AttendanceDays,
		LeaveUnpaid:     rec.LeaveUnpaid,
		PaidLeave:       rec.PaidLeave,
		TotalCalculated: rec.TotalCalculated,
	}
}
