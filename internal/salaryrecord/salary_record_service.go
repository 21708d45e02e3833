package salaryrecord

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/salary"
	salaryrecorderrors "go-payroll/internal/salaryrecord/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/cache"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
	GenerateAllShops(ctx context.Context, month, year int) (GenerateResponse, error)
	GetAll(ctx context.Context, filter GetSalaryRecordsFilterRequest) ([]SalaryRecordResponse, error)
	GetByID(ctx context.Context, id string) (SalaryRecordResponse, error)
	Update(ctx context.Context, id string, req UpdateSalaryRecordRequest) (SalaryRecordResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (SalaryRecordResponse, error)
	Preview(ctx context.Context, req PreviewRequest) (PreviewResponse, error)
	Summary(ctx context.Context, filter SummaryFilterRequest) (SummaryResponse, error)
	SummaryByShop(ctx context.Context, month, year int) ([]SummaryResponse, error)
	Export(ctx context.Context, req ExportRequest) (ExportFile, error)
	EnsureForEmployee(ctx context.Context, shopID, employeeID string) (bool, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("salaryrecord.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("salaryrecord.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		now:    time.Now,
		logger: l,
	}
}

func validPeriod(month, year int) bool {
	return month >= 1 && month <= 12 && year >= 2000 && year <= 2100
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("generate salary sheet requested",
		zap.String("request_id", rid),
		zap.String("shop_id", req.ShopID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)

	if !validPeriod(req.Month, req.Year) {
		return GenerateResponse{}, apperror.ErrInvalidPeriod
	}
	if _, err := uuid.Parse(req.ShopID); err != nil {
		return GenerateResponse{}, salaryrecorderrors.ErrShopNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("generate salary sheet begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return GenerateResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if _, err := qtx.FindShop(ctx, req.ShopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GenerateResponse{}, salaryrecorderrors.ErrShopNotFound
		}
		return GenerateResponse{}, err
	}

	employees, err := qtx.ListEmployeesForShop(ctx, req.ShopID)
	if err != nil {
		s.logger.Error("generate salary sheet list employees failed", zap.Error(err))
		return GenerateResponse{}, err
	}

	records := make([]SalaryRecord, len(employees))
	for i, e := range employees {
		records[i] = newDefaultRecord(e, req.Month, req.Year)
	}

	created, err := qtx.InsertDefaults(ctx, records)
	if err != nil {
		s.logger.Error("generate salary sheet insert failed", zap.Error(err))
		return GenerateResponse{}, mapRepositoryError(err)
	}

	resp := GenerateResponse{
		Created: int(created),
		Skipped: len(records) - int(created),
		Total:   len(records),
	}

	if s.outbox != nil && resp.Created > 0 {
		outboxEvent, err := kafka.NewOutboxEvent(ctx, "salary_sheet", req.ShopID,
			events.EventTypeSalarySheetGenerated, events.SalarySheetTopic,
			events.SalarySheetGeneratedEvent{
				EventType:  events.EventTypeSalarySheetGenerated,
				ShopID:     req.ShopID,
				Month:      req.Month,
				Year:       req.Year,
				Created:    resp.Created,
				Skipped:    resp.Skipped,
				RequestID:  rid,
				OccurredAt: s.now().UTC(),
			})
		if err != nil {
			return GenerateResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			s.logger.Error("generate salary sheet outbox persist failed", zap.Error(err))
			return GenerateResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("generate salary sheet commit failed", zap.String("request_id", rid), zap.Error(err))
		return GenerateResponse{}, err
	}

	if resp.Created > 0 {
		s.invalidateSummaries(ctx, req.Month, req.Year)
	}

	s.logger.Info("generate salary sheet success",
		zap.String("request_id", rid),
		zap.String("shop_id", req.ShopID),
		zap.Int("created", resp.Created),
		zap.Int("skipped", resp.Skipped),
	)
	return resp, nil
}

// GenerateAllShops runs Generate for every shop. A failing shop does not stop
// the others; all failures are returned joined.
func (s *service) GenerateAllShops(ctx context.Context, month, year int) (GenerateResponse, error) {
	shops, err := s.repo.ListShops(ctx)
	if err != nil {
		s.logger.Error("generate all shops list failed", zap.Error(err))
		return GenerateResponse{}, err
	}

	var (
		total GenerateResponse
		errs  []error
	)
	for _, shop := range shops {
		resp, err := s.Generate(ctx, GenerateRequest{ShopID: shop.ID.String(), Month: month, Year: year})
		if err != nil {
			s.logger.Error("generate salary sheet for shop failed",
				zap.String("shop_id", shop.ID.String()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("shop %s: %w", shop.ID, err))
			continue
		}
		total.Created += resp.Created
		total.Skipped += resp.Skipped
		total.Total += resp.Total
	}

	return total, errors.Join(errs...)
}

func (s *service) GetAll(ctx context.Context, filter GetSalaryRecordsFilterRequest) ([]SalaryRecordResponse, error) {
	records, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all salary records failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]SalaryRecordResponse, len(records))
	for i, rec := range records {
		res[i] = MapToResponse(rec)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (SalaryRecordResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SalaryRecordResponse{}, salaryrecorderrors.ErrInvalidSalaryRecordID
	}

	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get salary record by id failed", zap.String("salary_record_id", id), zap.Error(err))
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}

	return MapToResponse(*rec), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateSalaryRecordRequest) (SalaryRecordResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(id); err != nil {
		return SalaryRecordResponse{}, salaryrecorderrors.ErrInvalidSalaryRecordID
	}
	for _, amount := range []*decimal.Decimal{req.Bonus, req.Penalty, req.AdvanceTaken, req.IncrementAdjustment} {
		if amount != nil && amount.IsNegative() {
			return SalaryRecordResponse{}, salaryrecorderrors.ErrNegativeAmount
		}
	}
	if req.Status != nil && *req.Status != StatusPaid && *req.Status != StatusPending {
		return SalaryRecordResponse{}, apperror.InvalidField("status")
	}
	s.logger.Debug("update salary record requested",
		zap.String("request_id", rid),
		zap.String("salary_record_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update salary record begin tx failed", zap.Error(err))
		return SalaryRecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		s.logger.Warn("update salary record fetch failed", zap.String("salary_record_id", id), zap.Error(err))
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}

	entries, err := qtx.CountLeaveEntries(ctx, id)
	if err != nil {
		s.logger.Error("update salary record count leave entries failed", zap.Error(err))
		return SalaryRecordResponse{}, err
	}
	if entries > 0 && (req.AttendanceDays != nil || req.LeaveUnpaid != nil) {
		return SalaryRecordResponse{}, salaryrecorderrors.ErrLeaveManagedByEntries
	}

	paidLeave := rec.PaidLeave
	if req.PaidLeave != nil {
		paidLeave = *req.PaidLeave
	}

	var days salary.Days
	switch {
	case entries > 0:
		days = salary.FromLeaveCount(int(entries), paidLeave)
	case req.AttendanceDays != nil:
		days = salary.FromAttendance(*req.AttendanceDays, paidLeave)
	case req.LeaveUnpaid != nil:
		days = salary.FromUnpaidLeave(*req.LeaveUnpaid, paidLeave)
	default:
		days = salary.FromAttendance(rec.AttendanceDays, paidLeave)
	}
	rec.AttendanceDays = days.Attendance
	rec.LeaveUnpaid = days.LeaveUnpaid
	rec.PaidLeave = days.PaidLeave

	if req.Bonus != nil {
		rec.Bonus = req.Bonus.Round(2)
	}
	if req.Penalty != nil {
		rec.Penalty = req.Penalty.Round(2)
	}
	if req.AdvanceTaken != nil {
		rec.AdvanceTaken = req.AdvanceTaken.Round(2)
	}
	if req.IncrementAdjustment != nil {
		rec.IncrementAdjustment = req.IncrementAdjustment.Round(2)
	}
	if req.Notes != nil {
		notes := strings.TrimSpace(*req.Notes)
		if notes == "" {
			rec.Notes = nil
		} else {
			rec.Notes = &notes
		}
	}

	previousStatus := rec.Status
	if req.Status != nil {
		rec.Status = *req.Status
	}

	Recalculate(rec)

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("update salary record persist failed", zap.Error(err))
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}

	if rec.Status != previousStatus {
		if err := s.writeStatusChanged(ctx, tx, rec, previousStatus); err != nil {
			return SalaryRecordResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update salary record commit failed", zap.Error(err))
		return SalaryRecordResponse{}, err
	}

	s.invalidateSummaries(ctx, rec.Month, rec.Year)

	s.logger.Info("update salary record success",
		zap.String("request_id", rid),
		zap.String("salary_record_id", id),
		zap.String("total", rec.TotalCalculated.StringFixed(2)),
	)
	return MapToResponse(*rec), nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (SalaryRecordResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return SalaryRecordResponse{}, salaryrecorderrors.ErrInvalidSalaryRecordID
	}
	if req.Status != StatusPaid && req.Status != StatusPending {
		return SalaryRecordResponse{}, apperror.InvalidField("status")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update salary status begin tx failed", zap.Error(err))
		return SalaryRecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}

	if rec.Status == req.Status {
		return MapToResponse(*rec), nil
	}

	previousStatus := rec.Status
	rec.Status = req.Status
	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("update salary status persist failed", zap.Error(err))
		return SalaryRecordResponse{}, mapRepositoryError(err)
	}
	if err := s.writeStatusChanged(ctx, tx, rec, previousStatus); err != nil {
		return SalaryRecordResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update salary status commit failed", zap.Error(err))
		return SalaryRecordResponse{}, err
	}

	s.invalidateSummaries(ctx, rec.Month, rec.Year)

	s.logger.Info("update salary status success",
		zap.String("salary_record_id", id),
		zap.String("from", previousStatus),
		zap.String("to", rec.Status),
	)
	return MapToResponse(*rec), nil
}

func (s *service) writeStatusChanged(ctx context.Context, tx *sql.Tx, rec *SalaryRecord, from string) error {
	if s.outbox == nil {
		return nil
	}

	outboxEvent, err := kafka.NewOutboxEvent(ctx, "salary_record", rec.ID.String(),
		events.EventTypeSalaryStatusChanged, events.SalarySheetTopic,
		events.SalaryRecordStatusChangedEvent{
			EventType:      events.EventTypeSalaryStatusChanged,
			SalaryRecordID: rec.ID.String(),
			EmployeeID:     rec.EmployeeID.String(),
			ShopID:         rec.ShopID.String(),
			Month:          rec.Month,
			Year:           rec.Year,
			FromStatus:     from,
			ToStatus:       rec.Status,
			ChangedBy:      contextutil.GetUserID(ctx),
			RequestID:      contextutil.GetRequestID(ctx),
			OccurredAt:     s.now().UTC(),
		})
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.logger.Error("salary status outbox persist failed",
			zap.String("salary_record_id", rec.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) Preview(ctx context.Context, req PreviewRequest) (PreviewResponse, error) {
	for _, amount := range []decimal.Decimal{req.BaseSalary, req.Bonus, req.IncrementAdjustment, req.AdvanceTaken, req.Penalty} {
		if amount.IsNegative() {
			return PreviewResponse{}, salaryrecorderrors.ErrNegativeAmount
		}
	}

	var days salary.Days
	switch {
	case req.AttendanceDays != nil:
		days = salary.FromAttendance(*req.AttendanceDays, req.PaidLeave)
	case req.LeaveUnpaid != nil:
		days = salary.FromUnpaidLeave(*req.LeaveUnpaid, req.PaidLeave)
	default:
		days = salary.FromAttendance(salary.DaysPerMonth, req.PaidLeave)
	}

	total := salary.Calculate(salary.Input{
		BaseSalary:          req.BaseSalary,
		AttendanceDays:      days.Attendance,
		PaidLeave:           days.PaidLeave,
		Bonus:               req.Bonus,
		IncrementAdjustment: req.IncrementAdjustment,
		AdvanceTaken:        req.AdvanceTaken,
		Penalty:             req.Penalty,
	})

	return PreviewResponse{
		AttendanceDays: days.Attendance,
		LeaveUnpaid:    days.LeaveUnpaid,
		PaidLeave:      days.PaidLeave,
		DailyRate:      salary.DailyRate(req.BaseSalary),
		Total:          total,
	}, nil
}

func (s *service) Export(ctx context.Context, req ExportRequest) (ExportFile, error) {
	format := req.Format
	if format == "" {
		format = "pdf"
	}
	if format != "pdf" && format != "xlsx" {
		return ExportFile{}, salaryrecorderrors.ErrUnsupportedFormat
	}
	if !validPeriod(req.Month, req.Year) {
		return ExportFile{}, apperror.ErrInvalidPeriod
	}

	shop, err := s.repo.FindShop(ctx, req.ShopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExportFile{}, salaryrecorderrors.ErrShopNotFound
		}
		return ExportFile{}, err
	}

	records, err := s.repo.FindAll(ctx, GetSalaryRecordsFilterRequest{
		ShopID:           req.ShopID,
		Month:            req.Month,
		Year:             req.Year,
		EmployeeID:       req.EmployeeID,
		WithLeaveEntries: true,
	})
	if err != nil {
		s.logger.Error("export salary sheet query failed", zap.Error(err))
		return ExportFile{}, err
	}
	if len(records) == 0 {
		return ExportFile{}, salaryrecorderrors.ErrNoRecordsToExport
	}

	sheet := NewSheet(shop.Name, req.Month, req.Year, records)

	var file ExportFile
	switch format {
	case "xlsx":
		file.Body, err = RenderXLSX(sheet)
		file.ContentType = ContentTypeXLSX
	default:
		file.Body, err = RenderPDF(sheet)
		file.ContentType = ContentTypePDF
	}
	if err != nil {
		s.logger.Error("render salary sheet failed", zap.String("format", format), zap.Error(err))
		return ExportFile{}, err
	}
	file.Filename = sheet.Filename() + "." + format

	s.logger.Info("export salary sheet success",
		zap.String("shop_id", req.ShopID),
		zap.String("format", format),
		zap.Int("rows", len(records)),
	)
	return file, nil
}

// EnsureForEmployee gives a newly created employee a default record for the
// current month, but only once their shop's sheet for that month exists.
func (s *service) EnsureForEmployee(ctx context.Context, shopID, employeeID string) (bool, error) {
	now := s.now()
	month, year := int(now.Month()), now.Year()

	exists, err := s.repo.HasPeriod(ctx, shopID, month, year)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	empl, err := s.repo.FindEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, salaryrecorderrors.ErrEmployeeNotFound
		}
		return false, err
	}

	created, err := s.repo.InsertDefaults(ctx, []SalaryRecord{newDefaultRecord(*empl, month, year)})
	if err != nil {
		return false, err
	}
	if created > 0 {
		s.invalidateSummaries(ctx, month, year)
	}

	s.logger.Info("ensure salary record for employee",
		zap.String("employee_id", employeeID),
		zap.Bool("created", created > 0),
	)
	return created > 0, nil
}

func (s *service) invalidateSummaries(ctx context.Context, month, year int) {
	if err := cache.InvalidatePayrollSummaries(ctx, s.rdb, cache.PayrollSummaryPeriodPattern(year, month)); err != nil {
		s.logger.Error("failed to invalidate payroll summary cache",
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Error(err),
		)
	}
}

func newDefaultRecord(e employee.Employee, month, year int) SalaryRecord {
	days := salary.FullMonth()
	rec := SalaryRecord{
		ID:                  uuid.New(),
		EmployeeID:          e.ID,
		ShopID:              e.ShopID,
		Month:               month,
		Year:                year,
		AttendanceDays:      days.Attendance,
		LeaveUnpaid:         days.LeaveUnpaid,
		PaidLeave:           days.PaidLeave,
		Bonus:               decimal.Zero,
		Penalty:             decimal.Zero,
		AdvanceTaken:        decimal.Zero,
		IncrementAdjustment: decimal.Zero,
		Status:              StatusPending,
		DaysInMonth:         DaysInMonth(month, year),
		Employee:            e,
	}
	Recalculate(&rec)
	return rec
}

// Recalculate refreshes TotalCalculated from the stored inputs and the
// employee's base salary.
func Recalculate(rec *SalaryRecord) {
	rec.TotalCalculated = salary.Calculate(salary.Input{
		BaseSalary:          rec.Employee.BaseSalary,
		AttendanceDays:      rec.AttendanceDays,
		PaidLeave:           rec.PaidLeave,
		Bonus:               rec.Bonus,
		IncrementAdjustment: rec.IncrementAdjustment,
		AdvanceTaken:        rec.AdvanceTaken,
		Penalty:             rec.Penalty,
	})
}

func MapToResponse(rec SalaryRecord) SalaryRecordResponse {
	res := SalaryRecordResponse{
		ID:                  rec.ID.String(),
		EmployeeID:          rec.EmployeeID.String(),
		ShopID:              rec.ShopID.String(),
		EmployeeName:        rec.Employee.Name,
		EmployeeCode:        rec.Employee.EmployeeCode,
		Designation:         rec.Employee.Designation,
		BaseSalary:          rec.Employee.BaseSalary,
		Month:               rec.Month,
		Year:                rec.Year,
		AttendanceDays:      rec.AttendanceDays,
		LeaveUnpaid:         rec.LeaveUnpaid,
		PaidLeave:           rec.PaidLeave,
		Bonus:               rec.Bonus,
		Penalty:             rec.Penalty,
		AdvanceTaken:        rec.AdvanceTaken,
		IncrementAdjustment: rec.IncrementAdjustment,
		TotalCalculated:     rec.TotalCalculated,
		Status:              rec.Status,
		DaysInMonth:         rec.DaysInMonth,
		Notes:               rec.Notes,
		UpdatedAt:           rec.UpdatedAt.Format(time.RFC3339),
	}
	for _, e := range rec.LeaveEntries {
		res.LeaveEntries = append(res.LeaveEntries, MapLeaveEntry(e))
	}
	return res
}

func MapLeaveEntry(e LeaveEntry) LeaveEntryResponse {
	return LeaveEntryResponse{
		ID:        e.ID.String(),
		LeaveDate: e.LeaveDate.Format(time.DateOnly),
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
}
