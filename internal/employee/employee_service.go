package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/shared/cache"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	EmployeeOptionsKeyPrefix = "employees:options:"
	employeeOptionsTTL       = time.Hour
)

// GetEmployeeOptionsKey returns the cache key of one shop's options, or of
// the unfiltered list when shopID is empty.
func GetEmployeeOptionsKey(shopID string) string {
	if shopID == "" {
		shopID = "all"
	}
	return EmployeeOptionsKeyPrefix + shopID
}

type Service interface {
	Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, shopID string) ([]EmployeeOption, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("shop_id", req.ShopID),
	)

	if req.BaseSalary.IsNegative() {
		return EmployeeResponse{}, employeeerrors.ErrNegativeBaseSalary
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	exists, err := qtx.ShopExists(ctx, req.ShopID)
	if err != nil {
		s.logger.Error("create employee shop lookup failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	if !exists {
		return EmployeeResponse{}, employeeerrors.ErrShopNotFound
	}

	code := strings.TrimSpace(req.EmployeeCode)
	if code == "" {
		nextVal, err := s.counter.WithTx(tx).GetNextValue(ctx, req.ShopID, counter.TypeEmployeeCode)
		if err != nil {
			s.logger.Error("create employee generate code failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		code = fmt.Sprintf("EMP-%04d", nextVal)
	}

	empl := &Employee{
		ID:           uuid.New(),
		ShopID:       uuid.MustParse(req.ShopID),
		EmployeeCode: code,
		Name:         strings.TrimSpace(req.Name),
		Designation:  strings.TrimSpace(req.Designation),
		BaseSalary:   req.BaseSalary.Round(2),
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		outboxEvent, err := kafka.NewOutboxEvent(ctx, "employee", empl.ID.String(),
			events.EventTypeEmployeeCreated, events.EmployeeLifecycleTopic,
			events.EmployeeCreatedEvent{
				EventType:  events.EventTypeEmployeeCreated,
				EmployeeID: empl.ID.String(),
				ShopID:     req.ShopID,
				RequestID:  rid,
				OccurredAt: time.Now().UTC(),
			})
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, req.ShopID)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_code", empl.EmployeeCode),
	)
	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context, filter GetEmployeesFilterRequest) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("shop_id", filter.ShopID))

	employees, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(employees), nil
}

func (s *service) GetOptions(ctx context.Context, shopID string) ([]EmployeeOption, error) {
	cacheKey := GetEmployeeOptionsKey(shopID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		employees, err := s.repo.FindOptions(ctx, shopID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]EmployeeOption, len(employees))
		for i, e := range employees {
			resp[i] = EmployeeOption{
				ID:           e.ID.String(),
				Name:         e.Name,
				EmployeeCode: e.EmployeeCode,
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, employeeOptionsTTL)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	empl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	if req.BaseSalary.IsNegative() {
		return EmployeeResponse{}, employeeerrors.ErrNegativeBaseSalary
	}
	s.logger.Debug("update employee requested",
		zap.String("employee_id", id),
		zap.String("shop_id", req.ShopID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		s.logger.Warn("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	previousShop := empl.ShopID.String()
	if req.ShopID != previousShop {
		exists, err := qtx.ShopExists(ctx, req.ShopID)
		if err != nil {
			return EmployeeResponse{}, err
		}
		if !exists {
			return EmployeeResponse{}, employeeerrors.ErrShopNotFound
		}
		empl.ShopID = uuid.MustParse(req.ShopID)
	}

	empl.Name = strings.TrimSpace(req.Name)
	empl.Designation = strings.TrimSpace(req.Designation)
	empl.BaseSalary = req.BaseSalary.Round(2)
	if code := strings.TrimSpace(req.EmployeeCode); code != "" {
		empl.EmployeeCode = code
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	var movedRecords int64
	if req.ShopID != previousShop {
		movedRecords, err = qtx.MovePendingSalaryRecords(ctx, id, req.ShopID)
		if err != nil {
			s.logger.Error("update employee move salary records failed",
				zap.String("employee_id", id),
				zap.String("shop_id", req.ShopID),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, previousShop, req.ShopID)
	if movedRecords > 0 {
		s.invalidateSummaries(ctx)
	}

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}
	s.logger.Debug("delete employee requested", zap.String("employee_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptions(ctx, empl.ShopID.String())
	// cascaded salary records leave stale summaries behind
	s.invalidateSummaries(ctx)

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateSummaries(ctx context.Context) {
	if err := cache.InvalidatePayrollSummaries(ctx, s.rdb, cache.PayrollSummaryKeyPrefix+"*"); err != nil {
		s.logger.Error("failed to invalidate payroll summary cache", zap.Error(err))
	}
}

// invalidateOptions drops the unfiltered options list and the list of every
// shop touched by a write.
func (s *service) invalidateOptions(ctx context.Context, shopIDs ...string) {
	if s.rdb == nil {
		return
	}

	keys := []string{GetEmployeeOptionsKey("")}
	seen := map[string]bool{}
	for _, id := range shopIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, GetEmployeeOptionsKey(id))
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.Strings("keys", keys),
		)
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID.String(),
		ShopID:       e.ShopID.String(),
		EmployeeCode: e.EmployeeCode,
		Name:         e.Name,
		Designation:  e.Designation,
		BaseSalary:   e.BaseSalary,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(employees []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		res[i] = mapToResponse(e)
	}
	return res
}
