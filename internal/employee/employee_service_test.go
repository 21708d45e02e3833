package employee_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/shared/cache"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"

	employeeMock "go-payroll/internal/employee/mock"
	"go-payroll/internal/messaging/kafka"
	kafkaMock "go-payroll/internal/messaging/kafka/mock"
	counterMock "go-payroll/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   employee.Service
	repo      *employeeMock.MockRepository
	counter   *counterMock.MockRepository
	redismock redismock.ClientMock
	outbox    *kafkaMock.MockOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, _ := sqlmock.New()
	dbRedis, redisMock := redismock.NewClientMock()
	repo := employeeMock.NewMockRepository(ctrl)
	counterRepo := counterMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)

	svc := employee.NewServiceWithOutbox(db, repo, counterRepo, outboxRepo, dbRedis)

	return &serviceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		counter:   counterRepo,
		outbox:    outboxRepo,
		redismock: redisMock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestEmployeeService_Create(t *testing.T) {
	shopID := uuid.New().String()

	t.Run("success - auto generate employee code", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		ctx := contextutil.WithRequestID(context.Background(), "REQ-1")
		req := employee.CreateEmployeeRequest{
			ShopID:      shopID,
			Name:        " Rina ",
			Designation: "Cashier",
			BaseSalary:  decimal.RequireFromString("15000"),
		}

		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ShopExists(ctx, shopID).Return(true, nil)
		deps.counter.EXPECT().WithTx(gomock.Any()).Return(deps.counter)
		deps.counter.EXPECT().
			GetNextValue(ctx, shopID, counter.TypeEmployeeCode).
			Return(int64(7), nil)

		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "EMP-0007", e.EmployeeCode)
				assert.Equal(t, "Rina", e.Name)
				assert.Equal(t, shopID, e.ShopID.String())
				assert.True(t, e.BaseSalary.Equal(decimal.NewFromInt(15000)))
				return nil
			})

		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().
			Create(ctx, MatchOutboxWithRID("REQ-1", shopID)).
			Return(nil)

		deps.redismock.ExpectDel(employee.GetEmployeeOptionsKey(""), employee.GetEmployeeOptionsKey(shopID)).SetVal(1)

		resp, err := deps.service.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "EMP-0007", resp.EmployeeCode)
		assert.Equal(t, "Cashier", resp.Designation)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("explicit code skips the counter", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		ctx := context.Background()
		expectTx(t, deps.sqlMock, true)

		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ShopExists(ctx, shopID).Return(true, nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "S-99", e.EmployeeCode)
				return nil
			})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(employee.GetEmployeeOptionsKey(""), employee.GetEmployeeOptionsKey(shopID)).SetVal(2)

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{ShopID: shopID, Name: "Ali", EmployeeCode: "S-99"})

		require.NoError(t, err)
	})

	t.Run("negative base salary", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(context.Background(), employee.CreateEmployeeRequest{
			ShopID:     shopID,
			Name:       "Ali",
			BaseSalary: decimal.NewFromInt(-1),
		})

		assert.ErrorIs(t, err, employeeerrors.ErrNegativeBaseSalary)
	})

	t.Run("unknown shop", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		ctx := context.Background()
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ShopExists(ctx, shopID).Return(false, nil)

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{ShopID: shopID, Name: "Ali"})

		assert.ErrorIs(t, err, employeeerrors.ErrShopNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("duplicate code -> conflict and rollback", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		ctx := context.Background()
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ShopExists(ctx, shopID).Return(true, nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employee_code"})

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{ShopID: shopID, Name: "Ali", EmployeeCode: "EMP-0001"})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeCodeAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		ctx := context.Background()
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().ShopExists(ctx, shopID).Return(true, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("outbox down"))

		_, err := deps.service.Create(ctx, employee.CreateEmployeeRequest{ShopID: shopID, Name: "Ali", EmployeeCode: "X"})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetAll(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	filter := employee.GetEmployeesFilterRequest{ShopID: uuid.New().String(), Q: "an"}

	t.Run("success", func(t *testing.T) {
		deps.repo.EXPECT().
			FindAll(ctx, filter).
			Return([]employee.Employee{
				{ID: uuid.New(), Name: "Andi", EmployeeCode: "EMP-0001"},
				{ID: uuid.New(), Name: "Hana", EmployeeCode: "EMP-0002"},
			}, nil)

		resp, err := deps.service.GetAll(ctx, filter)

		assert.NoError(t, err)
		assert.Len(t, resp, 2)
		assert.Equal(t, "Andi", resp[0].Name)
	})

	t.Run("error repository", func(t *testing.T) {
		deps.repo.EXPECT().FindAll(ctx, filter).Return(nil, errors.New("db error"))

		resp, err := deps.service.GetAll(ctx, filter)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the database", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		shopID := uuid.New().String()
		cached, _ := json.Marshal([]employee.EmployeeOption{{ID: "e1", Name: "Caca", EmployeeCode: "EMP-0001"}})
		deps.redismock.ExpectGet(employee.GetEmployeeOptionsKey(shopID)).SetVal(string(cached))

		resp, err := deps.service.GetOptions(ctx, shopID)

		assert.NoError(t, err)
		require.Len(t, resp, 1)
		assert.Equal(t, "Caca", resp[0].Name)
	})

	t.Run("cache miss loads and stores", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		deps.redismock.ExpectGet(employee.GetEmployeeOptionsKey("")).RedisNil()
		deps.repo.EXPECT().
			FindOptions(gomock.Any(), "").
			Return([]employee.Employee{{ID: id, Name: "Deni", EmployeeCode: "EMP-0002"}}, nil)

		want := []employee.EmployeeOption{{ID: id.String(), Name: "Deni", EmployeeCode: "EMP-0002"}}
		payload, _ := json.Marshal(want)
		deps.redismock.ExpectSet(employee.GetEmployeeOptionsKey(""), payload, time.Hour).SetVal("OK")

		resp, err := deps.service.GetOptions(ctx, "")

		assert.NoError(t, err)
		assert.Equal(t, want, resp)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("database error", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		shopID := uuid.New().String()
		deps.redismock.ExpectGet(employee.GetEmployeeOptionsKey(shopID)).RedisNil()
		deps.repo.EXPECT().
			FindOptions(gomock.Any(), shopID).
			Return(nil, errors.New("database connection lost"))

		resp, err := deps.service.GetOptions(ctx, shopID)

		assert.Error(t, err)
		assert.Nil(t, resp)
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		_, err := deps.service.GetByID(ctx, "bad")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.GetByID(ctx, id)
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(&employee.Employee{ID: id, Name: "Andi"}, nil)

		resp, err := deps.service.GetByID(ctx, id.String())
		assert.NoError(t, err)
		assert.Equal(t, "Andi", resp.Name)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("move to another shop keeps code when empty", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		oldShop := uuid.New()
		newShop := uuid.New().String()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(&employee.Employee{
			ID: id, ShopID: oldShop, EmployeeCode: "EMP-0003", Name: "Old",
		}, nil)
		deps.repo.EXPECT().ShopExists(ctx, newShop).Return(true, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, newShop, e.ShopID.String())
				assert.Equal(t, "EMP-0003", e.EmployeeCode)
				assert.Equal(t, "New", e.Name)
				return nil
			})
		deps.repo.EXPECT().MovePendingSalaryRecords(ctx, id.String(), newShop).Return(int64(1), nil)
		deps.redismock.ExpectDel(
			employee.GetEmployeeOptionsKey(""),
			employee.GetEmployeeOptionsKey(oldShop.String()),
			employee.GetEmployeeOptionsKey(newShop),
		).SetVal(3)
		deps.redismock.ExpectIncr(cache.PayrollSummaryEpochKey).SetVal(1)
		deps.redismock.ExpectScan(0, "payroll:summary:*", 0).SetVal([]string{"payroll:summary:2024:3:all"}, 0)
		deps.redismock.ExpectDel("payroll:summary:2024:3:all").SetVal(1)

		resp, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
			ShopID: newShop, Name: "New", BaseSalary: decimal.NewFromInt(9000),
		})

		require.NoError(t, err)
		assert.Equal(t, newShop, resp.ShopID)
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("same shop leaves salary records alone", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		shopID := uuid.New()

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(&employee.Employee{
			ID: id, ShopID: shopID, EmployeeCode: "EMP-0001", Name: "Same",
		}, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		deps.redismock.ExpectDel(
			employee.GetEmployeeOptionsKey(""),
			employee.GetEmployeeOptionsKey(shopID.String()),
		).SetVal(2)

		_, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{
			ShopID: shopID.String(), Name: "Same", BaseSalary: decimal.NewFromInt(9000),
		})

		require.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("moving records fails -> rollback", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		newShop := uuid.New().String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(&employee.Employee{
			ID: id, ShopID: uuid.New(), EmployeeCode: "EMP-0002",
		}, nil)
		deps.repo.EXPECT().ShopExists(ctx, newShop).Return(true, nil)
		deps.repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().MovePendingSalaryRecords(ctx, id.String(), newShop).Return(int64(0), errors.New("db down"))

		_, err := deps.service.Update(ctx, id.String(), employee.UpdateEmployeeRequest{ShopID: newShop, Name: "X"})

		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, id, employee.UpdateEmployeeRequest{ShopID: uuid.NewString(), Name: "X"})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success invalidates caches", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New()
		shopID := uuid.New()
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id.String()).Return(&employee.Employee{ID: id, ShopID: shopID}, nil)
		deps.repo.EXPECT().Delete(ctx, id.String()).Return(nil)

		deps.redismock.ExpectDel(employee.GetEmployeeOptionsKey(""), employee.GetEmployeeOptionsKey(shopID.String())).SetVal(2)
		deps.redismock.ExpectIncr(cache.PayrollSummaryEpochKey).SetVal(1)
		deps.redismock.ExpectScan(0, "payroll:summary:*", 0).SetVal([]string{"payroll:summary:2024:3:all"}, 0)
		deps.redismock.ExpectDel("payroll:summary:2024:3:all").SetVal(1)

		err := deps.service.Delete(ctx, id.String())

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
		assert.NoError(t, deps.redismock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		id := uuid.New().String()
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		err := deps.service.Delete(ctx, id)
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

type outboxRequestIDMatcher struct {
	expectedRID  string
	expectedShop string
}

func (m outboxRequestIDMatcher) Matches(x any) bool {
	event, ok := x.(kafka.OutboxEvent)
	if !ok {
		return false
	}
	if event.RequestID != m.expectedRID || event.Topic != events.EmployeeLifecycleTopic {
		return false
	}

	var payload events.EmployeeCreatedEvent
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return false
	}

	return payload.RequestID == m.expectedRID && payload.ShopID == m.expectedShop
}

func (m outboxRequestIDMatcher) String() string {
	return "matches employee_created outbox event with request_id " + m.expectedRID
}

func MatchOutboxWithRID(rid, shopID string) gomock.Matcher {
	return outboxRequestIDMatcher{expectedRID: rid, expectedShop: shopID}
}
