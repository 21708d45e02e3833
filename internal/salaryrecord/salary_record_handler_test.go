package salaryrecord_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-payroll/internal/middleware"
	"go-payroll/internal/salaryrecord"
	salaryrecorderrors "go-payroll/internal/salaryrecord/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeSalaryRecordService struct {
	GenerateFn          func(ctx context.Context, req salaryrecord.GenerateRequest) (salaryrecord.GenerateResponse, error)
	GenerateAllShopsFn  func(ctx context.Context, month, year int) (salaryrecord.GenerateResponse, error)
	GetAllFn            func(ctx context.Context, filter salaryrecord.GetSalaryRecordsFilterRequest) ([]salaryrecord.SalaryRecordResponse, error)
	GetByIDFn           func(ctx context.Context, id string) (salaryrecord.SalaryRecordResponse, error)
	UpdateFn            func(ctx context.Context, id string, req salaryrecord.UpdateSalaryRecordRequest) (salaryrecord.SalaryRecordResponse, error)
	UpdateStatusFn      func(ctx context.Context, id string, req salaryrecord.UpdateStatusRequest) (salaryrecord.SalaryRecordResponse, error)
	PreviewFn           func(ctx context.Context, req salaryrecord.PreviewRequest) (salaryrecord.PreviewResponse, error)
	SummaryFn           func(ctx context.Context, filter salaryrecord.SummaryFilterRequest) (salaryrecord.SummaryResponse, error)
	SummaryByShopFn     func(ctx context.Context, month, year int) ([]salaryrecord.SummaryResponse, error)
	ExportFn            func(ctx context.Context, req salaryrecord.ExportRequest) (salaryrecord.ExportFile, error)
	EnsureForEmployeeFn func(ctx context.Context, shopID, employeeID string) (bool, error)
}

func (f *fakeSalaryRecordService) Generate(ctx context.Context, req salaryrecord.GenerateRequest) (salaryrecord.GenerateResponse, error) {
	return f.GenerateFn(ctx, req)
}
func (f *fakeSalaryRecordService) GenerateAllShops(ctx context.Context, month, year int) (salaryrecord.GenerateResponse, error) {
	return f.GenerateAllShopsFn(ctx, month, year)
}
func (f *fakeSalaryRecordService) GetAll(ctx context.Context, filter salaryrecord.GetSalaryRecordsFilterRequest) ([]salaryrecord.SalaryRecordResponse, error) {
	return f.GetAllFn(ctx, filter)
}
func (f *fakeSalaryRecordService) GetByID(ctx context.Context, id string) (salaryrecord.SalaryRecordResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeSalaryRecordService) Update(ctx context.Context, id string, req salaryrecord.UpdateSalaryRecordRequest) (salaryrecord.SalaryRecordResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeSalaryRecordService) UpdateStatus(ctx context.Context, id string, req salaryrecord.UpdateStatusRequest) (salaryrecord.SalaryRecordResponse, error) {
	return f.UpdateStatusFn(ctx, id, req)
}
func (f *fakeSalaryRecordService) Preview(ctx context.Context, req salaryrecord.PreviewRequest) (salaryrecord.PreviewResponse, error) {
	return f.PreviewFn(ctx, req)
}
func (f *fakeSalaryRecordService) Summary(ctx context.Context, filter salaryrecord.SummaryFilterRequest) (salaryrecord.SummaryResponse, error) {
	return f.SummaryFn(ctx, filter)
}
func (f *fakeSalaryRecordService) SummaryByShop(ctx context.Context, month, year int) ([]salaryrecord.SummaryResponse, error) {
	return f.SummaryByShopFn(ctx, month, year)
}
func (f *fakeSalaryRecordService) Export(ctx context.Context, req salaryrecord.ExportRequest) (salaryrecord.ExportFile, error) {
	return f.ExportFn(ctx, req)
}
func (f *fakeSalaryRecordService) EnsureForEmployee(ctx context.Context, shopID, employeeID string) (bool, error) {
	return f.EnsureForEmployeeFn(ctx, shopID, employeeID)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestSalaryRecordHandler_Generate(t *testing.T) {
	shopID := uuid.NewString()

	t.Run("stores the result for idempotent replay", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		svc := &fakeSalaryRecordService{
			GenerateFn: func(ctx context.Context, req salaryrecord.GenerateRequest) (salaryrecord.GenerateResponse, error) {
				assert.Equal(t, shopID, req.ShopID)
				assert.Equal(t, 3, req.Month)
				return salaryrecord.GenerateResponse{Created: 3, Total: 3}, nil
			},
		}

		r := setupRouter()
		r.POST("/salary-records/generate", func(c *gin.Context) {
			c.Set(middleware.ContextValidatedUserID, "u1")
		}, middleware.Idempotency(rdb), salaryrecord.NewHandlerWithRedis(svc, rdb).Generate)

		cacheKey := "idemp:/salary-records/generate:u1:key-1"
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, []byte(`{"status":201,"data":{"created":3,"skipped":0,"total":3}}`), 24*time.Hour).SetVal("OK")
		mock.ExpectDel(cacheKey + ":lock").SetVal(1)

		req := httptest.NewRequest(http.MethodPost, "/salary-records/generate",
			strings.NewReader(`{"shop_id":"`+shopID+`","month":3,"year":2024}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.HeaderIdempotencyKey, "key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"created":3`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("validation error", func(t *testing.T) {
		h := salaryrecord.NewHandler(&fakeSalaryRecordService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/salary-records/generate",
			strings.NewReader(`{"shop_id":"`+shopID+`","month":13,"year":2024}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Generate(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}

func TestSalaryRecordHandler_GetAll(t *testing.T) {
	shopID := uuid.NewString()
	svc := &fakeSalaryRecordService{
		GetAllFn: func(ctx context.Context, filter salaryrecord.GetSalaryRecordsFilterRequest) ([]salaryrecord.SalaryRecordResponse, error) {
			assert.Equal(t, shopID, filter.ShopID)
			assert.Equal(t, 3, filter.Month)
			assert.Equal(t, salaryrecord.StatusPaid, filter.Status)
			assert.False(t, filter.WithLeaveEntries)
			return []salaryrecord.SalaryRecordResponse{{EmployeeName: "Arif"}, {EmployeeName: "Rina"}}, nil
		},
	}

	r := setupRouter()
	r.GET("/salary-records", salaryrecord.NewHandler(svc).GetAll)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/salary-records?shop_id="+shopID+"&month=3&year=2024&status=Paid", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rina")
	assert.Contains(t, w.Body.String(), `"total":2`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/salary-records?status=Unknown", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSalaryRecordHandler_Update(t *testing.T) {
	id := uuid.NewString()

	t.Run("partial edit", func(t *testing.T) {
		svc := &fakeSalaryRecordService{
			UpdateFn: func(ctx context.Context, got string, req salaryrecord.UpdateSalaryRecordRequest) (salaryrecord.SalaryRecordResponse, error) {
				assert.Equal(t, id, got)
				if assert.NotNil(t, req.AttendanceDays) {
					assert.Equal(t, 28, *req.AttendanceDays)
				}
				assert.Nil(t, req.LeaveUnpaid)
				assert.Nil(t, req.Bonus)
				return salaryrecord.SalaryRecordResponse{ID: got, AttendanceDays: 28, LeaveUnpaid: 2}, nil
			},
		}
		r := setupRouter()
		r.PUT("/salary-records/:id", salaryrecord.NewHandler(svc).Update)

		req := httptest.NewRequest(http.MethodPut, "/salary-records/"+id, strings.NewReader(`{"attendance_days":28}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"leave_unpaid":2`)
	})

	t.Run("managed by leave entries", func(t *testing.T) {
		svc := &fakeSalaryRecordService{
			UpdateFn: func(ctx context.Context, got string, req salaryrecord.UpdateSalaryRecordRequest) (salaryrecord.SalaryRecordResponse, error) {
				return salaryrecord.SalaryRecordResponse{}, salaryrecorderrors.ErrLeaveManagedByEntries
			},
		}
		r := setupRouter()
		r.PUT("/salary-records/:id", salaryrecord.NewHandler(svc).Update)

		req := httptest.NewRequest(http.MethodPut, "/salary-records/"+id, strings.NewReader(`{"leave_unpaid":1}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_STATE")
	})
}

func TestSalaryRecordHandler_UpdateStatus(t *testing.T) {
	r := setupRouter()
	r.PATCH("/salary-records/:id/status", salaryrecord.NewHandler(&fakeSalaryRecordService{}).UpdateStatus)

	req := httptest.NewRequest(http.MethodPatch, "/salary-records/"+uuid.NewString()+"/status", strings.NewReader(`{"status":"Done"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSalaryRecordHandler_Preview(t *testing.T) {
	svc := &fakeSalaryRecordService{
		PreviewFn: func(ctx context.Context, req salaryrecord.PreviewRequest) (salaryrecord.PreviewResponse, error) {
			assert.True(t, req.BaseSalary.Equal(decimal.NewFromInt(15000)))
			return salaryrecord.PreviewResponse{AttendanceDays: 28, LeaveUnpaid: 2, Total: decimal.RequireFromString("13300")}, nil
		},
	}
	r := setupRouter()
	r.POST("/salary-records/preview", salaryrecord.NewHandler(svc).Preview)

	req := httptest.NewRequest(http.MethodPost, "/salary-records/preview",
		strings.NewReader(`{"base_salary":15000,"attendance_days":28,"bonus":"500"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":"13300"`)
}

func TestSalaryRecordHandler_Summary(t *testing.T) {
	svc := &fakeSalaryRecordService{
		SummaryFn: func(ctx context.Context, filter salaryrecord.SummaryFilterRequest) (salaryrecord.SummaryResponse, error) {
			assert.Equal(t, 3, filter.Month)
			assert.Equal(t, 2024, filter.Year)
			return salaryrecord.SummaryResponse{RecordCount: 4}, nil
		},
		SummaryByShopFn: func(ctx context.Context, month, year int) ([]salaryrecord.SummaryResponse, error) {
			return []salaryrecord.SummaryResponse{{ShopName: "A"}, {ShopName: "B"}}, nil
		},
	}
	r := setupRouter()
	h := salaryrecord.NewHandler(svc)
	r.GET("/payroll/summary", h.Summary)
	r.GET("/payroll/summary/shops", h.SummaryByShop)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payroll/summary?month=3&year=2024", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"record_count":4`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payroll/summary/shops?month=3&year=2024", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"shop_name":"B"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payroll/summary?year=2024", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSalaryRecordHandler_Export(t *testing.T) {
	shopID := uuid.NewString()
	svc := &fakeSalaryRecordService{
		ExportFn: func(ctx context.Context, req salaryrecord.ExportRequest) (salaryrecord.ExportFile, error) {
			assert.Equal(t, "xlsx", req.Format)
			return salaryrecord.ExportFile{
				Filename:    "salary-sheet-main-2024-03.xlsx",
				ContentType: salaryrecord.ContentTypeXLSX,
				Body:        []byte("PK"),
			}, nil
		},
	}
	r := setupRouter()
	r.GET("/salary-records/export", salaryrecord.NewHandler(svc).Export)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/salary-records/export?shop_id="+shopID+"&month=3&year=2024&format=xlsx", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, salaryrecord.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "salary-sheet-main-2024-03.xlsx")
	assert.Equal(t, "PK", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/salary-records/export?shop_id="+shopID+"&month=3&year=2024&format=csv", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
