package employee_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeEmployeeService struct {
	CreateFn     func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetAllFn     func(ctx context.Context, filter employee.GetEmployeesFilterRequest) ([]employee.EmployeeResponse, error)
	GetOptionsFn func(ctx context.Context, shopID string) ([]employee.EmployeeOption, error)
	GetByIDFn    func(ctx context.Context, id string) (employee.EmployeeResponse, error)
	UpdateFn     func(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	DeleteFn     func(ctx context.Context, id string) error
}

func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, req)
}
func (f *fakeEmployeeService) GetAll(ctx context.Context, filter employee.GetEmployeesFilterRequest) ([]employee.EmployeeResponse, error) {
	return f.GetAllFn(ctx, filter)
}
func (f *fakeEmployeeService) GetOptions(ctx context.Context, shopID string) ([]employee.EmployeeOption, error) {
	return f.GetOptionsFn(ctx, shopID)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakeEmployeeService) Update(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.UpdateFn(ctx, id, req)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, id string) error {
	return f.DeleteFn(ctx, id)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestEmployeeHandler_Create(t *testing.T) {
	shopID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, shopID, req.ShopID)
				assert.Equal(t, "15000", req.BaseSalary.String())
				return employee.EmployeeResponse{ID: uuid.NewString(), Name: req.Name, EmployeeCode: "EMP-0001"}, nil
			},
		}

		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"shop_id":"` + shopID + `","name":"John Doe","designation":"Tailor","base_salary":15000}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "John Doe")
		assert.Contains(t, w.Body.String(), "EMP-0001")
	})

	t.Run("validation error", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(`{"shop_id":"nope","name":"A"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
		assert.Contains(t, w.Body.String(), `"rule":"uuid"`)
	})

	t.Run("service conflict", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeCodeAlreadyExists
			},
		}
		h := employee.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"shop_id":"` + shopID + `","name":"John","employee_code":"EMP-0001"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/employees", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	shopID := uuid.New().String()

	t.Run("filters and paginates", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetAllFn: func(ctx context.Context, filter employee.GetEmployeesFilterRequest) ([]employee.EmployeeResponse, error) {
				assert.Equal(t, shopID, filter.ShopID)
				assert.Equal(t, "ri", filter.Q)
				return []employee.EmployeeResponse{{Name: "Arif"}, {Name: "Rina"}, {Name: "Rini"}}, nil
			},
		}

		r := setupRouter()
		r.GET("/employees", employee.NewHandler(svc).GetAll)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?shop_id="+shopID+"&q=ri&page=2&page_size=2", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Rini")
		assert.NotContains(t, w.Body.String(), "Arif")
		assert.Contains(t, w.Body.String(), `"total":3`)
		assert.Contains(t, w.Body.String(), `"totalPages":2`)
	})

	t.Run("huge page returns empty list", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetAllFn: func(ctx context.Context, filter employee.GetEmployeesFilterRequest) ([]employee.EmployeeResponse, error) {
				return []employee.EmployeeResponse{{Name: "Arif"}, {Name: "Rina"}}, nil
			},
		}

		r := setupRouter()
		r.GET("/employees", employee.NewHandler(svc).GetAll)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?page=46116860184273880&page_size=200", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "Arif")
		assert.Contains(t, w.Body.String(), `"total":2`)
	})

	t.Run("invalid shop filter", func(t *testing.T) {
		r := setupRouter()
		r.GET("/employees", employee.NewHandler(&fakeEmployeeService{}).GetAll)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees?shop_id=xyz", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEmployeeHandler_GetOptions(t *testing.T) {
	svc := &fakeEmployeeService{
		GetOptionsFn: func(ctx context.Context, shopID string) ([]employee.EmployeeOption, error) {
			assert.Empty(t, shopID)
			return []employee.EmployeeOption{{ID: "1", Name: "Caca", EmployeeCode: "EMP-0001"}}, nil
		},
	}

	r := setupRouter()
	r.GET("/employees/options", employee.NewHandler(svc).GetOptions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/options", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Caca")
}

func TestEmployeeHandler_GetByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetByIDFn: func(ctx context.Context, id string) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
			},
		}
		r := setupRouter()
		r.GET("/employees/:id", employee.NewHandler(svc).GetByID)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("internal error masked", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetByIDFn: func(ctx context.Context, id string) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, errors.New("pq: connection reset")
			},
		}
		r := setupRouter()
		r.GET("/employees/:id", employee.NewHandler(svc).GetByID)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}

func TestEmployeeHandler_Update(t *testing.T) {
	id := uuid.NewString()
	shopID := uuid.NewString()
	svc := &fakeEmployeeService{
		UpdateFn: func(ctx context.Context, got string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
			assert.Equal(t, id, got)
			return employee.EmployeeResponse{ID: got, Name: req.Name, ShopID: req.ShopID}, nil
		},
	}
	r := setupRouter()
	r.PUT("/employees/:id", employee.NewHandler(svc).Update)

	req := httptest.NewRequest(http.MethodPut, "/employees/"+id,
		strings.NewReader(`{"shop_id":"`+shopID+`","name":"Updated","base_salary":"12000.50"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Updated")
}

func TestEmployeeHandler_Delete(t *testing.T) {
	id := uuid.NewString()
	svc := &fakeEmployeeService{
		DeleteFn: func(ctx context.Context, got string) error {
			assert.Equal(t, id, got)
			return nil
		},
	}
	r := setupRouter()
	r.DELETE("/employees/:id", employee.NewHandler(svc).Delete)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/employees/"+id, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"deleted":true`)
}
