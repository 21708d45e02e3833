package rbac_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupRouter(svc rbac.Service, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := rbac.NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextRole, role)
		c.Next()
	})
	r.GET("/rbac/permissions", h.Permissions)
	r.POST("/rbac/check", h.Check)
	return r
}

func TestHandler_Permissions(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mock.NewMockService(ctrl)

	svc.EXPECT().PermissionsForRole(domain.RoleViewer).Return([]string{"shop:read"}, nil)

	r := setupRouter(svc, domain.RoleViewer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rbac/permissions", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data rbac.PermissionsResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.RoleViewer, body.Data.Role)
	assert.Equal(t, []string{"shop:read"}, body.Data.Permissions)
}

func TestHandler_Check(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)

		svc.EXPECT().Enforce(domain.EnforceRequest{
			Role:     domain.RoleAdmin,
			Resource: "employee",
			Action:   "read",
		}).Return(true, nil)

		r := setupRouter(svc, domain.RoleAdmin)
		body, _ := json.Marshal(rbac.CheckRequest{Resource: " employee ", Action: "read"})
		req := httptest.NewRequest(http.MethodPost, "/rbac/check", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"allowed":true`)
	})

	t.Run("validation error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)

		r := setupRouter(svc, domain.RoleAdmin)
		req := httptest.NewRequest(http.MethodPost, "/rbac/check", bytes.NewBufferString(`{"resource":"shop"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("enforcer error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)

		svc.EXPECT().Enforce(gomock.Any()).Return(false, errors.New("boom"))

		r := setupRouter(svc, domain.RoleAdmin)
		req := httptest.NewRequest(http.MethodPost, "/rbac/check", bytes.NewBufferString(`{"resource":"shop","action":"read"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
