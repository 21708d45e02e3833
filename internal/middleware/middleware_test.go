package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	r := setupRouter()
	r.GET("/me", middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetString(middleware.ContextUserID),
			"role":     c.GetString(middleware.ContextRole),
			"ctx_user": contextutil.GetUserID(c.Request.Context()),
		})
	})

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("valid access token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":    "u-1",
			"role":       "ADMIN",
			"token_type": "access",
			"exp":        time.Now().Add(time.Minute).Unix(),
		})

		w := do("Bearer " + token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)
		assert.Contains(t, w.Body.String(), `"ctx_user":"u-1"`)
		assert.Contains(t, w.Body.String(), `"role":"ADMIN"`)
	})

	t.Run("cookie token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":    "u-2",
			"role":       "VIEWER",
			"token_type": "access",
			"exp":        time.Now().Add(time.Minute).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "u-2")
	})

	t.Run("missing token", func(t *testing.T) {
		w := do("")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":    "u-1",
			"token_type": "access",
			"exp":        time.Now().Add(-time.Minute).Unix(),
		})

		w := do("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
	})

	t.Run("refresh token is not accepted", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id":    "u-1",
			"token_type": "refresh",
			"exp":        time.Now().Add(time.Hour).Unix(),
		})

		w := do("Bearer " + token)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id":    "u-1",
			"token_type": "access",
		}).SignedString([]byte("other"))
		require.NoError(t, err)

		w := do("Bearer " + token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type fakeRBAC struct {
	allowed bool
	err     error
	got     domain.EnforceRequest
}

func (f *fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) {
	f.got = req
	return f.allowed, f.err
}

func withRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

func TestRBACAuthorize(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	t.Run("allowed", func(t *testing.T) {
		svc := &fakeRBAC{allowed: true}
		r := setupRouter()
		r.GET("/x", withRole("VIEWER"), middleware.RBACAuthorize(svc, "salary_record", "read"), ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, domain.EnforceRequest{Role: "VIEWER", Resource: "salary_record", Action: "read"}, svc.got)
	})

	t.Run("denied", func(t *testing.T) {
		r := setupRouter()
		r.GET("/x", withRole("VIEWER"), middleware.RBACAuthorize(&fakeRBAC{}, "salary_record", "update"), ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "salary_record:update")
	})

	t.Run("enforcer error", func(t *testing.T) {
		r := setupRouter()
		r.GET("/x", withRole("ADMIN"), middleware.RBACAuthorize(&fakeRBAC{err: errors.New("boom")}, "shop", "read"), ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "boom")
	})

	t.Run("no role", func(t *testing.T) {
		r := setupRouter()
		r.GET("/x", middleware.RBACAuthorize(&fakeRBAC{allowed: true}, "shop", "read"), ok)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRateLimitByIP(t *testing.T) {
	r := setupRouter()
	r.GET("/login", middleware.RateLimitByIP(0.001, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestID(t *testing.T) {
	r := setupRouter()
	r.GET("/x", middleware.RequestID(), func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(middleware.HeaderRequestID, "rid-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "rid-1", w.Body.String())
		assert.Equal(t, "rid-1", w.Header().Get(middleware.HeaderRequestID))
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.NotEmpty(t, w.Body.String())
		assert.Equal(t, w.Body.String(), w.Header().Get(middleware.HeaderRequestID))
	})
}

func TestExtractUserID(t *testing.T) {
	setUser := func(id string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if id != "" {
				c.Set(middleware.ContextUserID, id)
			}
			c.Next()
		}
	}
	echo := func(c *gin.Context) { c.String(http.StatusOK, c.GetString(middleware.ContextValidatedUserID)) }

	t.Run("accepts uuid", func(t *testing.T) {
		r := setupRouter()
		r.GET("/x", setUser("6f1c1f4e-8f3b-4c55-9a59-4f5b0c1d2e3f"), middleware.ExtractUserID(), echo)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "6f1c1f4e-8f3b-4c55-9a59-4f5b0c1d2e3f", w.Body.String())
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		r := setupRouter()
		r.GET("/x", setUser("user-1"), middleware.ExtractUserID(), echo)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
	})

	t.Run("rejects missing id", func(t *testing.T) {
		r := setupRouter()
		r.GET("/x", setUser(""), middleware.ExtractUserID(), echo)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestIdempotency(t *testing.T) {
	const (
		cacheKey = "idemp:/generate:u-1:key-1"
		lockKey  = cacheKey + ":lock"
	)

	newRouter := func(rdbHandler gin.HandlerFunc, handler gin.HandlerFunc) *gin.Engine {
		r := setupRouter()
		r.POST("/generate", func(c *gin.Context) {
			c.Set(middleware.ContextValidatedUserID, "u-1")
			c.Next()
		}, rdbHandler, handler)
		return r
	}

	post := func(r *gin.Engine) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, "key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("replays stored result", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"data":{"created":3}}`)

		called := false
		r := newRouter(middleware.Idempotency(rdb), func(c *gin.Context) { called = true })

		w := post(r)

		assert.False(t, called)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"created":3`)
		assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects concurrent duplicate", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		r := newRouter(middleware.Idempotency(rdb), func(c *gin.Context) { t.Fatal("handler must not run") })

		w := post(r)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stores first result and releases lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, []byte(`{"status":201,"data":{"created":3}}`), 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		r := newRouter(middleware.Idempotency(rdb), func(c *gin.Context) {
			defer middleware.ReleaseIdempotencyLock(c, rdb)
			data := gin.H{"created": 3}
			middleware.StoreIdempotentResponse(c, rdb, http.StatusCreated, data)
			c.JSON(http.StatusCreated, data)
		})

		w := post(r)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no key passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		r := newRouter(middleware.Idempotency(rdb), func(c *gin.Context) { c.Status(http.StatusAccepted) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/generate", nil))

		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
