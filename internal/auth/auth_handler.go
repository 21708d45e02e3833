package auth

import (
	"net/http"
	"strings"
	"time"

	autherrors "go-payroll/internal/auth/errors"
	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
)

// CookieOptions controls the cookies set for browser clients.
type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Handler struct {
	service Service
	cookies CookieOptions
	logger  *zap.Logger
}

func NewHandler(s Service, cookies CookieOptions, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, cookies: cookies, logger: l}
}

// isWebClient treats every caller as a browser unless it identifies itself
// otherwise through X-Client-Type.
func isWebClient(c *gin.Context) bool {
	switch strings.ToLower(strings.TrimSpace(c.GetHeader("X-Client-Type"))) {
	case "mobile", "api", "cli":
		return false
	}
	return true
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) setCookie(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) writeTokens(c *gin.Context, access, refresh string, user AuthResponse) {
	if isWebClient(c) {
		h.setCookie(c, accessCookie, access, int(h.cookies.AccessTTL.Seconds()))
		h.setCookie(c, refreshCookie, refresh, int(h.cookies.RefreshTTL.Seconds()))
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":          user,
		"access_token":  access,
		"refresh_token": refresh,
	}, nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	access, refresh, user, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.writeTokens(c, access, refresh, user)
}

func (h *Handler) RefreshToken(c *gin.Context) {
	refreshToken, _ := c.Cookie(refreshCookie)
	if refreshToken == "" {
		var req RefreshRequest
		_ = c.ShouldBindJSON(&req)
		refreshToken = req.RefreshToken
	}
	if refreshToken == "" {
		h.writeServiceError(c, autherrors.ErrTokenNotFound)
		return
	}

	access, refresh, user, err := h.service.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.writeTokens(c, access, refresh, user)
}

func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		h.writeServiceError(c, apperror.ErrUnauthorized)
		return
	}

	user, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, user, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	h.setCookie(c, accessCookie, "", -1)
	h.setCookie(c, refreshCookie, "", -1)

	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, nil)
}
