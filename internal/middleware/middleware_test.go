package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/services"
)

type stubValidator struct {
	session *models.Session
	err     error
}

func (v stubValidator) ValidateToken(ctx context.Context, token string) (*models.Session, error) {
	if token != "good" {
		return nil, v.err
	}
	return v.session, nil
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := test.NewNullLogger()

	validator := stubValidator{
		session: &models.Session{Username: "ketua", Role: models.RoleCommittee},
		err:     services.ErrSessionExpired,
	}
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(validator, log), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentSession(c).Username)
	})

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header is required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "must start with Bearer"},
		{"expired", "Bearer stale", http.StatusUnauthorized, "SESSION_EXPIRED"},
		{"valid", "Bearer good", http.StatusOK, "ketua"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := serve(r, http.MethodGet, "/me", headers)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}

	t.Run("invalid token is logged", func(t *testing.T) {
		log, hook := test.NewNullLogger()
		r := gin.New()
		r.GET("/me", JWTAuthMiddleware(stubValidator{err: errors.New("bad signature")}, log), func(c *gin.Context) {})

		w := serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer forged"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	})
}

func TestCurrentSession_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentSession(c))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://kupon.example.org"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/ping", map[string]string{"Origin": "https://kupon.example.org"})
		assert.Equal(t, "https://kupon.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown origin", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/ping", map[string]string{"Origin": "https://evil.example.com"})
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		w := serve(r, http.MethodOptions, "/ping", map[string]string{"Origin": "https://kupon.example.org"})
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := serve(r, http.MethodGet, "/ping", map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))

	w = serve(r, http.MethodGet, "/ping", nil)
	assert.Len(t, w.Body.String(), 36)
}

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(LoggerMiddleware(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("database down"))
		c.Status(http.StatusInternalServerError)
	})

	serve(r, http.MethodGet, "/ok", nil)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "/ok", hook.LastEntry().Data["path"])

	serve(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Data["errors"], "database down")
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimitMiddleware(1, 2), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/login", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodPost, "/login", nil).Code)
}
