package security

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
)

func setupRateLimitTest(t *testing.T) (echo.HandlerFunc, redismock.ClientMock, *httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, 2, time.Minute)

	handler := limiter.ScanRateLimit()(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/validate", nil)
	req.RemoteAddr = "10.0.0.1:52100"
	rec := httptest.NewRecorder()

	e := echo.New()
	c := e.NewContext(req, rec)

	return handler, mock, rec, c
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	handler, mock, rec, c := setupRateLimitTest(t)

	mock.ExpectIncr("ratelimit:scan:10.0.0.1").SetVal(1)
	mock.ExpectExpire("ratelimit:scan:10.0.0.1", time.Minute).SetVal(true)

	err := handler(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	handler, mock, rec, c := setupRateLimitTest(t)

	mock.ExpectIncr("ratelimit:scan:10.0.0.1").SetVal(3)

	err := handler(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_FailsOpenOnRedisError(t *testing.T) {
	handler, mock, rec, c := setupRateLimitTest(t)

	mock.ExpectIncr("ratelimit:scan:10.0.0.1").SetErr(errors.New("connection refused"))

	err := handler(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
