package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/department-service/internal/config"
)

func TestMetricsNilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/departments", http.MethodGet, 200, time.Millisecond)
		m.RecordError("/departments", http.MethodGet, "INTERNAL_ERROR")
		m.RecordDepartmentWrite("create", 409)
		m.RecordAuthAttempt("login", 403)
	})
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordDepartmentWrite("create", 200)
	m.RecordDepartmentWrite("create", 409)
	m.RecordDepartmentWrite("create", 409)
	m.RecordAuthAttempt("login", 403)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.departmentOps.WithLabelValues("create", "409")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.departmentOps.WithLabelValues("create", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authAttempts.WithLabelValues("login", "403")))
}

func TestRequestLoggerRecordsRoutePattern(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), m))
	app.Get("/departments/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/departments/42", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/departments/:id", "204")))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "not-a-level"}, "production")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "DEBUG"}, "development")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}
