package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/picoplaca/picoplaca/internal/observability"
	"github.com/picoplaca/picoplaca/internal/picoplaca"
	picoplacahttp "github.com/picoplaca/picoplaca/internal/picoplaca/http"
)

func newTestRouter(cfg *Config) (http.Handler, *observability.Metrics) {
	metrics := observability.NewMetrics()
	svc := picoplaca.NewService(picoplaca.ServiceConfig{Observer: metrics})
	return NewRouter(RouterParams{
		Config:       cfg,
		CheckHandler: picoplacahttp.NewHandler(nil, svc, picoplacahttp.Options{}),
		Metrics:      metrics,
	}), metrics
}

func TestRouterHealthz(t *testing.T) {
	router, _ := newTestRouter(&Config{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	require.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
	require.NotEmpty(t, rr.Header().Get("X-RateLimit-Limit"))
}

func TestRouterCheckFeedsMetrics(t *testing.T) {
	router, _ := newTestRouter(&Config{})

	req := httptest.NewRequest(http.MethodPost, "/v1/checks", strings.NewReader(`{"plate":"PCQ-8981","date":"07-10-2024","time":"08:00"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	require.Contains(t, body, `picoplaca_verdicts_total{verdict="forbidden"} 1`)
	require.Contains(t, body, `picoplaca_http_requests_total{code="200",route="/v1/checks"} 1`)
}

func TestRouterRateLimit(t *testing.T) {
	router, _ := newTestRouter(&Config{RateLimitPerMinute: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		codes = append(codes, rr.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
