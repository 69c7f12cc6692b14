package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/api/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	before := testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/api/ping", "200"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	r.ServeHTTP(w, req)

	after := testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "/api/ping", "200"))
	if after-before != 1 {
		t.Fatalf("expected counter to increase by 1, got %v", after-before)
	}
}

func TestUnmatchedRoutesShareOneLabel(t *testing.T) {
	r := gin.New()
	r.Use(MetricsMiddleware())

	before := testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "unmatched", "404"))

	for _, path := range []string{"/a", "/b", "/c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	after := testutil.ToFloat64(RequestCounter.WithLabelValues("GET", "unmatched", "404"))
	if after-before != 3 {
		t.Fatalf("expected 3 unmatched requests, got %v", after-before)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()
}
