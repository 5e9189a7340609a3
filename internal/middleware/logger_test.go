package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/irarb/internal/logger"
)

func TestRequestLogger_Levels(t *testing.T) {
	cases := []struct {
		name   string
		status int
		level  string
	}{
		{name: "ok", status: http.StatusOK, level: "info"},
		{name: "client error", status: http.StatusNotFound, level: "warn"},
		{name: "server error", status: http.StatusServiceUnavailable, level: "error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger.InitWithWriter(&buf)
			t.Cleanup(logger.Init)

			gin.SetMode(gin.TestMode)
			r := gin.New()
			r.Use(RequestID(), RequestLogger())
			r.GET("/rates/:maturity", func(c *gin.Context) { c.Status(tc.status) })

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rates/MAY23", nil))

			line := strings.TrimSpace(buf.String())
			var entry map[string]any
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatalf("log line is not json: %q", line)
			}
			if entry["level"] != tc.level {
				t.Fatalf("level: want %s got %v", tc.level, entry["level"])
			}
			if entry["route"] != "/rates/:maturity" || entry["path"] != "/rates/MAY23" {
				t.Fatalf("route/path: %v %v", entry["route"], entry["path"])
			}
			if entry["request_id"] == "" || entry["request_id"] != w.Header().Get(RequestIDHeader) {
				t.Fatalf("request_id: %v", entry["request_id"])
			}
		})
	}
}
