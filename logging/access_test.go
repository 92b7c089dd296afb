package logging

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestAccessLogFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{AccessLogOutput: &buf})

	req := httptest.NewRequest("GET", "http://example.org/hello", nil)
	req.RemoteAddr = "192.168.0.1:9876"
	req.RequestURI = "/hello"

	LogAccess(&AccessEntry{
		Request:     req,
		StatusCode:  200,
		Duration:    3 * time.Millisecond,
		RequestTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	out := buf.String()
	for _, want := range []string{"192.168.0.1", `"GET /hello HTTP/1.1"`, " 200 ", "02/Jan/2024"} {
		if !strings.Contains(out, want) {
			t.Errorf("access log %q does not contain %q", out, want)
		}
	}
}

func TestAccessLogForwardedFor(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{AccessLogOutput: &buf})

	req := httptest.NewRequest("GET", "http://example.org/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.RequestURI = "/"

	LogAccess(&AccessEntry{Request: req, StatusCode: 404})

	if !strings.Contains(buf.String(), "203.0.113.7") {
		t.Errorf("access log %q does not contain the forwarded address", buf.String())
	}
}

func TestAccessLogDisabled(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{AccessLogDisabled: true, AccessLogOutput: &buf})

	req := httptest.NewRequest("GET", "http://example.org/", nil)
	req.RequestURI = "/"
	LogAccess(&AccessEntry{Request: req, StatusCode: 200})

	if buf.Len() != 0 {
		t.Errorf("expected no access log output, got %q", buf.String())
	}
}
