package logging

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	dateFormat = "02/Jan/2006:15:04:05 -0700"
	// remote_host - - [date] "method uri protocol" status duration_ms
	accessLogFormat = `%s - - [%s] "%s %s %s" %d %d` + "\n"
)

// AccessEntry represents one resolved request in the access log.
type AccessEntry struct {

	// The client request.
	Request *http.Request

	// The status code of the response.
	StatusCode int

	// The time spent resolving the endpoint and writing the response.
	Duration time.Duration

	// The time that the request was received.
	RequestTime time.Time
}

var accessLog *logrus.Logger

type accessLogFormatter struct {
	format string
}

// strip port from addresses with hostname, ipv4 or ipv6
func stripPort(address string) string {
	if h, _, err := net.SplitHostPort(address); err == nil {
		return h
	}

	return address
}

// The remote address of the client. When the 'X-Forwarded-For' header is
// set, it is used instead.
func remoteHost(r *http.Request) string {
	ff := r.Header.Get("X-Forwarded-For")
	if ff == "" {
		ff = r.RemoteAddr
	}

	if h := stripPort(ff); h != "" {
		return h
	}

	return "-"
}

func (f *accessLogFormatter) Format(e *logrus.Entry) ([]byte, error) {
	keys := []string{"host", "timestamp", "method", "uri", "proto", "status", "duration"}
	values := make([]interface{}, len(keys))
	for i, key := range keys {
		values[i] = e.Data[key]
	}

	return []byte(fmt.Sprintf(f.format, values...)), nil
}

// LogAccess writes an entry to the access log, when enabled via Init.
func LogAccess(entry *AccessEntry) {
	if accessLog == nil || entry == nil || entry.Request == nil {
		return
	}

	ts := entry.RequestTime
	if ts.IsZero() {
		ts = time.Now()
	}

	accessLog.WithFields(logrus.Fields{
		"host":      remoteHost(entry.Request),
		"timestamp": ts.Format(dateFormat),
		"method":    entry.Request.Method,
		"uri":       entry.Request.RequestURI,
		"proto":     entry.Request.Proto,
		"status":    entry.StatusCode,
		"duration":  entry.Duration.Milliseconds(),
	}).Info()
}
