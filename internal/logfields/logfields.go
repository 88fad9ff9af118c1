package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared by the coordinator, the service client and the CLI.
const (
	KeyEmployeeID = "employee_id"
	KeyOperation  = "operation"
	KeyStatus     = "status"
	KeyDate       = "date"
	KeyRequestID  = "request_id"
	KeyMethod     = "method"
	KeyURL        = "url"
	KeyHTTPStatus = "http_status"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func EmployeeID(id string) slog.Attr   { return slog.String(KeyEmployeeID, id) }
func Operation(op string) slog.Attr    { return slog.String(KeyOperation, op) }
func Status(s string) slog.Attr        { return slog.String(KeyStatus, s) }
func Date(d string) slog.Attr          { return slog.String(KeyDate, d) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func HTTPStatus(code int) slog.Attr    { return slog.Int(KeyHTTPStatus, code) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
