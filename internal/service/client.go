// Package service is the HTTP client for the remote record-keeping service.
//
// It only speaks the wire protocol: every method issues exactly one request and
// returns typed, validated records or a classified error. Caching and operator
// messaging live in the coordinator.
package service

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"git.home.luguber.info/inful/hrmslite/internal/records"
	"git.home.luguber.info/inful/hrmslite/internal/version"
)

// DefaultTimeout bounds a single request when the caller supplies no client.
const DefaultTimeout = 30 * time.Second

// Operation names used for logging and metrics labels.
const (
	OpListEmployees  = "list_employees"
	OpAddEmployee    = "add_employee"
	OpDeleteEmployee = "delete_employee"
	OpMarkAttendance = "mark_attendance"
	OpListAttendance = "list_attendance"
	OpHealth         = "health"
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client talks to the record service.
type Client struct {
	*BaseClient
}

// New creates a Client from opts.
func New(opts Options) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "hrmslite/" + version.Version
	}
	base, err := NewBaseClient(&http.Client{Timeout: timeout}, opts.BaseURL, ua)
	if err != nil {
		return nil, err
	}
	return &Client{BaseClient: base}, nil
}

// ListEmployees fetches the full roster in server order.
func (c *Client) ListEmployees(ctx context.Context) ([]records.EmployeeRecord, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, "employees", nil)
	if err != nil {
		return nil, err
	}
	var list []records.EmployeeRecord
	if err := c.Do(OpListEmployees, req, &list); err != nil {
		return nil, err
	}
	if err := records.ValidateRoster(list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []records.EmployeeRecord{}
	}
	return list, nil
}

// AddEmployee creates rec. A duplicate identifier yields a CategoryAlreadyExists error.
func (c *Client) AddEmployee(ctx context.Context, rec records.EmployeeRecord) error {
	req, err := c.NewRequest(ctx, http.MethodPost, "employees", rec)
	if err != nil {
		return err
	}
	return c.Do(OpAddEmployee, req, nil)
}

// DeleteEmployee removes the employee with id.
func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	req, err := c.NewRequest(ctx, http.MethodDelete, "employees/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	return c.Do(OpDeleteEmployee, req, nil)
}

// MarkAttendance appends one attendance event.
func (c *Client) MarkAttendance(ctx context.Context, mark records.MarkRequest) error {
	req, err := c.NewRequest(ctx, http.MethodPost, "attendance", mark)
	if err != nil {
		return err
	}
	return c.Do(OpMarkAttendance, req, nil)
}

// ListAttendance fetches every attendance event for id in server order.
func (c *Client) ListAttendance(ctx context.Context, id string) ([]records.AttendanceRecord, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, "attendance/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var list []records.AttendanceRecord
	if err := c.Do(OpListAttendance, req, &list); err != nil {
		return nil, err
	}
	if err := records.ValidateHistory(list); err != nil {
		return nil, err
	}
	if list == nil {
		list = []records.AttendanceRecord{}
	}
	return list, nil
}

// Health calls the service root and returns its banner message.
func (c *Client) Health(ctx context.Context) (string, error) {
	req, err := c.NewRequest(ctx, http.MethodGet, "", nil)
	if err != nil {
		return "", err
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := c.Do(OpHealth, req, &body); err != nil {
		return "", err
	}
	return body.Message, nil
}
