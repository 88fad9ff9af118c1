package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/hrmslite/internal/foundation/errors"
	"git.home.luguber.info/inful/hrmslite/internal/logfields"
	"git.home.luguber.info/inful/hrmslite/internal/metrics"
	"git.home.luguber.info/inful/hrmslite/internal/records"
)

// RequestIDHeader carries a per-request UUID so service logs can be correlated.
const RequestIDHeader = "X-Request-ID"

// BaseClient holds the request/response plumbing shared by every record-service call.
type BaseClient struct {
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
	logger     *slog.Logger
	recorder   metrics.Recorder
}

// NewBaseClient parses baseURL and returns a BaseClient using httpClient.
func NewBaseClient(httpClient *http.Client, baseURL, userAgent string) (*BaseClient, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		b := ferrors.ConfigError("invalid record service URL").WithContext("base_url", baseURL)
		if err != nil {
			b = b.WithCause(err)
		}
		return nil, b.Build()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &BaseClient{
		httpClient: httpClient,
		baseURL:    u,
		userAgent:  userAgent,
		logger:     slog.Default(),
		recorder:   metrics.NoopRecorder{},
	}, nil
}

// SetLogger replaces the logger used for request tracing.
func (b *BaseClient) SetLogger(l *slog.Logger) {
	if l != nil {
		b.logger = l
	}
}

// SetRecorder replaces the metrics recorder.
func (b *BaseClient) SetRecorder(r metrics.Recorder) {
	if r != nil {
		b.recorder = r
	}
}

// NewRequest builds a request for endpoint, which must already be path-escaped
// (e.g. "employees/E%201"). A non-nil body is JSON encoded.
func (b *BaseClient) NewRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	u := b.baseURL.JoinPath(strings.TrimPrefix(endpoint, "/"))

	reader := io.Reader(http.NoBody)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, ferrors.InternalError("failed to marshal request body").WithCause(err).Build()
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, ferrors.InternalError("failed to create request").
			WithCause(err).
			WithContext("method", method).
			WithContext("url", u.String()).
			Build()
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())
	return req, nil
}

// Do executes req on behalf of operation op and decodes a JSON body into result
// when result is non-nil. Non-2xx responses become classified errors: 409 maps
// to already_exists, 404 to not_found, anything else to remote; transport
// failures map to network.
func (b *BaseClient) Do(op string, req *http.Request, result any) error {
	start := time.Now()
	reqID := req.Header.Get(RequestIDHeader)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.finish(op, req, start, 0, err)
		return ferrors.NetworkError("record service request failed").
			WithCause(err).
			WithContext("operation", op).
			WithContext("method", req.Method).
			WithContext("url", req.URL.String()).
			WithContext("request_id", reqID).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		limited, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		detail := strings.ReplaceAll(string(limited), "\n", " ")

		var builder *ferrors.ErrorBuilder
		switch resp.StatusCode {
		case http.StatusConflict:
			builder = ferrors.ConflictError("record service reported a conflict")
		case http.StatusNotFound:
			builder = ferrors.NewError(ferrors.CategoryNotFound, "record service reported not found")
		default:
			builder = ferrors.RemoteError("record service returned an error status")
		}
		err := builder.
			WithContext("operation", op).
			WithContext("status", resp.Status).
			WithContext("code", resp.StatusCode).
			WithContext("url", req.URL.String()).
			WithContext("request_id", reqID).
			WithContext("response", detail).
			Build()
		b.finish(op, req, start, resp.StatusCode, err)
		return err
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			err = records.ErrMalformedResponse.WithCause(err).WithContext("operation", op)
			b.finish(op, req, start, resp.StatusCode, err)
			return err
		}
	}
	b.finish(op, req, start, resp.StatusCode, nil)
	return nil
}

func (b *BaseClient) finish(op string, req *http.Request, start time.Time, code int, err error) {
	elapsed := time.Since(start)
	b.recorder.ObserveRequestDuration(op, elapsed, err == nil)

	attrs := []slog.Attr{
		logfields.Operation(op),
		logfields.Method(req.Method),
		logfields.URL(req.URL.String()),
		logfields.RequestID(req.Header.Get(RequestIDHeader)),
		logfields.Duration(elapsed),
	}
	if code != 0 {
		attrs = append(attrs, logfields.HTTPStatus(code))
	}
	if err != nil {
		attrs = append(attrs, logfields.Error(err))
	}
	b.logger.LogAttrs(req.Context(), slog.LevelDebug, "record service request", attrs...)
}

// StatusCode extracts the HTTP status recorded on an error returned by Do, or 0.
func StatusCode(err error) int {
	classified, ok := ferrors.AsClassified(err)
	if !ok {
		return 0
	}
	if v, ok := classified.Context().Get("code"); ok {
		if code, ok := v.(int); ok {
			return code
		}
	}
	return 0
}
