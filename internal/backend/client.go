package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lumenline/quotedesk/pkg/config"
	pkgerrors "github.com/lumenline/quotedesk/pkg/errors"
	"github.com/lumenline/quotedesk/pkg/logger"
	"github.com/lumenline/quotedesk/pkg/metrics"
)

const (
	headerUserID    = "x-user-id"
	headerUserEmail = "x-user-email"
)

var errLoggerRequired = errors.New("backend logger is required")

// Identity carries the authenticated rep forwarded on every upstream call.
type Identity struct {
	UserID int64
	Email  string
	Token  string
}

// Client exposes the quotation backend with centralized identity headers,
// logging, metrics, and error mapping.
type Client struct {
	baseURL string
	http    *http.Client
	upload  *http.Client
	logger  *logger.Logger
	metrics *metrics.BackendMetrics
}

// NewClient initializes the backend wrapper.
func NewClient(cfg config.BackendConfig, logg *logger.Logger, m *metrics.BackendMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	return &Client{
		baseURL: cfg.NormalizedBaseURL(),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		upload:  &http.Client{Timeout: cfg.UploadTimeout},
		logger:  logg,
		metrics: m,
	}, nil
}

// APIError is the normalized upstream failure. The message prefers the
// backend's own detail field and falls back to the bare status code.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed: %d", e.Status)
}

// StatusCode returns the upstream HTTP status.
func (e *APIError) StatusCode() int { return e.Status }

// UpstreamDetail returns the backend-provided detail message, if any.
func (e *APIError) UpstreamDetail() string { return e.Detail }

func (c *Client) getJSON(ctx context.Context, op, path string, id *Identity, out any) error {
	return c.doJSON(ctx, op, http.MethodGet, path, id, nil, out)
}

func (c *Client) postJSON(ctx context.Context, op, path string, id *Identity, body, out any) error {
	return c.doJSON(ctx, op, http.MethodPost, path, id, body, out)
}

func (c *Client) putJSON(ctx context.Context, op, path string, id *Identity, body, out any) error {
	return c.doJSON(ctx, op, http.MethodPut, path, id, body, out)
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, id *Identity, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("encode %s request", op))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s request", op))
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.execute(ctx, op, req, c.http, id, out)
}

// postMultipart streams a file upload with optional extra form fields.
func (c *Client) postMultipart(ctx context.Context, op, path string, id *Identity, fieldName, filename string, file io.Reader, fields map[string]string, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s form", op))
	}
	if _, err := io.Copy(part, file); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("copy %s payload", op))
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s form", op))
		}
	}
	if err := writer.Close(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("finish %s form", op))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s request", op))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.execute(ctx, op, req, c.upload, id, out)
}

// getBinary fetches a document and returns its bytes plus content type.
func (c *Client) getBinary(ctx context.Context, op, path string, id *Identity) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("build %s request", op))
	}
	c.applyIdentity(req, id)

	start := time.Now()
	resp, err := c.upload.Do(req)
	c.observe(op, start, err == nil)
	if err != nil {
		c.logFailure(ctx, op, err)
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("backend %s failed", op))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp)
		c.logFailure(ctx, op, apiErr)
		return nil, "", c.wrapAPIError(op, apiErr)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("read %s response", op))
	}
	return payload, resp.Header.Get("Content-Type"), nil
}

func (c *Client) execute(ctx context.Context, op string, req *http.Request, httpClient *http.Client, id *Identity, out any) error {
	c.applyIdentity(req, id)

	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		c.observe(op, start, false)
		c.logFailure(ctx, op, err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("backend %s failed", op))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.observe(op, start, false)
		apiErr := decodeAPIError(resp)
		c.logFailure(ctx, op, apiErr)
		return c.wrapAPIError(op, apiErr)
	}
	c.observe(op, start, true)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", op))
	}
	return nil
}

func (c *Client) applyIdentity(req *http.Request, id *Identity) {
	if id == nil {
		return
	}
	if id.UserID != 0 {
		req.Header.Set(headerUserID, strconv.FormatInt(id.UserID, 10))
	}
	if id.Email != "" {
		req.Header.Set(headerUserEmail, id.Email)
	}
	if id.Token != "" {
		req.Header.Set("Authorization", "Bearer "+id.Token)
	}
}

func (c *Client) observe(op string, start time.Time, ok bool) {
	c.metrics.ObserveDuration(op, time.Since(start))
	if ok {
		c.metrics.IncSuccess(op)
	} else {
		c.metrics.IncFailure(op)
	}
}

func (c *Client) logFailure(ctx context.Context, op string, err error) {
	if c.logger == nil {
		return
	}
	ctx = c.logger.WithField(ctx, "operation", op)
	c.logger.Error(ctx, fmt.Sprintf("backend %s", op), err)
}

func (c *Client) wrapAPIError(op string, apiErr *APIError) error {
	code := domainCodeForStatus(apiErr.Status)
	wrapped := pkgerrors.Wrap(code, apiErr, fmt.Sprintf("backend %s failed", op))
	if apiErr.Detail != "" && pkgerrors.MetadataFor(code).DetailsAllowed {
		wrapped.WithDetails(map[string]any{"detail": apiErr.Detail})
	}
	return wrapped
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(payload, &body); err == nil {
		apiErr.Detail = body.Detail
	}
	return apiErr
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return pkgerrors.CodeStateConflict
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeDependency
	}
}

func queryPath(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
