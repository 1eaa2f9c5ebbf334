package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/logger"

	"github.com/google/uuid"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	shape      domain.ResponseShape
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithResponseShape selects which search response body the backend sends.
func WithResponseShape(shape domain.ResponseShape) Option {
	return func(c *Client) {
		if shape != "" {
			c.shape = shape
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		shape:      domain.ResponseShapeObject,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestOptions struct {
	basicUser, basicPass string
	basic                bool
}

type RequestOption func(*requestOptions)

func WithBasicAuth(username, password string) RequestOption {
	return func(o *requestOptions) {
		o.basic = true
		o.basicUser = username
		o.basicPass = password
	}
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Get performs a GET and returns the raw 2xx body.
func (c *Client) Get(ctx context.Context, path string, params url.Values, token string) ([]byte, error) {
	_, body, err := c.do(ctx, http.MethodGet, c.endpoint(path, params), nil, token, requestOptions{})
	return body, err
}

// Post sends body as JSON and returns the raw 2xx body. token may be empty.
func (c *Client) Post(ctx context.Context, path string, body any, token string, opts ...RequestOption) ([]byte, error) {
	_, respBody, err := c.post(ctx, path, body, token, opts...)
	return respBody, err
}

func (c *Client) post(ctx context.Context, path string, body any, token string, opts ...RequestOption) (int, []byte, error) {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("could not encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.endpoint(path, nil), payload, token, ro)
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte, token string, ro requestOptions) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, &domain.APIError{Network: true, Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch {
	case ro.basic:
		req.SetBasicAuth(ro.basicUser, ro.basicPass)
	case token != "":
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := logger.Log.With().Str("request_id", requestID).Str("method", method).Str("url", redact(target)).Logger()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Request failed before a response arrived")
		return 0, nil, &domain.APIError{Network: true, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		log.Warn().Err(err).Int("status", resp.StatusCode).Msg("Could not read response body")
		return resp.StatusCode, nil, &domain.APIError{Network: true, Err: err}
	}

	log.Debug().Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("Request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, nil, &domain.APIError{
			Status: resp.StatusCode,
			Body:   string(body),
			Err:    fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	return resp.StatusCode, body, nil
}

// redact drops the query string so search terms stay out of the log.
func redact(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}

// malformed reports a 2xx response whose body could not be understood.
func malformed(status int, body []byte, err error) *domain.APIError {
	return &domain.APIError{Status: status, Body: string(body), Err: fmt.Errorf("malformed response body: %w", err)}
}

// AsAPIError extracts the APIError from err, if any.
func AsAPIError(err error) (*domain.APIError, bool) {
	var apiErr *domain.APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
