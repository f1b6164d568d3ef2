// Package transport is the configured request pipeline every API call
// shares. It owns the three interception stages of the client:
//
//   - outbound: attach the bearer token and merchant shop context, and keep
//     multipart bodies free of caller-set content types
//   - inbound: unwrap the uniform envelope or pass bare payloads through
//   - transport failure: classify network and HTTP-status errors, with
//     401/403 triggering a forced session teardown
//
// Centralised side effects (user notification, session invalidation) run
// exactly once here; the classified error is then returned to the caller.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/minimall/storefront-client/internal/core/domain"
	"github.com/minimall/storefront-client/internal/metrics"
	"github.com/minimall/storefront-client/internal/notify"
)

// HeaderShopContext carries the selected merchant shop on scoped requests.
// Harmless on endpoints that ignore it, so it is attached unconditionally
// whenever a shop context is set.
const HeaderShopContext = "X-Shop-Id"

const defaultTimeout = 5 * time.Second

// TokenSource yields the current session token; empty means unauthenticated.
type TokenSource interface {
	Token() string
}

// ShopSource yields the selected merchant shop, or "" when none.
type ShopSource interface {
	ShopID(ctx context.Context) string
}

// Config assembles a Client. Tokens and Notifier are required.
type Config struct {
	BaseURL string
	// Timeout bounds every request. Zero selects the 5s default; requests
	// are never unbounded.
	Timeout time.Duration

	Tokens   TokenSource
	Shop     ShopSource
	Notifier notify.Notifier

	// OnSessionInvalid fires after a 401/403 response, once per response,
	// after the "session expired" notification. The navigation layer
	// subscribes here; this package never imports it.
	OnSessionInvalid func(ctx context.Context)

	// Headers are defaults applied to every outgoing request before the
	// outbound stage runs.
	Headers http.Header

	Log zerolog.Logger

	// HTTPClient overrides the underlying transport. Tests only.
	HTTPClient *http.Client
}

// Client is the shared request pipeline.
type Client struct {
	base             *url.URL
	http             *http.Client
	tokens           TokenSource
	shop             ShopSource
	notifier         notify.Notifier
	onSessionInvalid func(ctx context.Context)
	headers          http.Header
	log              zerolog.Logger
}

// New builds a Client from cfg.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("transport: parse base url: %w", err)
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("transport: token source is required")
	}
	if cfg.Notifier == nil {
		return nil, fmt.Errorf("transport: notifier is required")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	if hc.Timeout <= 0 {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc.Timeout = timeout
	}

	return &Client{
		base:             base,
		http:             hc,
		tokens:           cfg.Tokens,
		shop:             cfg.Shop,
		notifier:         cfg.Notifier,
		onSessionInvalid: cfg.OnSessionInvalid,
		headers:          cfg.Headers,
		log:              cfg.Log,
	}, nil
}

// Get performs a GET and decodes the unwrapped result into out (out may be
// nil when the caller only cares about success).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", false, out)
}

// Post sends body as JSON (nil for an empty body) and decodes into out.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("transport: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, http.MethodPost, path, nil, reader, contentType, false, out)
}

// UploadFile is one file part of a multipart request.
type UploadFile struct {
	Field   string
	Name    string
	Content []byte
}

// Upload sends a multipart/form-data POST. The content type carrying the
// encoder's boundary is attached after interception, so the outbound stage
// cannot clobber it and defaults cannot leak in.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, files []UploadFile, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("transport: write field %q: %w", k, err)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return fmt.Errorf("transport: create file part %q: %w", f.Field, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return fmt.Errorf("transport: write file part %q: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("transport: close multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, &buf, w.FormDataContentType(), true, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, isMultipart bool, out any) error {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("transport: build request: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" && !isMultipart {
		req.Header.Set("Content-Type", contentType)
	}

	c.outbound(req, isMultipart)

	if isMultipart {
		// The boundary type comes from the multipart encoder, never from
		// the interception stage or the client defaults.
		req.Header.Set("Content-Type", contentType)
	}

	metrics.RequestsTotal.WithLabelValues(method, path).Inc()
	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RequestErrorsTotal.WithLabelValues("network").Inc()
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		c.notifier.Error("network error, please try again")
		return fmt.Errorf("transport: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RequestErrorsTotal.WithLabelValues("network").Inc()
		c.notifier.Error("network error, please try again")
		return fmt.Errorf("transport: read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return c.sessionInvalid(ctx, method, path, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := serverMessage(raw, http.StatusText(resp.StatusCode))
		metrics.RequestErrorsTotal.WithLabelValues("http").Inc()
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("http error")
		c.notifier.Error(msg)
		return &HTTPError{Status: resp.StatusCode, Message: msg}
	}

	return c.inbound(raw, out)
}

// outbound runs fully before every dispatch.
func (c *Client) outbound(req *http.Request, isMultipart bool) {
	// Bearer format is a hard contract: exactly one space after "Bearer".
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.shop != nil {
		if id := c.shop.ShopID(req.Context()); id != "" {
			req.Header.Set(HeaderShopContext, id)
		}
	}

	// A multipart body must go out with the encoder's boundary type;
	// whatever a default or caller put here is wrong and gets dropped.
	if isMultipart {
		req.Header.Del("Content-Type")
	}
}

// inbound runs fully before the caller observes any result.
func (c *Client) inbound(raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	env, enveloped := decodeEnvelope(raw)
	if !enveloped {
		// Compatibility shim for endpoints predating the envelope: hand
		// the body to the caller unchanged.
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			metrics.RequestErrorsTotal.WithLabelValues("decode").Inc()
			return fmt.Errorf("transport: decode response: %w", err)
		}
		return nil
	}

	if env.Code != CodeOK {
		msg := env.Message
		if msg == "" {
			msg = "system error"
		}
		metrics.RequestErrorsTotal.WithLabelValues("domain").Inc()
		c.notifier.Error(msg)
		return &DomainError{Code: env.Code, Message: msg}
	}

	if out == nil || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		metrics.RequestErrorsTotal.WithLabelValues("decode").Inc()
		return fmt.Errorf("transport: decode data: %w", err)
	}
	return nil
}

// sessionInvalid handles the authoritative 401/403 signal: the session is no
// longer valid regardless of which call surfaced it. Runs even for responses
// that arrive after a local logout; teardown is idempotent.
func (c *Client) sessionInvalid(ctx context.Context, method, path string, status int) error {
	metrics.RequestErrorsTotal.WithLabelValues("auth").Inc()
	metrics.SessionInvalidationsTotal.Inc()
	c.log.Warn().Int("status", status).Str("method", method).Str("path", path).Msg("session rejected by backend")

	c.notifier.Error("session expired, please log in again")
	if c.onSessionInvalid != nil {
		c.onSessionInvalid(ctx)
	}
	return domain.ErrSessionExpired
}
