package transport

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/minimall/storefront-client/internal/core/domain"
)

type staticTokens struct {
	token string
}

func (s *staticTokens) Token() string { return s.token }

type staticShop struct {
	id string
}

func (s *staticShop) ShopID(context.Context) string { return s.id }

type recordingNotifier struct {
	errors    []string
	successes []string
}

func (r *recordingNotifier) Error(msg string)   { r.errors = append(r.errors, msg) }
func (r *recordingNotifier) Success(msg string) { r.successes = append(r.successes, msg) }

func newTestClient(t *testing.T, baseURL string, cfg Config) (*Client, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	cfg.BaseURL = baseURL
	if cfg.Tokens == nil {
		cfg.Tokens = &staticTokens{}
	}
	cfg.Notifier = n
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c, n
}

func TestClient_BearerHeaderFormat(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{"code":200,"message":"success","data":null}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, Config{Tokens: &staticTokens{token: "abc"}})
	if err := c.Get(context.Background(), "/order/my-list", nil, nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != "Bearer abc" {
		t.Fatalf("authorization header = %q, want %q", got, "Bearer abc")
	}
}

func TestClient_NoAuthHeaderWhenAnonymous(t *testing.T) {
	var present bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header["Authorization"]
		w.Write([]byte(`{"code":200,"message":"success","data":null}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, Config{})
	if err := c.Get(context.Background(), "/product/list", nil, nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if present {
		t.Fatalf("authorization header set without a token")
	}
}

func TestClient_EnvelopeUnwrap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":200,"message":"success","data":{"id":1,"username":"alice","role":3}}`))
	}))
	defer srv.Close()

	c, n := newTestClient(t, srv.URL, Config{})
	var out domain.Identity
	if err := c.Get(context.Background(), "/whoami", nil, &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if out.ID != 1 || out.Username != "alice" || out.Role != domain.RoleUser {
		t.Fatalf("unexpected identity: %+v", out)
	}
	if len(n.errors) != 0 {
		t.Fatalf("unexpected notifications: %v", n.errors)
	}
}

func TestClient_DomainErrorNotifiesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":500,"message":"stock exhausted","data":null}`))
	}))
	defer srv.Close()

	c, n := newTestClient(t, srv.URL, Config{})
	err := c.Post(context.Background(), "/cart/add", map[string]int{"productId": 1}, nil)

	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if de.Code != 500 || de.Message != "stock exhausted" {
		t.Fatalf("unexpected domain error: %+v", de)
	}
	if len(n.errors) != 1 || n.errors[0] != "stock exhausted" {
		t.Fatalf("expected exactly one notification with message, got %v", n.errors)
	}
}

func TestClient_RawPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hello":"world"}`))
	}))
	defer srv.Close()

	c, n := newTestClient(t, srv.URL, Config{})
	var out map[string]string
	if err := c.Get(context.Background(), "/legacy", nil, &out); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if out["hello"] != "world" {
		t.Fatalf("passthrough body not delivered: %v", out)
	}
	if len(n.errors) != 0 {
		t.Fatalf("unexpected notifications: %v", n.errors)
	}
}

func TestClient_AuthFailureForcesTeardown(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		invalidations := 0
		c, n := newTestClient(t, srv.URL, Config{
			Tokens: &staticTokens{token: "stale"},
			OnSessionInvalid: func(context.Context) {
				invalidations++
			},
		})

		err := c.Get(context.Background(), "/order/my-list", nil, nil)
		if !errors.Is(err, domain.ErrSessionExpired) {
			t.Fatalf("status %d: expected ErrSessionExpired, got %v", status, err)
		}
		if invalidations != 1 {
			t.Fatalf("status %d: session invalidation fired %d times, want 1", status, invalidations)
		}
		if len(n.errors) != 1 {
			t.Fatalf("status %d: expected exactly one notification, got %v", status, n.errors)
		}
		srv.Close()
	}
}

func TestClient_HTTPErrorNoTeardown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message":"upstream unavailable"}`))
	}))
	defer srv.Close()

	invalidations := 0
	c, n := newTestClient(t, srv.URL, Config{
		OnSessionInvalid: func(context.Context) { invalidations++ },
	})

	err := c.Get(context.Background(), "/order/my-list", nil, nil)
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Status != http.StatusBadGateway || he.Message != "upstream unavailable" {
		t.Fatalf("unexpected http error: %+v", he)
	}
	if invalidations != 0 {
		t.Fatalf("session must not be torn down on a %d", http.StatusBadGateway)
	}
	if len(n.errors) != 1 || n.errors[0] != "upstream unavailable" {
		t.Fatalf("expected one notification with the server message, got %v", n.errors)
	}
}

func TestClient_HTTPErrorFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, n := newTestClient(t, srv.URL, Config{})
	err := c.Get(context.Background(), "/any", nil, nil)
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Message != http.StatusText(http.StatusServiceUnavailable) {
		t.Fatalf("fallback message = %q", he.Message)
	}
	if len(n.errors) != 1 {
		t.Fatalf("expected one notification, got %v", n.errors)
	}
}

func TestClient_ShopContextHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(HeaderShopContext)
		w.Write([]byte(`{"code":200,"message":"success","data":null}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, Config{Shop: &staticShop{id: "shop-7"}})
	if err := c.Get(context.Background(), "/merchant/order/list", nil, nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got != "shop-7" {
		t.Fatalf("shop context header = %q, want %q", got, "shop-7")
	}
}

func TestClient_MultipartKeepsEncoderContentType(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Content-Type")
		w.Write([]byte(`{"code":200,"message":"success","data":"/static/logo/x.png"}`))
	}))
	defer srv.Close()

	// A poisoned default must not survive for multipart bodies.
	defaults := http.Header{}
	defaults.Set("Content-Type", "application/json")

	c, _ := newTestClient(t, srv.URL, Config{Headers: defaults})
	var out string
	files := []UploadFile{{Field: "file", Name: "x.png", Content: []byte("png-bytes")}}
	if err := c.Upload(context.Background(), "/merchant/shop/logo", nil, files, &out); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(got)
	if err != nil {
		t.Fatalf("parse content type %q: %v", got, err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("content type = %q, want multipart/form-data", mediaType)
	}
	if params["boundary"] == "" {
		t.Fatalf("boundary missing from content type %q", got)
	}
	if strings.Contains(got, "application/json") {
		t.Fatalf("default content type leaked: %q", got)
	}
	if out != "/static/logo/x.png" {
		t.Fatalf("unexpected result: %q", out)
	}
}

func TestClient_DefaultHeadersApplied(t *testing.T) {
	var accept, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		contentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"code":200,"message":"success","data":null}`))
	}))
	defer srv.Close()

	defaults := http.Header{}
	defaults.Set("Accept", "application/json")

	c, _ := newTestClient(t, srv.URL, Config{Headers: defaults})
	if err := c.Post(context.Background(), "/cart/add", map[string]int{"productId": 1}, nil); err != nil {
		t.Fatalf("Post returned error: %v", err)
	}
	if accept != "application/json" {
		t.Fatalf("default header dropped, accept = %q", accept)
	}
	if contentType != "application/json" {
		t.Fatalf("json content type = %q", contentType)
	}
}

func TestClient_TimeoutBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"code":200,"message":"success","data":null}`))
	}))
	defer srv.Close()

	c, n := newTestClient(t, srv.URL, Config{Timeout: 30 * time.Millisecond})
	start := time.Now()
	err := c.Get(context.Background(), "/slow", nil, nil)
	if err == nil {
		t.Fatalf("expected a timeout error")
	}
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Fatalf("request was not bounded, took %v", elapsed)
	}
	if len(n.errors) != 1 {
		t.Fatalf("expected one notification, got %v", n.errors)
	}
}

func TestClient_QueryEncoding(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"code":200,"message":"success","data":null}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, Config{})
	q := url.Values{}
	q.Set("pageNum", "2")
	q.Set("pageSize", "10")
	if err := c.Get(context.Background(), "/order/my-list", q, nil); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.Get("pageNum") != "2" || got.Get("pageSize") != "10" {
		t.Fatalf("query not forwarded: %v", got)
	}
}
