package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/minimall/storefront-client/internal/core/domain"
	"github.com/minimall/storefront-client/internal/transport"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(Config{JWTSecret: "secret", Log: zerolog.Nop()})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

type testEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func postJSON(t *testing.T, url, token string, body any) (*http.Response, testEnvelope) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return doRequest(t, req)
}

func get(t *testing.T, url, token, shopID string) (*http.Response, testEnvelope) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if shopID != "" {
		req.Header.Set(transport.HeaderShopContext, shopID)
	}
	return doRequest(t, req)
}

func doRequest(t *testing.T, req *http.Request) (*http.Response, testEnvelope) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var env testEnvelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

func login(t *testing.T, base, username string) string {
	t.Helper()
	resp, env := postJSON(t, base+"/auth/login", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	if resp.StatusCode != http.StatusOK || env.Code != 200 {
		t.Fatalf("login %s failed: status %d, envelope %+v", username, resp.StatusCode, env)
	}
	var res domain.LoginResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode login result: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("empty token for %s", username)
	}
	return res.Token
}

func TestLogin_Success(t *testing.T) {
	srv := newTestServer(t)
	resp, env := postJSON(t, srv.URL+"/auth/login", "", map[string]string{
		"username": "alice", "password": "password123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if env.Code != 200 {
		t.Fatalf("envelope code = %d (%s)", env.Code, env.Message)
	}
	var res domain.LoginResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if res.ID != 1 || res.Username != "alice" || res.Role != domain.RoleUser {
		t.Fatalf("unexpected login result: %+v", res)
	}
}

func TestLogin_WrongPasswordIsDomainFailure(t *testing.T) {
	srv := newTestServer(t)
	resp, env := postJSON(t, srv.URL+"/auth/login", "", map[string]string{
		"username": "alice", "password": "nope",
	})
	// Domain failures ride on HTTP 200; the envelope carries the outcome.
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if env.Code == 200 {
		t.Fatalf("expected a non-200 envelope code")
	}
	if env.Message == "" {
		t.Fatalf("expected a failure message")
	}
}

func TestRegister_DuplicateRejected(t *testing.T) {
	srv := newTestServer(t)
	_, env := postJSON(t, srv.URL+"/auth/register", "", map[string]any{
		"username": "dave", "password": "password123",
	})
	if env.Code != 200 {
		t.Fatalf("first register failed: %+v", env)
	}
	_, env = postJSON(t, srv.URL+"/auth/register", "", map[string]any{
		"username": "dave", "password": "password123",
	})
	if env.Code != 409 {
		t.Fatalf("duplicate register: envelope code = %d", env.Code)
	}
}

func TestOrders_RequireToken(t *testing.T) {
	srv := newTestServer(t)
	resp, _ := get(t, srv.URL+"/order/my-list?pageNum=1&pageSize=10", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestOrders_RoleGateIsExact(t *testing.T) {
	srv := newTestServer(t)
	aliceToken := login(t, srv.URL, "alice")
	carolToken := login(t, srv.URL, "carol")

	// A shopper cannot enter the merchant surface.
	resp, _ := get(t, srv.URL+"/merchant/order/list?pageNum=1&pageSize=10", aliceToken, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("shopper on merchant route: status = %d, want 403", resp.StatusCode)
	}

	// Neither can an admin: no role hierarchy.
	resp, _ = get(t, srv.URL+"/merchant/order/list?pageNum=1&pageSize=10", carolToken, "")
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("admin on merchant route: status = %d, want 403", resp.StatusCode)
	}
}

func TestOrders_MyListAndLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv.URL, "alice")

	_, env := get(t, srv.URL+"/order/my-list?pageNum=1&pageSize=10", token, "")
	if env.Code != 200 {
		t.Fatalf("my-list failed: %+v", env)
	}
	var page domain.OrderPage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if page.Total != 4 {
		t.Fatalf("total = %d, want 4 seeded orders", page.Total)
	}

	_, env = postJSON(t, srv.URL+"/order/pay/SN-1001", token, nil)
	if env.Code != 200 {
		t.Fatalf("pay failed: %+v", env)
	}

	// Paying twice is an invalid transition, reported as a domain failure.
	_, env = postJSON(t, srv.URL+"/order/pay/SN-1001", token, nil)
	if env.Code != 422 {
		t.Fatalf("second pay: envelope code = %d, want 422", env.Code)
	}

	_, env = postJSON(t, srv.URL+"/order/pay/SN-9999", token, nil)
	if env.Code != 404 {
		t.Fatalf("unknown order: envelope code = %d, want 404", env.Code)
	}
}

func TestMerchant_ShopContextFilter(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv.URL, "bob")

	_, env := get(t, srv.URL+"/merchant/order/list?pageNum=1&pageSize=10", token, "7")
	if env.Code != 200 {
		t.Fatalf("merchant list failed: %+v", env)
	}
	var page domain.OrderPage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	for _, o := range page.Records {
		if o.ShopID != 7 {
			t.Fatalf("order %s from shop %d leaked into shop 7 listing", o.OrderSN, o.ShopID)
		}
	}
	if len(page.Records) != 3 {
		t.Fatalf("shop 7 has %d orders, want 3", len(page.Records))
	}
}

func TestMerchant_ShipAndRefundAudit(t *testing.T) {
	srv := newTestServer(t)
	token := login(t, srv.URL, "bob")

	_, env := postJSON(t, srv.URL+"/merchant/order/ship", token, map[string]string{"orderSn": "SN-1002"})
	if env.Code != 200 {
		t.Fatalf("ship failed: %+v", env)
	}

	_, env = postJSON(t, srv.URL+"/merchant/order/refund/audit", token, map[string]any{
		"orderSn": "SN-1004", "approve": true, "adminReason": "verified",
	})
	if env.Code != 200 {
		t.Fatalf("refund audit failed: %+v", env)
	}

	// The audited order is terminal now.
	_, env = postJSON(t, srv.URL+"/merchant/order/refund/audit", token, map[string]any{
		"orderSn": "SN-1004", "approve": false,
	})
	if env.Code != 422 {
		t.Fatalf("re-audit: envelope code = %d, want 422", env.Code)
	}
}
