package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/minimall/storefront-client/internal/core/domain"
	"github.com/minimall/storefront-client/internal/storage"
	"github.com/minimall/storefront-client/internal/transport"
)

// Merchant covers the shop-owner back office. It also owns the shop
// context: selecting a shop persists it so the outbound stage scopes every
// following request to it.
type Merchant struct {
	c  *transport.Client
	st storage.Store
}

// NewMerchant wraps the shared client and the durable store.
func NewMerchant(c *transport.Client, st storage.Store) *Merchant {
	return &Merchant{c: c, st: st}
}

// SelectShop persists the working shop. It is cleared with the rest of the
// durable storage on logout.
func (m *Merchant) SelectShop(ctx context.Context, shopID string) error {
	return m.st.Set(ctx, storage.KeyShop, shopID)
}

// MerchantOrderQuery pages a merchant order listing, optionally pinned to
// one order number. Status < 0 means all statuses.
type MerchantOrderQuery struct {
	PageNum  int
	PageSize int
	Status   int
	OrderSN  string
}

func (q MerchantOrderQuery) values() url.Values {
	v := url.Values{}
	v.Set("pageNum", strconv.Itoa(q.PageNum))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Status >= 0 {
		v.Set("status", strconv.Itoa(q.Status))
	}
	if q.OrderSN != "" {
		v.Set("orderSn", q.OrderSN)
	}
	return v
}

// Orders lists the shop's incoming orders.
func (m *Merchant) Orders(ctx context.Context, q MerchantOrderQuery) (*domain.OrderPage, error) {
	var page domain.OrderPage
	if err := m.c.Get(ctx, "/merchant/order/list", q.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

type shipRequest struct {
	OrderSN string `json:"orderSn"`
}

// Ship marks a paid order as shipped.
func (m *Merchant) Ship(ctx context.Context, orderSN string) (string, error) {
	var msg string
	if err := m.c.Post(ctx, "/merchant/order/ship", shipRequest{OrderSN: orderSN}, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

type auditRefundRequest struct {
	OrderSN     string `json:"orderSn"`
	Approve     bool   `json:"approve"`
	AdminReason string `json:"adminReason,omitempty"`
}

// AuditRefund approves or rejects a shopper's refund request.
func (m *Merchant) AuditRefund(ctx context.Context, orderSN string, approve bool, reason string) (string, error) {
	var msg string
	req := auditRefundRequest{OrderSN: orderSN, Approve: approve, AdminReason: reason}
	if err := m.c.Post(ctx, "/merchant/order/refund/audit", req, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// UploadLogo replaces the shop logo. Multipart: the request goes out with
// the encoder's boundary content type only.
func (m *Merchant) UploadLogo(ctx context.Context, filename string, content []byte) (string, error) {
	var logoURL string
	files := []transport.UploadFile{{Field: "file", Name: filename, Content: content}}
	if err := m.c.Upload(ctx, "/merchant/shop/logo", nil, files, &logoURL); err != nil {
		return "", err
	}
	return logoURL, nil
}
