package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/minimall/storefront-client/internal/core/domain"
	"github.com/minimall/storefront-client/internal/transport"
)

// Catalog covers product browsing and the cart.
type Catalog struct {
	c *transport.Client
}

// NewCatalog wraps the shared client.
func NewCatalog(c *transport.Client) *Catalog {
	return &Catalog{c: c}
}

// Products pages the storefront product listing.
func (cl *Catalog) Products(ctx context.Context, pageNum, pageSize int) (*domain.ProductPage, error) {
	v := url.Values{}
	v.Set("pageNum", strconv.Itoa(pageNum))
	v.Set("pageSize", strconv.Itoa(pageSize))

	var page domain.ProductPage
	if err := cl.c.Get(ctx, "/product/list", v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Product fetches one product by id.
func (cl *Catalog) Product(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := cl.c.Get(ctx, "/product/"+strconv.FormatInt(id, 10), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Cart lists the current user's cart.
func (cl *Catalog) Cart(ctx context.Context) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := cl.c.Get(ctx, "/cart/list", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type cartAddRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CartAdd puts a product in the cart.
func (cl *Catalog) CartAdd(ctx context.Context, productID int64, quantity int) error {
	return cl.c.Post(ctx, "/cart/add", cartAddRequest{ProductID: productID, Quantity: quantity}, nil)
}

// CartRemove drops a cart entry.
func (cl *Catalog) CartRemove(ctx context.Context, itemID int64) error {
	return cl.c.Post(ctx, "/cart/remove/"+strconv.FormatInt(itemID, 10), nil, nil)
}
