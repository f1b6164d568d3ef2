// Package api holds the typed API modules: one thin function per domain
// operation, each a single call into the shared request pipeline with a
// fixed path, method and payload shape.
package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/minimall/storefront-client/internal/core/domain"
	"github.com/minimall/storefront-client/internal/transport"
)

// Orders covers the shopper-side order lifecycle.
type Orders struct {
	c *transport.Client
}

// NewOrders wraps the shared client.
func NewOrders(c *transport.Client) *Orders {
	return &Orders{c: c}
}

// OrderQuery pages an order listing. Status < 0 means all statuses.
type OrderQuery struct {
	PageNum  int
	PageSize int
	Status   int
}

func (q OrderQuery) values() url.Values {
	v := url.Values{}
	v.Set("pageNum", strconv.Itoa(q.PageNum))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Status >= 0 {
		v.Set("status", strconv.Itoa(q.Status))
	}
	return v
}

// MyList lists the current user's orders.
func (o *Orders) MyList(ctx context.Context, q OrderQuery) (*domain.OrderPage, error) {
	var page domain.OrderPage
	if err := o.c.Get(ctx, "/order/my-list", q.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Pay settles an order (simulated payment).
func (o *Orders) Pay(ctx context.Context, orderSN string) (string, error) {
	var msg string
	if err := o.c.Post(ctx, "/order/pay/"+orderSN, nil, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// Cancel cancels a not-yet-paid order.
func (o *Orders) Cancel(ctx context.Context, orderSN string) (string, error) {
	var msg string
	if err := o.c.Post(ctx, "/order/cancel/"+orderSN, nil, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// Receive confirms delivery.
func (o *Orders) Receive(ctx context.Context, orderSN string) (string, error) {
	var msg string
	if err := o.c.Post(ctx, "/order/receive/"+orderSN, nil, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

// FinishComment marks the review step done, advancing the order state.
func (o *Orders) FinishComment(ctx context.Context, orderSN string) (string, error) {
	var msg string
	if err := o.c.Post(ctx, "/order/comment/finish/"+orderSN, nil, &msg); err != nil {
		return "", err
	}
	return msg, nil
}

type refundRequest struct {
	OrderSN      string `json:"orderSn"`
	RefundReason string `json:"refundReason"`
}

// ApplyRefund opens a refund request on a paid order.
func (o *Orders) ApplyRefund(ctx context.Context, orderSN, reason string) (string, error) {
	var msg string
	if err := o.c.Post(ctx, "/order/refund/apply", refundRequest{OrderSN: orderSN, RefundReason: reason}, &msg); err != nil {
		return "", err
	}
	return msg, nil
}
