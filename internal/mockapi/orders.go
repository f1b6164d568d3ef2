package mockapi

import (
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/minimall/storefront-client/internal/core/domain"
	"github.com/minimall/storefront-client/internal/transport"
)

func (s *Server) myOrders(c echo.Context) error {
	ident := identity(c)
	status, hasStatus := intParam(c, "status")

	s.mu.Lock()
	var matched []domain.Order
	for _, o := range s.orders {
		if o.UserID != ident.ID {
			continue
		}
		if hasStatus && o.Status != status {
			continue
		}
		matched = append(matched, *o)
	}
	s.mu.Unlock()

	return ok(c, paginate(c, matched))
}

func (s *Server) merchantOrders(c echo.Context) error {
	status, hasStatus := intParam(c, "status")
	orderSN := c.QueryParam("orderSn")
	shopID := c.Request().Header.Get(transport.HeaderShopContext)

	s.mu.Lock()
	var matched []domain.Order
	for _, o := range s.orders {
		if hasStatus && o.Status != status {
			continue
		}
		if orderSN != "" && o.OrderSN != orderSN {
			continue
		}
		if shopID != "" && strconv.FormatInt(o.ShopID, 10) != shopID {
			continue
		}
		matched = append(matched, *o)
	}
	s.mu.Unlock()

	return ok(c, paginate(c, matched))
}

func (s *Server) payOrder(c echo.Context) error {
	return s.transition(c, c.Param("sn"), domain.OrderPendingPayment, domain.OrderAwaitingShipped, "paid", func(o *domain.Order) {
		o.PayTime = now()
		o.PayAmount = o.TotalAmount
	})
}

func (s *Server) cancelOrder(c echo.Context) error {
	return s.transition(c, c.Param("sn"), domain.OrderPendingPayment, domain.OrderCancelled, "cancelled", func(o *domain.Order) {
		o.CancelReason = "cancelled by user"
	})
}

func (s *Server) receiveOrder(c echo.Context) error {
	return s.transition(c, c.Param("sn"), domain.OrderShipped, domain.OrderAwaitingReview, "received", func(o *domain.Order) {
		o.ReceiveTime = now()
	})
}

func (s *Server) finishComment(c echo.Context) error {
	return s.transition(c, c.Param("sn"), domain.OrderAwaitingReview, domain.OrderCompleted, "completed", func(o *domain.Order) {
		o.CommentTime = now()
	})
}

type refundApplyRequest struct {
	OrderSN      string `json:"orderSn" validate:"required"`
	RefundReason string `json:"refundReason" validate:"required"`
}

func (s *Server) applyRefund(c echo.Context) error {
	var req refundApplyRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, 400, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, found := s.orders[req.OrderSN]
	if !found {
		return fail(c, 404, domain.ErrOrderNotFound.Error())
	}
	// Refunds only apply between payment and delivery confirmation.
	if o.Status != domain.OrderAwaitingShipped && o.Status != domain.OrderShipped {
		return fail(c, 422, domain.ErrInvalidTransition.Error())
	}
	o.Status = domain.OrderRefundRequested
	o.RefundReason = req.RefundReason
	o.UpdateTime = now()
	return ok(c, "refund requested")
}

type shipRequest struct {
	OrderSN string `json:"orderSn" validate:"required"`
}

func (s *Server) shipOrder(c echo.Context) error {
	var req shipRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, 400, err.Error())
	}
	return s.transition(c, req.OrderSN, domain.OrderAwaitingShipped, domain.OrderShipped, "shipped", func(o *domain.Order) {
		o.ShippingTime = now()
	})
}

type auditRefundRequest struct {
	OrderSN     string `json:"orderSn" validate:"required"`
	Approve     bool   `json:"approve"`
	AdminReason string `json:"adminReason"`
}

func (s *Server) auditRefund(c echo.Context) error {
	var req auditRefundRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, 400, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	o, found := s.orders[req.OrderSN]
	if !found {
		return fail(c, 404, domain.ErrOrderNotFound.Error())
	}
	if o.Status != domain.OrderRefundRequested {
		return fail(c, 422, domain.ErrInvalidTransition.Error())
	}

	o.RefundAdminReason = req.AdminReason
	o.UpdateTime = now()
	if req.Approve {
		o.Status = domain.OrderRefunded
		return ok(c, "refund approved")
	}
	// A rejected refund puts the order back in the paid queue.
	o.Status = domain.OrderAwaitingShipped
	return ok(c, "refund rejected")
}

func (s *Server) uploadLogo(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, 400, "file is required")
	}
	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "open upload")
	}
	defer src.Close()
	if _, err := io.Copy(io.Discard, src); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "read upload")
	}

	return ok(c, "/static/logo/"+file.Filename)
}

// transition moves an order from one status to exactly one other, applying
// extra mutations under the same lock.
func (s *Server) transition(c echo.Context, sn string, from, to int, okMsg string, mutate func(*domain.Order)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, found := s.orders[sn]
	if !found {
		return fail(c, 404, domain.ErrOrderNotFound.Error())
	}
	if o.Status != from {
		return fail(c, 422, domain.ErrInvalidTransition.Error())
	}
	o.Status = to
	o.UpdateTime = now()
	if mutate != nil {
		mutate(o)
	}
	return ok(c, okMsg)
}

func paginate(c echo.Context, orders []domain.Order) domain.OrderPage {
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })

	pageNum, _ := intParam(c, "pageNum")
	pageSize, _ := intParam(c, "pageSize")
	if pageNum < 1 {
		pageNum = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	total := len(orders)
	pages := (total + pageSize - 1) / pageSize
	start := (pageNum - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return domain.OrderPage{
		Records: orders[start:end],
		Total:   int64(total),
		Size:    pageSize,
		Current: pageNum,
		Pages:   pages,
	}
}

func intParam(c echo.Context, name string) (int, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
