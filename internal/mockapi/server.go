// Package mockapi is a self-contained development backend speaking the
// platform's envelope contract. It exists so the client can be exercised
// end to end without the hosted backend: domain failures come back as
// HTTP 200 with a non-200 envelope code, auth failures as real 401/403.
package mockapi

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/minimall/storefront-client/internal/core/domain"
)

// Config configures the mock backend.
type Config struct {
	JWTSecret string
	Log       zerolog.Logger
}

// Server holds the in-memory fixtures and the echo instance.
type Server struct {
	e      *echo.Echo
	secret string
	log    zerolog.Logger

	mu         sync.Mutex
	users      map[string]*account
	orders     map[string]*domain.Order
	nextUserID int64
}

type account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash []byte
	Role         domain.Role
}

// New builds a Server with seeded fixtures and all routes registered.
func New(cfg Config) *Server {
	s := &Server{
		secret: cfg.JWTSecret,
		log:    cfg.Log,
		users:  map[string]*account{},
		orders: map[string]*domain.Order{},
	}
	s.seed()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Validator = newValidator()

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/auth/login", s.login)
	e.POST("/auth/register", s.register)
	e.POST("/auth/register/email", s.registerByEmail)

	user := e.Group("/order", s.auth, s.requireRole(domain.RoleUser))
	user.GET("/my-list", s.myOrders)
	user.POST("/pay/:sn", s.payOrder)
	user.POST("/cancel/:sn", s.cancelOrder)
	user.POST("/receive/:sn", s.receiveOrder)
	user.POST("/comment/finish/:sn", s.finishComment)
	user.POST("/refund/apply", s.applyRefund)

	merchant := e.Group("/merchant", s.auth, s.requireRole(domain.RoleManager))
	merchant.GET("/order/list", s.merchantOrders)
	merchant.POST("/order/ship", s.shipOrder)
	merchant.POST("/order/refund/audit", s.auditRefund)
	merchant.POST("/shop/logo", s.uploadLogo)

	s.e = e
	return s
}

// Handler exposes the server for httptest.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start serves on addr until the process exits.
func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// seed provisions one account per role plus a handful of orders in assorted
// lifecycle states. All passwords are "password123".
func (s *Server) seed() {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		panic("mockapi: seed hash: " + err.Error())
	}

	s.users["alice"] = &account{ID: 1, Username: "alice", PasswordHash: hash, Role: domain.RoleUser}
	s.users["bob"] = &account{ID: 2, Username: "bob", PasswordHash: hash, Role: domain.RoleManager}
	s.users["carol"] = &account{ID: 3, Username: "carol", PasswordHash: hash, Role: domain.RoleAdmin}
	s.nextUserID = 4

	seedOrders := []*domain.Order{
		{ID: 1, OrderSN: "SN-1001", UserID: 1, ShopID: 7, TotalAmount: 59.90, Status: domain.OrderPendingPayment,
			OrderItems: []domain.OrderItem{{ProductID: 11, ProductName: "Ceramic Mug", ProductPrice: 29.95, Quantity: 2}}},
		{ID: 2, OrderSN: "SN-1002", UserID: 1, ShopID: 7, TotalAmount: 120.00, Status: domain.OrderAwaitingShipped,
			OrderItems: []domain.OrderItem{{ProductID: 12, ProductName: "Desk Lamp", ProductPrice: 120.00, Quantity: 1}}},
		{ID: 3, OrderSN: "SN-1003", UserID: 1, ShopID: 8, TotalAmount: 15.50, Status: domain.OrderShipped,
			OrderItems: []domain.OrderItem{{ProductID: 13, ProductName: "Notebook", ProductPrice: 15.50, Quantity: 1}}},
		{ID: 4, OrderSN: "SN-1004", UserID: 1, ShopID: 7, TotalAmount: 42.00, Status: domain.OrderRefundRequested,
			RefundReason: "wrong colour",
			OrderItems:   []domain.OrderItem{{ProductID: 14, ProductName: "Throw Pillow", ProductPrice: 42.00, Quantity: 1}}},
	}
	for _, o := range seedOrders {
		s.orders[o.OrderSN] = o
	}
}

// ok renders the success envelope.
func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Code: 200, Message: "success", Data: data})
}

// fail renders a domain failure: HTTP 200, envelope code != 200.
func fail(c echo.Context, code int, msg string) error {
	return c.JSON(http.StatusOK, envelope{Code: code, Message: msg})
}

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}
