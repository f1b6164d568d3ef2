package domain

// Order lifecycle status codes, as the backend reports them.
const (
	OrderPendingPayment  = 0
	OrderAwaitingShipped = 1
	OrderShipped         = 2
	OrderAwaitingReview  = 3
	OrderCompleted       = 4
	OrderCancelled       = 5
	OrderRefundRequested = 6
	OrderRefunded        = 7
)

// OrderItem is a single line of an order.
type OrderItem struct {
	OrderID      int64   `json:"orderId,omitempty"`
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductImage string  `json:"productImage"`
	ProductPrice float64 `json:"productPrice"`
	Quantity     int     `json:"quantity"`
}

// Order mirrors the backend order view object.
type Order struct {
	ID          int64   `json:"id"`
	OrderSN     string  `json:"orderSn"`
	UserID      int64   `json:"userId,omitempty"`
	ShopID      int64   `json:"shopId,omitempty"`
	TotalAmount float64 `json:"totalAmount"`
	PayAmount   float64 `json:"payAmount,omitempty"`
	PointsUsed  int     `json:"pointsUsed,omitempty"`

	Status     int    `json:"status"`
	StatusText string `json:"statusText,omitempty"`

	CancelReason      string `json:"cancelReason,omitempty"`
	RefundReason      string `json:"refundReason,omitempty"`
	RefundAdminReason string `json:"refundAdminReason,omitempty"`

	CreateTime   string `json:"createTime,omitempty"`
	PayTime      string `json:"payTime,omitempty"`
	ShippingTime string `json:"shippingTime,omitempty"`
	ReceiveTime  string `json:"receiveTime,omitempty"`
	CommentTime  string `json:"commentTime,omitempty"`
	UpdateTime   string `json:"updateTime,omitempty"`

	ReceiverName  string `json:"receiverName,omitempty"`
	ReceiverPhone string `json:"receiverPhone,omitempty"`
	Address       string `json:"address,omitempty"`

	OrderItems []OrderItem `json:"orderItems,omitempty"`
}

// OrderPage is a paginated order listing.
type OrderPage struct {
	Records []Order `json:"records"`
	Total   int64   `json:"total"`
	Size    int     `json:"size"`
	Current int     `json:"current"`
	Pages   int     `json:"pages"`
}
