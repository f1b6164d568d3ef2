package domain

// Shop is a merchant storefront.
type Shop struct {
	ID      int64  `json:"id"`
	AdminID int64  `json:"adminId,omitempty"`
	Name    string `json:"name"`
	Address string `json:"address"`
	LogoURL string `json:"logoUrl,omitempty"`
	Status  int    `json:"status"`
}

// Product is a sellable item.
type Product struct {
	ID           int64   `json:"id"`
	ShopID       int64   `json:"shopId"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	MainImageURL string  `json:"mainImageUrl,omitempty"`
	Status       int     `json:"status"` // 1 on sale, 0 delisted
	CreateTime   string  `json:"createTime,omitempty"`
}

// ProductPage is a paginated product listing.
type ProductPage struct {
	Records []Product `json:"records"`
	Total   int64     `json:"total"`
	Size    int       `json:"size"`
	Current int       `json:"current"`
	Pages   int       `json:"pages"`
}

// CartItem is one entry of the shopper's cart.
type CartItem struct {
	ID           int64   `json:"id"`
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductImage string  `json:"productImage"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	Valid        bool    `json:"valid"`
}
