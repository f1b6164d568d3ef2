package guard

import "github.com/minimall/storefront-client/internal/core/domain"

// Routes returns the application route table: the storefront views gated to
// shoppers, the product page open to everyone, and the role-split back
// office under /admin.
func Routes() []Route {
	return []Route{
		{Pattern: "/login", Title: "Login"},

		// storefront (role 3: shopper)
		{Pattern: "/home", Title: "Home", Role: domain.RoleUser},
		{Pattern: "/cart", Title: "Cart", Role: domain.RoleUser},
		{Pattern: "/product/:id", Title: "Product Detail"},
		{Pattern: "/order/confirm", Title: "Confirm Order", Role: domain.RoleUser},
		{Pattern: "/order/list", Title: "My Orders", Role: domain.RoleUser},

		// back office (roles 1 and 2)
		{Pattern: "/admin/user", Title: "User Management", RequiresAuth: true, Role: domain.RoleAdmin},
		{Pattern: "/admin/shop", Title: "My Shop", RequiresAuth: true, Role: domain.RoleManager},
		{Pattern: "/admin/product", Title: "Product Management", RequiresAuth: true, Role: domain.RoleManager},
	}
}
