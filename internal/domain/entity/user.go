package entity

// Roles válidos en el token de sesión.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// Estados de cuenta de un vendedor.
const (
	SellerActive   = "active"
	SellerInactive = "inactive"
)

// Seller cuenta de vendedor administrada desde la consola admin.
type Seller struct {
	ID       string
	Name     string
	Email    string
	Phone    string
	ShopID   string
	ShopName string
	Status   string // active, inactive
}
