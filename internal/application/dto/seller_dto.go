package dto

// CreateSellerRequest alta de vendedor desde la consola admin.
type CreateSellerRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Phone    string `json:"phone" form:"phone"`
	ShopName string `json:"shopName" form:"shopName"`
}

// LoginRequest credenciales del formulario de ingreso.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginResponse respuesta de /api/v1/auth/login.
type LoginResponse struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	ShopID string `json:"shopId,omitempty"`
}
