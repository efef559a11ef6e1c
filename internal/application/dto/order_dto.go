package dto

// OrderLineInput línea enviada al crear un pedido.
type OrderLineInput struct {
	ProductID string `json:"prodId"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrderRequest cuerpo de POST /orders en el checkout.
type PlaceOrderRequest struct {
	Items         []OrderLineInput `json:"items"`
	Address       string           `json:"address"`
	Phone         string           `json:"phone"`
	PaymentMethod string           `json:"paymentMethod"`
}

// CheckoutForm datos del formulario de checkout.
type CheckoutForm struct {
	Address string `form:"address"`
	Phone   string `form:"phone"`
}
