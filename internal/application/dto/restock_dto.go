package dto

// CreateRestockRequest solicitud de reposición enviada por un vendedor.
type CreateRestockRequest struct {
	ProductID string `json:"prodId" form:"prodId"`
	Quantity  int    `json:"quantity" form:"quantity"`
	Note      string `json:"note" form:"note"`
}
