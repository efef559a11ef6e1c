package entity

import "time"

// Estados de una solicitud de reposición.
const (
	RestockPending  = "pending"
	RestockApproved = "approved"
	RestockRejected = "rejected"
)

// RestockStatuses en el orden en que se muestran los filtros.
var RestockStatuses = []string{RestockPending, RestockApproved, RestockRejected}

// RestockRequest solicitud de reposición enviada por un vendedor y resuelta por el admin.
type RestockRequest struct {
	ID          string
	ProductID   string
	ProductName string
	ShopID      string
	ShopName    string
	Quantity    int
	Status      string
	Note        string
	CreatedAt   time.Time
}
