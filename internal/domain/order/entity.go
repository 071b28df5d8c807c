package order

import (
	"time"

	"freightline-service/internal/domain/truck"
)

// Status of a quotation request. The only legal transitions are
// pending -> accepted and pending -> rejected; decided requests are final.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Decided reports whether the request has reached a final status.
func (s Status) Decided() bool {
	return s == StatusAccepted || s == StatusRejected
}

// RequestItem is one line of a submitted quotation, frozen at submission
// time (the live truck listing may change afterwards).
type RequestItem struct {
	TruckID    int64  `json:"truck_id"`
	Model      string `json:"model"`
	TypeName   string `json:"type_name"`
	VendorName string `json:"vendor_name"`
	UnitPrice  string `json:"unit_price"` // currency formatted, as displayed
	Quantity   int    `json:"quantity"`
}

// QuotationRequest is the persisted record created when a quotation is
// submitted. Authoritative status lives here; clients re-fetch after
// mutations instead of patching their copy.
type QuotationRequest struct {
	ID            int64               `json:"id" db:"id"`
	Reference     string              `json:"reference" db:"reference"`
	CustomerID    int64               `json:"customer_id" db:"customer_id"`
	VendorID      int64               `json:"vendor_id" db:"vendor_id"`
	VendorName    string              `json:"vendor_name" db:"vendor_name"`
	Items         []RequestItem       `json:"items" db:"items"`
	TotalAmount   float64             `json:"total_amount" db:"total_amount"`
	Search        *truck.SearchParams `json:"search_params,omitempty" db:"search_params"`
	OriginPincode string              `json:"origin_pincode" db:"origin_pincode"`
	DestPincode   string              `json:"dest_pincode" db:"dest_pincode"`
	Status        Status              `json:"status" db:"status"`
	DecidedBy     *int64              `json:"decided_by,omitempty" db:"decided_by"`
	DecidedAt     *time.Time          `json:"decided_at,omitempty" db:"decided_at"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`
}
