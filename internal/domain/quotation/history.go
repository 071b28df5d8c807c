package quotation

import (
	"time"

	"freightline-service/internal/domain/truck"
)

// Snapshot is a point-in-time copy of a quotation plus its search params,
// kept in a side history list. Taking a snapshot does not clear the active
// quotation.
type Snapshot struct {
	VendorID    int64               `json:"vendor_id"`
	VendorName  string              `json:"vendor_name"`
	Items       []LineItem          `json:"items"`
	Search      *truck.SearchParams `json:"search_params,omitempty"`
	TotalAmount float64             `json:"total_amount"`
	SavedAt     time.Time           `json:"saved_at"`
}

// Snapshot deep-copies the current state so later cart mutations cannot
// reach into history.
func (q *Quotation) Snapshot() Snapshot {
	items := make([]LineItem, len(q.Items))
	copy(items, q.Items)

	var search *truck.SearchParams
	if q.Search != nil {
		s := *q.Search
		search = &s
	}

	return Snapshot{
		VendorID:    q.VendorID,
		VendorName:  q.VendorName,
		Items:       items,
		Search:      search,
		TotalAmount: q.TotalAmount(),
		SavedAt:     time.Now(),
	}
}
