// Package quotation holds the in-progress, not-yet-submitted selection of
// trucks from a single vendor. All invariants live here; the cart service
// only persists the aggregate.
package quotation

import (
	"errors"
	"time"

	"freightline-service/internal/domain/truck"
	"freightline-service/internal/pkg/currency"
)

// ErrVendorConflict signals that a truck from a different vendor was added to
// a non-empty quotation. It is a decision point, not a failure: the caller
// must ask the user to confirm the vendor switch and then retry through
// ConfirmVendorSwitch.
var ErrVendorConflict = errors.New("quotation already holds another vendor's trucks")

// LineItem is one selected truck and its quantity. Quantity never drops
// below 1; removal is a separate, explicit operation.
type LineItem struct {
	Truck    truck.Details `json:"truck"`
	Quantity int           `json:"quantity"`
}

// Quotation is the cart aggregate: line items scoped to one vendor plus the
// search the selection came from. The zero-ish state returned by New is the
// canonical empty cart.
type Quotation struct {
	VendorID   int64               `json:"vendor_id"`
	VendorName string              `json:"vendor_name"`
	Items      []LineItem          `json:"items"`
	Search     *truck.SearchParams `json:"search_params,omitempty"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func New() *Quotation {
	return &Quotation{}
}

// Empty reports whether the quotation holds no line items.
func (q *Quotation) Empty() bool {
	return len(q.Items) == 0
}

// AddVehicle adds a truck selection. An empty quotation adopts the truck's
// vendor; adding the same truck again increments its quantity instead of
// duplicating the line. Adding a different vendor's truck returns
// ErrVendorConflict and changes nothing.
func (q *Quotation) AddVehicle(t truck.Details, qty int) error {
	if qty < 1 {
		qty = 1
	}

	if q.Empty() {
		q.VendorID = t.VendorID
		q.VendorName = t.VendorName
	} else if q.VendorID != t.VendorID {
		return ErrVendorConflict
	}

	for i := range q.Items {
		if q.Items[i].Truck.TruckID == t.TruckID {
			q.Items[i].Quantity += qty
			q.UpdatedAt = time.Now()
			return nil
		}
	}

	q.Items = append(q.Items, LineItem{Truck: t, Quantity: qty})
	q.UpdatedAt = time.Now()
	return nil
}

// ConfirmVendorSwitch clears the quotation and starts over with the new
// vendor's truck. Only call after the user explicitly confirmed the switch.
func (q *Quotation) ConfirmVendorSwitch(t truck.Details, qty int) {
	q.Clear()
	_ = q.AddVehicle(t, qty) // cannot conflict on an empty quotation
}

// RemoveVehicle drops a line item. Removing the last item reverts the
// quotation to the same observable state as a fresh one.
func (q *Quotation) RemoveVehicle(truckID int64) {
	for i := range q.Items {
		if q.Items[i].Truck.TruckID == truckID {
			q.Items = append(q.Items[:i], q.Items[i+1:]...)
			break
		}
	}
	if q.Empty() {
		q.VendorID = 0
		q.VendorName = ""
	}
	q.UpdatedAt = time.Now()
}

// UpdateQuantity replaces a line item's quantity. Values below 1 are a
// strict no-op, as is an unknown truck id.
func (q *Quotation) UpdateQuantity(truckID int64, qty int) {
	if qty < 1 {
		return
	}
	for i := range q.Items {
		if q.Items[i].Truck.TruckID == truckID {
			q.Items[i].Quantity = qty
			q.UpdatedAt = time.Now()
			return
		}
	}
}

// Clear empties the quotation: line items gone, vendor unset, and the search
// association dropped (the search itself may live on elsewhere).
func (q *Quotation) Clear() {
	q.Items = nil
	q.VendorID = 0
	q.VendorName = ""
	q.Search = nil
	q.UpdatedAt = time.Now()
}

// SelectedVehicleCount counts DISTINCT line items, not summed quantities.
// Display-only; use TotalQuantity for the summed figure.
func (q *Quotation) SelectedVehicleCount() int {
	return len(q.Items)
}

// TotalQuantity sums the quantities across all line items.
func (q *Quotation) TotalQuantity() int {
	total := 0
	for _, item := range q.Items {
		total += item.Quantity
	}
	return total
}

// TotalAmount is always derived: sum of parsed unit price times quantity.
// A price string outside the currency grammar contributes zero rather than
// poisoning the whole total.
func (q *Quotation) TotalAmount() float64 {
	var total float64
	for _, item := range q.Items {
		total += currency.ParseAmount(item.Truck.TotalPrice) * float64(item.Quantity)
	}
	return total
}
