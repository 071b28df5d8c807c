package order

import (
	"time"

	"freightline-service/internal/pkg/currency"
)

// GST rate applied to freight invoices.
const gstRate = 0.18

// InvoiceLine is one priced row of the invoice projection.
type InvoiceLine struct {
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

// Invoice is a read-only billing projection of an accepted quotation
// request. It is derived on demand and never stored.
type Invoice struct {
	Reference   string        `json:"reference"`
	IssuedTo    string        `json:"issued_to"`
	VendorName  string        `json:"vendor_name"`
	Route       string        `json:"route"`
	Lines       []InvoiceLine `json:"lines"`
	Subtotal    string        `json:"subtotal"`
	GST         string        `json:"gst"`
	Total       string        `json:"total"`
	Status      Status        `json:"status"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// BuildInvoice renders the billing view of a request. Line amounts are
// re-derived through the currency parser, so a malformed stored price shows
// as zero instead of corrupting the totals.
func BuildInvoice(req *QuotationRequest, customerName string) *Invoice {
	inv := &Invoice{
		Reference:   req.Reference,
		IssuedTo:    customerName,
		VendorName:  req.VendorName,
		Route:       req.OriginPincode + " → " + req.DestPincode,
		Status:      req.Status,
		GeneratedAt: time.Now(),
	}

	var subtotal float64
	for _, item := range req.Items {
		amount := currency.ParseAmount(item.UnitPrice) * float64(item.Quantity)
		subtotal += amount
		inv.Lines = append(inv.Lines, InvoiceLine{
			Description: item.Model + " (" + item.TypeName + ")",
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   currency.FormatAmount(amount),
		})
	}

	gst := subtotal * gstRate
	inv.Subtotal = currency.FormatAmount(subtotal)
	inv.GST = currency.FormatAmount(gst)
	inv.Total = currency.FormatAmount(subtotal + gst)
	return inv
}
