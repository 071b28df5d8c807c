package truck

import (
	"time"

	"github.com/lib/pq"
)

// Type is a catalogue entry (mini truck, container, trailer, ...).
type Type struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description,omitempty" db:"description"`
	MaxWeightKg  float64   `json:"max_weight_kg" db:"max_weight_kg"`
	ImageURL     string    `json:"image_url,omitempty" db:"image_url"`
	DisplayOrder int       `json:"display_order" db:"display_order"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Truck is a vendor's listing.
type Truck struct {
	ID          int64          `json:"id" db:"id"`
	VendorID    int64          `json:"vendor_id" db:"vendor_id"`
	VendorName  string         `json:"vendor_name" db:"vendor_name"` // joined from identities
	Model       string         `json:"model" db:"model"`
	TypeID      int64          `json:"type_id" db:"type_id"`
	TypeName    string         `json:"type_name" db:"type_name"` // joined from truck_types
	MaxWeightKg float64        `json:"max_weight_kg" db:"max_weight_kg"`
	GPSNumber   string         `json:"gps_number" db:"gps_number"`
	Features    pq.StringArray `json:"features" db:"features"`
	IsActive    bool           `json:"is_active" db:"is_active"`
	Specs       *Specs         `json:"specs,omitempty" db:"specs"`
	Pricing     *Pricing       `json:"pricing,omitempty" db:"pricing"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// Specs is the optional dimensions sub-record.
type Specs struct {
	LengthM  float64 `json:"length_m,omitempty"`
	WidthM   float64 `json:"width_m,omitempty"`
	HeightM  float64 `json:"height_m,omitempty"`
	Axles    int     `json:"axles,omitempty"`
	FuelType string  `json:"fuel_type,omitempty"`
}

// Pricing is the optional rate card sub-record.
type Pricing struct {
	BaseFare  float64 `json:"base_fare"`
	PerKgRate float64 `json:"per_kg_rate"`
	Currency  string  `json:"currency"`
}

// Details is a search result row: the truck plus the price and delivery date
// computed for one specific search. Immutable once produced; the quotation
// cart references Details values, it does not own the trucks.
type Details struct {
	TruckID           int64     `json:"truck_id"`
	VendorID          int64     `json:"vendor_id"`
	VendorName        string    `json:"vendor_name"`
	Model             string    `json:"model"`
	TypeName          string    `json:"type_name"`
	MaxWeightKg       float64   `json:"max_weight_kg"`
	GPSNumber         string    `json:"gps_number,omitempty"`
	TotalPrice        string    `json:"total_price"` // currency formatted, e.g. "₹22,500"
	EstimatedDelivery time.Time `json:"estimated_delivery"`
	Specs             *Specs    `json:"specs,omitempty"`
	Pricing           *Pricing  `json:"pricing,omitempty"`
}
