package truck

import (
	"fmt"
	"strings"
	"time"

	xerrors "freightline-service/internal/pkg/errors"
)

// Urgency levels accepted on a search.
const (
	UrgencyStandard = "standard"
	UrgencyExpress  = "express"
	UrgencyUrgent   = "urgent"
)

// SearchParams captures one search. Immutable after the search completes; a
// new search replaces the whole value.
type SearchParams struct {
	OriginPincode string    `json:"origin_pincode"`
	DestPincode   string    `json:"dest_pincode"`
	Weight        float64   `json:"weight"`
	WeightUnit    string    `json:"weight_unit"` // kg or tonnes
	PickupDate    time.Time `json:"pickup_date"`
	DropDate      time.Time `json:"drop_date"`
	TruckType     string    `json:"truck_type,omitempty"`
	Urgency       string    `json:"urgency,omitempty"`
}

// WeightKg normalises the requested weight to kilograms.
func (p *SearchParams) WeightKg() float64 {
	if strings.EqualFold(p.WeightUnit, "tonnes") || strings.EqualFold(p.WeightUnit, "tonne") {
		return p.Weight * 1000
	}
	return p.Weight
}

// Validate checks the fields required before any storage call is made.
func (p *SearchParams) Validate() error {
	if strings.TrimSpace(p.OriginPincode) == "" {
		return fmt.Errorf("origin pincode is required: %w", xerrors.ErrInvalidInput)
	}
	if strings.TrimSpace(p.DestPincode) == "" {
		return fmt.Errorf("destination pincode is required: %w", xerrors.ErrInvalidInput)
	}
	if p.Weight <= 0 {
		return fmt.Errorf("weight must be positive: %w", xerrors.ErrInvalidInput)
	}
	return nil
}

// SearchFilters is what the repository actually filters on.
type SearchFilters struct {
	TypeName    string
	MinWeightKg float64
}

// CreateTruckRequest adds a listing to a vendor's fleet.
type CreateTruckRequest struct {
	Model       string   `json:"model" binding:"required"`
	TypeID      int64    `json:"type_id" binding:"required"`
	MaxWeightKg float64  `json:"max_weight_kg" binding:"required,gt=0"`
	GPSNumber   string   `json:"gps_number"`
	Features    []string `json:"features"`
	Specs       *Specs   `json:"specs"`
	Pricing     *Pricing `json:"pricing" binding:"required"`
}

// SearchRequest is the wire form of SearchParams. Pincode presence is
// validated in the service so the failure surfaces as a typed validation
// result, not a binding error.
type SearchRequest struct {
	OriginPincode string  `json:"origin_pincode"`
	DestPincode   string  `json:"dest_pincode"`
	Weight        float64 `json:"weight"`
	WeightUnit    string  `json:"weight_unit"`
	PickupDate    string  `json:"pickup_date"` // 2006-01-02
	DropDate      string  `json:"drop_date"`
	TruckType     string  `json:"truck_type"`
	Urgency       string  `json:"urgency"`
}

// ToParams converts the wire form, tolerating absent dates.
func (r *SearchRequest) ToParams() SearchParams {
	p := SearchParams{
		OriginPincode: strings.TrimSpace(r.OriginPincode),
		DestPincode:   strings.TrimSpace(r.DestPincode),
		Weight:        r.Weight,
		WeightUnit:    r.WeightUnit,
		TruckType:     r.TruckType,
		Urgency:       r.Urgency,
	}
	if p.Urgency == "" {
		p.Urgency = UrgencyStandard
	}
	if t, err := time.Parse("2006-01-02", r.PickupDate); err == nil {
		p.PickupDate = t
	}
	if t, err := time.Parse("2006-01-02", r.DropDate); err == nil {
		p.DropDate = t
	}
	return p
}
