package search

import (
	"context"
	"testing"
	"time"

	"freightline-service/internal/domain/truck"
	xerrors "freightline-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

// memSearchStore is an in-memory Store with the same publish semantics as
// the Redis one: a result loses when a newer sequence has been allocated.
type memSearchStore struct {
	seqs    map[int64]int64
	results map[int64]*Result
}

func newMemSearchStore() *memSearchStore {
	return &memSearchStore{
		seqs:    make(map[int64]int64),
		results: make(map[int64]*Result),
	}
}

func (m *memSearchStore) NextSeq(_ context.Context, identityID int64) (int64, error) {
	m.seqs[identityID]++
	return m.seqs[identityID], nil
}

func (m *memSearchStore) PublishResult(_ context.Context, identityID int64, result *Result) (bool, error) {
	if m.seqs[identityID] > result.Seq {
		return false, nil
	}
	m.results[identityID] = result
	return true, nil
}

func (m *memSearchStore) LoadResult(_ context.Context, identityID int64) (*Result, error) {
	return m.results[identityID], nil
}

// stubTruckRepo serves canned search rows; onSearch runs mid-search so tests
// can interleave a competing search.
type stubTruckRepo struct {
	trucks   []truck.Truck
	onSearch func()
}

func (r *stubTruckRepo) Search(_ context.Context, _ *truck.SearchFilters) ([]truck.Truck, error) {
	if r.onSearch != nil {
		r.onSearch()
	}
	return r.trucks, nil
}

func (r *stubTruckRepo) Create(context.Context, *truck.Truck) error { return nil }
func (r *stubTruckRepo) FindByID(context.Context, int64) (*truck.Truck, error) {
	return nil, xerrors.ErrNotFound
}
func (r *stubTruckRepo) ListByVendor(context.Context, int64) ([]truck.Truck, error) {
	return nil, nil
}
func (r *stubTruckRepo) SetActive(context.Context, int64, int64, bool) error { return nil }
func (r *stubTruckRepo) ListTypes(context.Context) ([]truck.Type, error)     { return nil, nil }
func (r *stubTruckRepo) FindTypeByID(context.Context, int64) (*truck.Type, error) {
	return nil, xerrors.ErrNotFound
}

func validParams() *truck.SearchParams {
	return &truck.SearchParams{
		OriginPincode: "400001",
		DestPincode:   "560001",
		Weight:        1,
		WeightUnit:    "tonnes",
	}
}

func listing() *truck.Truck {
	return &truck.Truck{
		ID:          101,
		VendorID:    7,
		VendorName:  "Swift",
		Model:       "Tata 407",
		TypeName:    "mini truck",
		MaxWeightKg: 2500,
		Pricing: &truck.Pricing{
			BaseFare:  5000,
			PerKgRate: 10,
			Currency:  "INR",
		},
	}
}

func TestBuildDetailsStandardPricing(t *testing.T) {
	params := &truck.SearchParams{
		OriginPincode: "400001",
		DestPincode:   "560001",
		Weight:        1,
		WeightUnit:    "tonnes",
		PickupDate:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Urgency:       truck.UrgencyStandard,
	}

	d := buildDetails(listing(), params)

	// 5000 + 10*1000 at the standard multiplier
	assert.Equal(t, "₹15,000", d.TotalPrice)
	assert.Equal(t, int64(101), d.TruckID)
	assert.Equal(t, "Swift", d.VendorName)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), d.EstimatedDelivery)
}

func TestBuildDetailsUrgencyRaisesPriceAndShortensTransit(t *testing.T) {
	pickup := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		urgency   string
		wantPrice string
		wantDays  int
	}{
		{truck.UrgencyStandard, "₹15,000", 5},
		{truck.UrgencyExpress, "₹18,750", 3},
		{truck.UrgencyUrgent, "₹22,500", 1},
	}

	for _, tc := range cases {
		t.Run(tc.urgency, func(t *testing.T) {
			params := &truck.SearchParams{
				OriginPincode: "400001",
				DestPincode:   "560001",
				Weight:        1000,
				WeightUnit:    "kg",
				PickupDate:    pickup,
				Urgency:       tc.urgency,
			}

			d := buildDetails(listing(), params)
			assert.Equal(t, tc.wantPrice, d.TotalPrice)
			assert.Equal(t, pickup.AddDate(0, 0, tc.wantDays), d.EstimatedDelivery)
		})
	}
}

func TestBuildDetailsWithoutPricingIsZero(t *testing.T) {
	l := listing()
	l.Pricing = nil

	d := buildDetails(l, &truck.SearchParams{
		OriginPincode: "400001",
		DestPincode:   "560001",
		Weight:        500,
		WeightUnit:    "kg",
	})
	assert.Equal(t, "₹0", d.TotalPrice)
}

func TestBuildDetailsDefaultsPickupToNow(t *testing.T) {
	d := buildDetails(listing(), &truck.SearchParams{
		OriginPincode: "400001",
		DestPincode:   "560001",
		Weight:        500,
		WeightUnit:    "kg",
	})
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 5), d.EstimatedDelivery, time.Minute)
}

func TestSearchParamsValidation(t *testing.T) {
	cases := []struct {
		name    string
		params  truck.SearchParams
		wantErr bool
	}{
		{"valid", truck.SearchParams{OriginPincode: "400001", DestPincode: "560001", Weight: 2}, false},
		{"missing origin", truck.SearchParams{DestPincode: "560001", Weight: 2}, true},
		{"missing destination", truck.SearchParams{OriginPincode: "400001", Weight: 2}, true},
		{"blank origin", truck.SearchParams{OriginPincode: "   ", DestPincode: "560001", Weight: 2}, true},
		{"zero weight", truck.SearchParams{OriginPincode: "400001", DestPincode: "560001"}, true},
		{"negative weight", truck.SearchParams{OriginPincode: "400001", DestPincode: "560001", Weight: -1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.params.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLatestResultsNilBeforeAnySearch(t *testing.T) {
	svc := NewService(&stubTruckRepo{}, newMemSearchStore(), zap.NewNop())
	ctx := context.Background()

	result, err := svc.LatestResults(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, result)

	_, err = svc.FindResult(ctx, 1, 101)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestZeroResultsIsDistinctFromNoSearch(t *testing.T) {
	svc := NewService(&stubTruckRepo{}, newMemSearchStore(), zap.NewNop())
	ctx := context.Background()

	result, err := svc.Search(ctx, 1, validParams())
	require.NoError(t, err)
	assert.Empty(t, result.Trucks)

	// the empty search is recorded, not absent
	latest, err := svc.LatestResults(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Empty(t, latest.Trucks)
	assert.Equal(t, int64(1), latest.Seq)
}

func TestSupersededSearchIsDiscarded(t *testing.T) {
	store := newMemSearchStore()
	repo := &stubTruckRepo{trucks: []truck.Truck{*listing()}}
	svc := NewService(repo, store, zap.NewNop())
	ctx := context.Background()

	first, err := svc.Search(ctx, 1, validParams())
	require.NoError(t, err)
	require.Len(t, first.Trucks, 1)

	// while the second search runs its storage query, a third one is issued
	repo.onSearch = func() {
		_, _ = store.NextSeq(ctx, 1)
	}

	_, err = svc.Search(ctx, 1, validParams())
	assert.ErrorIs(t, err, xerrors.ErrSearchSuperseded)

	// the discarded search did not replace the published view
	latest, err := svc.LatestResults(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, first.Seq, latest.Seq)
}

func TestFindResultOnlyServesPublishedTrucks(t *testing.T) {
	repo := &stubTruckRepo{trucks: []truck.Truck{*listing()}}
	svc := NewService(repo, newMemSearchStore(), zap.NewNop())
	ctx := context.Background()

	_, err := svc.Search(ctx, 1, validParams())
	require.NoError(t, err)

	found, err := svc.FindResult(ctx, 1, 101)
	require.NoError(t, err)
	assert.Equal(t, "Swift", found.VendorName)

	_, err = svc.FindResult(ctx, 1, 999)
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestWeightNormalisation(t *testing.T) {
	p := truck.SearchParams{Weight: 2.5, WeightUnit: "tonnes"}
	assert.InDelta(t, 2500.0, p.WeightKg(), 0.001)

	p = truck.SearchParams{Weight: 750, WeightUnit: "kg"}
	assert.InDelta(t, 750.0, p.WeightKg(), 0.001)

	p = truck.SearchParams{Weight: 1, WeightUnit: "Tonne"}
	assert.InDelta(t, 1000.0, p.WeightKg(), 0.001)
}
