package cart

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"freightline-service/internal/domain/quotation"
	"freightline-service/internal/domain/truck"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

// memStore is an in-memory Store for tests. It round-trips through JSON the
// same way the Redis store does.
type memStore struct {
	carts   map[int64][]byte
	history map[int64][]quotation.Snapshot
}

func newMemStore() *memStore {
	return &memStore{
		carts:   make(map[int64][]byte),
		history: make(map[int64][]quotation.Snapshot),
	}
}

func (m *memStore) Load(_ context.Context, identityID int64) (*quotation.Quotation, error) {
	data, ok := m.carts[identityID]
	if !ok {
		return quotation.New(), nil
	}
	var q quotation.Quotation
	if err := json.Unmarshal(data, &q); err != nil {
		return quotation.New(), nil
	}
	return &q, nil
}

func (m *memStore) Save(_ context.Context, identityID int64, q *quotation.Quotation) error {
	data, err := json.Marshal(q)
	if err != nil {
		return err
	}
	m.carts[identityID] = data
	return nil
}

func (m *memStore) Delete(_ context.Context, identityID int64) error {
	delete(m.carts, identityID)
	return nil
}

func (m *memStore) AppendHistory(_ context.Context, identityID int64, snap quotation.Snapshot) error {
	m.history[identityID] = append([]quotation.Snapshot{snap}, m.history[identityID]...)
	return nil
}

func (m *memStore) History(_ context.Context, identityID int64) ([]quotation.Snapshot, error) {
	return m.history[identityID], nil
}

func newTestService() *Service {
	return NewService(newMemStore(), zap.NewNop())
}

func swiftTruck() truck.Details {
	return truck.Details{
		TruckID:           101,
		VendorID:          7,
		VendorName:        "Swift",
		Model:             "Tata 407",
		TypeName:          "mini truck",
		TotalPrice:        "₹22,500",
		EstimatedDelivery: time.Now().AddDate(0, 0, 5),
	}
}

func premiumTruck() truck.Details {
	return truck.Details{
		TruckID:           202,
		VendorID:          9,
		VendorName:        "Premium Freight Co.",
		Model:             "Ashok Leyland 1616",
		TypeName:          "container",
		TotalPrice:        "₹31,000",
		EstimatedDelivery: time.Now().AddDate(0, 0, 5),
	}
}

func TestAddVehiclePersists(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	q, err := svc.AddVehicle(ctx, 1, swiftTruck(), 2, false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), q.VendorID)
	assert.Equal(t, 2, q.TotalQuantity())

	// a fresh read comes from the store, not the returned value
	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SelectedVehicleCount())
	assert.Equal(t, "Swift", got.VendorName)
}

func TestVendorConflictLeavesStoredCartUntouched(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddVehicle(ctx, 1, swiftTruck(), 1, false)
	require.NoError(t, err)

	_, err = svc.AddVehicle(ctx, 1, premiumTruck(), 1, false)
	assert.ErrorIs(t, err, quotation.ErrVendorConflict)

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.VendorID)
	assert.Equal(t, 1, got.SelectedVehicleCount())
}

func TestConfirmedVendorSwitchReplacesCart(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddVehicle(ctx, 1, swiftTruck(), 3, false)
	require.NoError(t, err)

	q, err := svc.AddVehicle(ctx, 1, premiumTruck(), 1, true)
	require.NoError(t, err)
	assert.Equal(t, int64(9), q.VendorID)
	assert.Equal(t, 1, q.SelectedVehicleCount())
	assert.Equal(t, 1, q.TotalQuantity())
}

func TestConfirmSwitchOnMatchingVendorIsPlainAdd(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddVehicle(ctx, 1, swiftTruck(), 1, false)
	require.NoError(t, err)

	// confirm flag set but no conflict: quantities accumulate normally
	q, err := svc.AddVehicle(ctx, 1, swiftTruck(), 2, true)
	require.NoError(t, err)
	assert.Equal(t, 1, q.SelectedVehicleCount())
	assert.Equal(t, 3, q.TotalQuantity())
}

func TestUpdateQuantityInvalidValuesAreNoOps(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddVehicle(ctx, 1, swiftTruck(), 3, false)
	require.NoError(t, err)

	q, err := svc.UpdateQuantity(ctx, 1, 101, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, q.TotalQuantity())

	q, err = svc.UpdateQuantity(ctx, 1, 999, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, q.TotalQuantity())
}

func TestRemoveLastVehicleAcceptsNewVendor(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddVehicle(ctx, 1, swiftTruck(), 1, false)
	require.NoError(t, err)

	q, err := svc.RemoveVehicle(ctx, 1, 101)
	require.NoError(t, err)
	assert.True(t, q.Empty())

	q, err = svc.AddVehicle(ctx, 1, premiumTruck(), 1, false)
	require.NoError(t, err)
	assert.Equal(t, int64(9), q.VendorID)
}

func TestClearEmptiesStoredCart(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddVehicle(ctx, 1, swiftTruck(), 2, false)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, 1))

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.Empty())
	assert.Zero(t, got.VendorID)
}

func TestSaveToHistoryKeepsCartIntact(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddVehicle(ctx, 1, swiftTruck(), 2, false)
	require.NoError(t, err)

	require.NoError(t, svc.SaveToHistory(ctx, 1))

	snaps, err := svc.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, "Swift", snaps[0].VendorName)
	assert.InDelta(t, 45000.0, snaps[0].TotalAmount, 0.001)

	got, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SelectedVehicleCount())
}

func TestSaveToHistorySkipsEmptyCart(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.SaveToHistory(ctx, 1))

	snaps, err := svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestCartsAreScopedPerIdentity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.AddVehicle(ctx, 1, swiftTruck(), 1, false)
	require.NoError(t, err)
	_, err = svc.AddVehicle(ctx, 2, premiumTruck(), 1, false)
	require.NoError(t, err)

	one, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	two, err := svc.Get(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(7), one.VendorID)
	assert.Equal(t, int64(9), two.VendorID)
}
