package quotation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freightline-service/internal/domain/truck"
)

func swiftTruck() truck.Details {
	return truck.Details{
		TruckID:           101,
		VendorID:          7,
		VendorName:        "Swift",
		Model:             "Tata LPT 1613",
		TypeName:          "container",
		MaxWeightKg:       10000,
		TotalPrice:        "₹22,500",
		EstimatedDelivery: time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
	}
}

func premiumTruck() truck.Details {
	return truck.Details{
		TruckID:    202,
		VendorID:   9,
		VendorName: "Premium Freight Co.",
		Model:      "Ashok Leyland 2518",
		TypeName:   "container",
		TotalPrice: "₹31,000",
	}
}

func TestAddVehicleInitialisesVendor(t *testing.T) {
	q := New()
	require.NoError(t, q.AddVehicle(swiftTruck(), 1))

	assert.Equal(t, int64(7), q.VendorID)
	assert.Equal(t, "Swift", q.VendorName)
	assert.Equal(t, 1, q.SelectedVehicleCount())
	assert.Equal(t, 22500.0, q.TotalAmount())
}

func TestAddSameTruckIncrementsQuantity(t *testing.T) {
	q := New()
	require.NoError(t, q.AddVehicle(swiftTruck(), 1))
	require.NoError(t, q.AddVehicle(swiftTruck(), 2))

	assert.Equal(t, 1, q.SelectedVehicleCount(), "same truck must not duplicate the line item")
	assert.Equal(t, 3, q.TotalQuantity())
	assert.Equal(t, 67500.0, q.TotalAmount())
}

func TestVendorConflictNeverMixesVendors(t *testing.T) {
	q := New()
	require.NoError(t, q.AddVehicle(swiftTruck(), 1))

	err := q.AddVehicle(premiumTruck(), 1)
	require.ErrorIs(t, err, ErrVendorConflict)

	// nothing changed
	assert.Equal(t, int64(7), q.VendorID)
	assert.Equal(t, 1, q.SelectedVehicleCount())
	assert.Equal(t, 22500.0, q.TotalAmount())
}

func TestConfirmVendorSwitchReplacesCart(t *testing.T) {
	q := New()
	require.NoError(t, q.AddVehicle(swiftTruck(), 1))

	q.ConfirmVendorSwitch(premiumTruck(), 1)

	assert.Equal(t, int64(9), q.VendorID)
	assert.Equal(t, "Premium Freight Co.", q.VendorName)
	assert.Equal(t, 1, q.SelectedVehicleCount())
	assert.Equal(t, 31000.0, q.TotalAmount())
}

func TestUpdateQuantityBelowOneIsNoOp(t *testing.T) {
	q := New()
	require.NoError(t, q.AddVehicle(swiftTruck(), 1))

	q.UpdateQuantity(101, 3)
	assert.Equal(t, 67500.0, q.TotalAmount())

	q.UpdateQuantity(101, 0)
	assert.Equal(t, 67500.0, q.TotalAmount(), "quantity 0 must not change the line")

	q.UpdateQuantity(101, -1)
	assert.Equal(t, 67500.0, q.TotalAmount(), "negative quantity must not change the line")
}

func TestUpdateQuantityUnknownTruckIsNoOp(t *testing.T) {
	q := New()
	require.NoError(t, q.AddVehicle(swiftTruck(), 2))

	q.UpdateQuantity(999, 5)
	assert.Equal(t, 2, q.TotalQuantity())
}

func TestRemoveLastItemRevertsToFreshState(t *testing.T) {
	fresh := New()

	q := New()
	require.NoError(t, q.AddVehicle(swiftTruck(), 2))
	q.RemoveVehicle(101)

	assert.True(t, q.Empty())
	assert.Equal(t, fresh.VendorID, q.VendorID)
	assert.Equal(t, fresh.VendorName, q.VendorName)
	assert.Equal(t, 0, q.SelectedVehicleCount())
	assert.Equal(t, 0.0, q.TotalAmount())

	// an emptied cart accepts any vendor again
	require.NoError(t, q.AddVehicle(premiumTruck(), 1))
	assert.Equal(t, int64(9), q.VendorID)
}

func TestClearUnsetsVendorAndSearch(t *testing.T) {
	q := New()
	q.Search = &truck.SearchParams{OriginPincode: "110001", DestPincode: "400001"}
	require.NoError(t, q.AddVehicle(swiftTruck(), 1))

	q.Clear()

	assert.True(t, q.Empty())
	assert.Nil(t, q.Search)
	assert.Zero(t, q.VendorID)
}

func TestTotalAmountFailsClosedOnBadPrice(t *testing.T) {
	bad := swiftTruck()
	bad.TruckID = 103
	bad.TotalPrice = "price on request"

	q := New()
	require.NoError(t, q.AddVehicle(swiftTruck(), 1))
	require.NoError(t, q.AddVehicle(bad, 4))

	assert.Equal(t, 22500.0, q.TotalAmount(), "unparsable price counts as zero")
}

func TestTotalInvariantUnderMutationSequences(t *testing.T) {
	second := swiftTruck()
	second.TruckID = 102
	second.TotalPrice = "₹10,000"

	q := New()
	require.NoError(t, q.AddVehicle(swiftTruck(), 1))
	require.NoError(t, q.AddVehicle(second, 2))
	q.UpdateQuantity(101, 2)
	q.RemoveVehicle(102)
	require.NoError(t, q.AddVehicle(second, 1))
	q.UpdateQuantity(102, 0) // no-op

	// recompute expectation directly from current lines
	var want float64
	for _, item := range q.Items {
		switch item.Truck.TruckID {
		case 101:
			want += 22500 * float64(item.Quantity)
		case 102:
			want += 10000 * float64(item.Quantity)
		}
	}
	assert.Equal(t, want, q.TotalAmount())
	assert.Equal(t, 55000.0, q.TotalAmount())
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	q := New()
	q.Search = &truck.SearchParams{OriginPincode: "110001", DestPincode: "400001"}
	require.NoError(t, q.AddVehicle(swiftTruck(), 1))

	snap := q.Snapshot()
	assert.Equal(t, 22500.0, snap.TotalAmount)

	// mutating the live cart must not reach into the snapshot
	q.UpdateQuantity(101, 5)
	q.Search.OriginPincode = "560001"

	assert.Equal(t, 1, snap.Items[0].Quantity)
	assert.Equal(t, "110001", snap.Search.OriginPincode)

	// and the live cart is untouched by snapshotting
	assert.Equal(t, 5, q.Items[0].Quantity)
}
