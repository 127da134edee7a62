package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

func testItems(t *testing.T) []LineItem {
	t.Helper()
	burger, err := NewLineItem(kernel.NewUUID(), "Burger", kernel.Money(5990), 2)
	require.NoError(t, err)
	fries, err := NewLineItem(kernel.NewUUID(), "Fries", kernel.Money(2490), 1)
	require.NoError(t, err)
	return []LineItem{burger, fries}
}

func testRoute(t *testing.T) (*kernel.GeoPoint, *kernel.GeoPoint) {
	t.Helper()
	store, err := kernel.NewGeoPoint(-33.4378, -70.6504)
	require.NoError(t, err)
	home, err := kernel.NewGeoPoint(-33.4569, -70.6483)
	require.NoError(t, err)
	return &store, &home
}

func testDeliveryOrder(t *testing.T) *Order {
	t.Helper()
	merchantID := kernel.NewUUID()
	addressID := kernel.NewUUID()
	distance := 3.4
	store, home := testRoute(t)
	o, err := NewOrder(
		kernel.NewUUID(),
		kernel.NewOrderCode(),
		kernel.NewUUID(),
		&merchantID,
		&addressID,
		false,
		store,
		home,
		testItems(t),
		kernel.Money(1500),
		kernel.Money(0),
		&distance,
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return o
}

func actor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func courierActor(t *testing.T, id kernel.UUID) kernel.Actor {
	t.Helper()
	a, err := kernel.NewActor(id, kernel.RoleCourier)
	require.NoError(t, err)
	return a
}

// advanceToReady drives a fresh order through the merchant steps.
func advanceToReady(t *testing.T, o *Order) {
	t.Helper()
	merchant := actor(t, kernel.RoleMerchant)
	for _, target := range []Status{Confirmed, Preparing, Ready} {
		changed, err := o.TransitionTo(target, merchant, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, changed)
	}
}

func TestNewOrder(t *testing.T) {
	o := testDeliveryOrder(t)

	assert.NoError(t, o.Validate())
	assert.Equal(t, Pending, o.Status())
	assert.Equal(t, PaymentPending, o.PaymentStatus())
	assert.Nil(t, o.CourierID())
	assert.Nil(t, o.PendingCourierID())
	assert.False(t, o.StockRestored())

	// 2x5990 + 1x2490
	assert.Equal(t, kernel.Money(14470), o.Subtotal())
	assert.Equal(t, kernel.Money(15970), o.Total())
}

func TestNewOrder_PickupSkipsDeliveryFields(t *testing.T) {
	merchantID := kernel.NewUUID()
	store, _ := testRoute(t)
	o, err := NewOrder(
		kernel.NewUUID(),
		kernel.NewOrderCode(),
		kernel.NewUUID(),
		&merchantID,
		nil,
		true,
		store,
		nil,
		testItems(t),
		kernel.Money(0),
		kernel.Money(0),
		nil,
		time.Now().UTC(),
	)
	require.NoError(t, err)
	assert.True(t, o.IsPickup())
	assert.Nil(t, o.DeliveryAddressID())
	assert.Nil(t, o.DropoffPoint())
	assert.Nil(t, o.DistanceKm())
}

func TestNewOrder_ValidationFailures(t *testing.T) {
	merchantID := kernel.NewUUID()
	addressID := kernel.NewUUID()
	distance := 3.4
	now := time.Now().UTC()
	store, home := testRoute(t)

	t.Run("no items", func(t *testing.T) {
		_, err := NewOrder(kernel.NewUUID(), kernel.NewOrderCode(), kernel.NewUUID(),
			&merchantID, &addressID, false, store, home, nil, kernel.Money(1500), kernel.Money(0), &distance, now)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("delivery without address", func(t *testing.T) {
		_, err := NewOrder(kernel.NewUUID(), kernel.NewOrderCode(), kernel.NewUUID(),
			&merchantID, nil, false, store, home, testItems(t), kernel.Money(1500), kernel.Money(0), &distance, now)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("delivery without merchant", func(t *testing.T) {
		_, err := NewOrder(kernel.NewUUID(), kernel.NewOrderCode(), kernel.NewUUID(),
			nil, &addressID, false, store, home, testItems(t), kernel.Money(1500), kernel.Money(0), &distance, now)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("delivery without route", func(t *testing.T) {
		_, err := NewOrder(kernel.NewUUID(), kernel.NewOrderCode(), kernel.NewUUID(),
			&merchantID, &addressID, false, nil, nil, testItems(t), kernel.Money(1500), kernel.Money(0), &distance, now)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("negative fee", func(t *testing.T) {
		_, err := NewOrder(kernel.NewUUID(), kernel.NewOrderCode(), kernel.NewUUID(),
			&merchantID, &addressID, false, store, home, testItems(t), kernel.Money(-1), kernel.Money(0), &distance, now)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("discount larger than total", func(t *testing.T) {
		_, err := NewOrder(kernel.NewUUID(), kernel.NewOrderCode(), kernel.NewUUID(),
			&merchantID, &addressID, false, store, home, testItems(t), kernel.Money(0), kernel.Money(999999), &distance, now)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero id", func(t *testing.T) {
		_, err := NewOrder(kernel.UUID{}, kernel.NewOrderCode(), kernel.NewUUID(),
			&merchantID, &addressID, false, store, home, testItems(t), kernel.Money(1500), kernel.Money(0), &distance, now)
		assert.Error(t, err)
	})
}

func TestOrder_Validate_ZeroValue(t *testing.T) {
	var o Order
	assert.Error(t, o.Validate())

	var nilOrder *Order
	assert.ErrorIs(t, nilOrder.Validate(), ErrOrderIsNotConstructed)
}

func TestOrder_TransitionTo_MerchantFlow(t *testing.T) {
	o := testDeliveryOrder(t)
	merchant := actor(t, kernel.RoleMerchant)
	now := time.Now().UTC()

	changed, err := o.TransitionTo(Confirmed, merchant, now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, Confirmed, o.Status())

	changed, err = o.TransitionTo(Preparing, merchant, now)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = o.TransitionTo(Ready, merchant, now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, Ready, o.Status())
}

func TestOrder_TransitionTo_SameStatusIsNoOp(t *testing.T) {
	o := testDeliveryOrder(t)

	changed, err := o.TransitionTo(Pending, actor(t, kernel.RoleAdmin), time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestOrder_TransitionTo_CourierMustBeAssigned(t *testing.T) {
	o := testDeliveryOrder(t)
	advanceToReady(t, o)

	courierID := kernel.NewUUID()
	require.NoError(t, o.AcceptOffer(courierID, time.Now().UTC()))

	t.Run("stranger courier is rejected", func(t *testing.T) {
		_, err := o.TransitionTo(DriverArrived, courierActor(t, kernel.NewUUID()), time.Now().UTC())
		assert.ErrorIs(t, err, errs.ErrNotAuthorized)
	})

	t.Run("assigned courier advances", func(t *testing.T) {
		now := time.Now().UTC()
		for _, target := range []Status{DriverArrived, PickedUp, InDelivery, Delivered} {
			changed, err := o.TransitionTo(target, courierActor(t, courierID), now)
			require.NoError(t, err)
			assert.True(t, changed)
		}
		assert.Equal(t, Delivered, o.Status())
		require.NotNil(t, o.DeliveredAt())
		assert.Equal(t, now, *o.DeliveredAt())
		// courier reference survives delivery for the record
		assert.NotNil(t, o.CourierID())
	})
}

func TestOrder_TransitionTo_CancelReleasesAssignment(t *testing.T) {
	o := testDeliveryOrder(t)
	advanceToReady(t, o)
	require.NoError(t, o.AcceptOffer(kernel.NewUUID(), time.Now().UTC()))

	changed, err := o.TransitionTo(Cancelled, actor(t, kernel.RoleAdmin), time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Nil(t, o.CourierID())
	assert.Nil(t, o.PendingCourierID())
}

func TestOrder_TransitionTo_CancelTwiceIsIdempotent(t *testing.T) {
	o := testDeliveryOrder(t)
	admin := actor(t, kernel.RoleAdmin)

	changed, err := o.TransitionTo(Cancelled, admin, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = o.TransitionTo(Cancelled, admin, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, Cancelled, o.Status())
}

func TestOrder_TransitionTo_TerminalIsFrozen(t *testing.T) {
	o := testDeliveryOrder(t)
	admin := actor(t, kernel.RoleAdmin)

	_, err := o.TransitionTo(Cancelled, admin, time.Now().UTC())
	require.NoError(t, err)

	_, err = o.TransitionTo(Confirmed, admin, time.Now().UTC())
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestOrder_OfferLifecycle(t *testing.T) {
	o := testDeliveryOrder(t)
	advanceToReady(t, o)

	courierID := kernel.NewUUID()
	now := time.Now().UTC()
	expiresAt := now.Add(30 * time.Second)

	require.NoError(t, o.OfferTo(courierID, expiresAt, now))
	assert.True(t, o.HasLiveOffer(now))
	require.NotNil(t, o.PendingCourierID())
	assert.True(t, o.PendingCourierID().IsEqual(courierID))

	t.Run("second offer while live conflicts", func(t *testing.T) {
		err := o.OfferTo(kernel.NewUUID(), expiresAt, now)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("holder accepts", func(t *testing.T) {
		require.NoError(t, o.AcceptOffer(courierID, now.Add(5*time.Second)))
		assert.Equal(t, DriverAssigned, o.Status())
		require.NotNil(t, o.CourierID())
		assert.True(t, o.CourierID().IsEqual(courierID))
		assert.Nil(t, o.PendingCourierID())
		assert.Nil(t, o.OfferExpiresAt())
	})

	t.Run("offer on assigned order conflicts", func(t *testing.T) {
		err := o.OfferTo(kernel.NewUUID(), expiresAt, now)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestOrder_AcceptOffer_NonHolderIsRejectedWhileLive(t *testing.T) {
	o := testDeliveryOrder(t)
	advanceToReady(t, o)

	holder := kernel.NewUUID()
	now := time.Now().UTC()
	require.NoError(t, o.OfferTo(holder, now.Add(30*time.Second), now))

	err := o.AcceptOffer(kernel.NewUUID(), now.Add(time.Second))
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Nil(t, o.CourierID())
}

func TestOrder_AcceptOffer_ExpiredHolderLosesExclusivity(t *testing.T) {
	o := testDeliveryOrder(t)
	advanceToReady(t, o)

	holder := kernel.NewUUID()
	now := time.Now().UTC()
	require.NoError(t, o.OfferTo(holder, now.Add(30*time.Second), now))

	late := now.Add(time.Minute)

	t.Run("former holder gets a conflict", func(t *testing.T) {
		err := o.AcceptOffer(holder, late)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("anyone else may volunteer", func(t *testing.T) {
		volunteer := kernel.NewUUID()
		require.NoError(t, o.AcceptOffer(volunteer, late))
		assert.Equal(t, DriverAssigned, o.Status())
		assert.True(t, o.CourierID().IsEqual(volunteer))
	})
}

func TestOrder_AcceptOffer_OpenPoolFirstWins(t *testing.T) {
	o := testDeliveryOrder(t)
	advanceToReady(t, o)

	first := kernel.NewUUID()
	now := time.Now().UTC()
	require.NoError(t, o.AcceptOffer(first, now))

	err := o.AcceptOffer(kernel.NewUUID(), now)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.True(t, o.CourierID().IsEqual(first))
}

func TestOrder_DeclineOffer(t *testing.T) {
	o := testDeliveryOrder(t)
	advanceToReady(t, o)

	holder := kernel.NewUUID()
	now := time.Now().UTC()
	require.NoError(t, o.OfferTo(holder, now.Add(30*time.Second), now))

	t.Run("non-holder cannot decline", func(t *testing.T) {
		err := o.DeclineOffer(kernel.NewUUID(), now)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("holder declines and is remembered", func(t *testing.T) {
		require.NoError(t, o.DeclineOffer(holder, now))
		assert.Nil(t, o.PendingCourierID())
		require.Len(t, o.DeclinedCouriers(), 1)
		assert.True(t, o.DeclinedCouriers()[0].IsEqual(holder))
	})

	t.Run("decliner cannot be offered again", func(t *testing.T) {
		err := o.OfferTo(holder, now.Add(time.Minute), now)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("clear declines reopens the pool", func(t *testing.T) {
		o.ClearDeclines(now)
		assert.Empty(t, o.DeclinedCouriers())
		assert.NoError(t, o.OfferTo(holder, now.Add(time.Minute), now))
	})
}

func TestOrder_ExpireOffer(t *testing.T) {
	o := testDeliveryOrder(t)
	advanceToReady(t, o)

	holder := kernel.NewUUID()
	now := time.Now().UTC()
	require.NoError(t, o.OfferTo(holder, now.Add(30*time.Second), now))

	assert.False(t, o.ExpireOffer(now.Add(10*time.Second)))
	assert.NotNil(t, o.PendingCourierID())

	assert.True(t, o.ExpireOffer(now.Add(31*time.Second)))
	assert.Nil(t, o.PendingCourierID())
	assert.Nil(t, o.OfferExpiresAt())
	assert.Contains(t, o.DeclinedCouriers(), holder,
		"a silent holder is skipped on the next ranking pass")

	assert.False(t, o.ExpireOffer(now.Add(time.Minute)))
}

func TestOrder_MarkStockRestored_Once(t *testing.T) {
	o := testDeliveryOrder(t)
	now := time.Now().UTC()

	assert.True(t, o.MarkStockRestored(now))
	assert.False(t, o.MarkStockRestored(now))
	assert.True(t, o.StockRestored())
}

func TestOrder_SetPaymentStatus(t *testing.T) {
	o := testDeliveryOrder(t)
	now := time.Now().UTC()

	require.NoError(t, o.SetPaymentStatus(PaymentPaid, now))
	assert.Equal(t, PaymentPaid, o.PaymentStatus())

	_, err := o.TransitionTo(Cancelled, actor(t, kernel.RoleAdmin), now)
	require.NoError(t, err)

	t.Run("refund is allowed after cancel", func(t *testing.T) {
		require.NoError(t, o.SetPaymentStatus(PaymentRefunded, now))
	})

	t.Run("other payment changes are frozen", func(t *testing.T) {
		err := o.SetPaymentStatus(PaymentPaid, now)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestRestoreOrder(t *testing.T) {
	src := testDeliveryOrder(t)
	advanceToReady(t, src)
	courierID := kernel.NewUUID()
	expiresAt := time.Now().UTC().Add(30 * time.Second)

	t.Run("round trip", func(t *testing.T) {
		restored, err := RestoreOrder(
			src.ID(), src.Code(), src.CustomerID(), src.MerchantID(), src.DeliveryAddressID(),
			src.IsPickup(), src.PickupPoint(), src.DropoffPoint(), src.Items(), src.Status(), src.PaymentStatus(),
			nil, &courierID, &expiresAt, nil,
			src.DeliveryFee(), src.Discount(), src.DistanceKm(), false,
			src.CreatedAt(), src.UpdatedAt(), nil,
		)
		require.NoError(t, err)
		assert.NoError(t, restored.Validate())
		assert.True(t, restored.IsEqual(src))
		assert.Equal(t, src.Total(), restored.Total())
		require.NotNil(t, restored.PendingCourierID())
	})

	t.Run("offer without expiry is rejected", func(t *testing.T) {
		_, err := RestoreOrder(
			src.ID(), src.Code(), src.CustomerID(), src.MerchantID(), src.DeliveryAddressID(),
			src.IsPickup(), src.PickupPoint(), src.DropoffPoint(), src.Items(), src.Status(), src.PaymentStatus(),
			nil, &courierID, nil, nil,
			src.DeliveryFee(), src.Discount(), src.DistanceKm(), false,
			src.CreatedAt(), src.UpdatedAt(), nil,
		)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("courier in pre-assignment status is rejected", func(t *testing.T) {
		_, err := RestoreOrder(
			src.ID(), src.Code(), src.CustomerID(), src.MerchantID(), src.DeliveryAddressID(),
			src.IsPickup(), src.PickupPoint(), src.DropoffPoint(), src.Items(), Pending, src.PaymentStatus(),
			&courierID, nil, nil, nil,
			src.DeliveryFee(), src.Discount(), src.DistanceKm(), false,
			src.CreatedAt(), src.UpdatedAt(), nil,
		)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("offer alongside assignment is rejected", func(t *testing.T) {
		_, err := RestoreOrder(
			src.ID(), src.Code(), src.CustomerID(), src.MerchantID(), src.DeliveryAddressID(),
			src.IsPickup(), src.PickupPoint(), src.DropoffPoint(), src.Items(), DriverAssigned, src.PaymentStatus(),
			&courierID, &courierID, &expiresAt, nil,
			src.DeliveryFee(), src.Discount(), src.DistanceKm(), false,
			src.CreatedAt(), src.UpdatedAt(), nil,
		)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
