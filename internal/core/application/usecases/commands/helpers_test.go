package commands_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testTariff(t *testing.T) services.Tariff {
	t.Helper()
	tariff, err := services.NewTariff(1300, 0.06, 500, 1.2, 12, kernel.Money(25000))
	require.NoError(t, err)
	return tariff
}

func geoPoint(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

func storePoint(t *testing.T) kernel.GeoPoint {
	return geoPoint(t, -33.4378, -70.6504)
}

func homePoint(t *testing.T) kernel.GeoPoint {
	return geoPoint(t, -33.4569, -70.6483)
}

func testProduct(t *testing.T, merchantID kernel.UUID, price kernel.Money, stock int) *product.Product {
	t.Helper()
	p, err := product.NewProduct(kernel.NewUUID(), merchantID, "Empanada de Pino", price, stock)
	require.NoError(t, err)
	return p
}

func testLineItems(t *testing.T) []order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), "Empanada de Pino", kernel.Money(2500), 2)
	require.NoError(t, err)
	return []order.LineItem{item}
}

// pendingOrder builds a fresh delivery order in Pending.
func pendingOrder(t *testing.T, merchantID kernel.UUID) *order.Order {
	t.Helper()
	addressID := kernel.NewUUID()
	distance := 2.1
	store := storePoint(t)
	home := homePoint(t)
	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewOrderCode(),
		kernel.NewUUID(),
		&merchantID,
		&addressID,
		false,
		&store,
		&home,
		testLineItems(t),
		kernel.Money(1500),
		kernel.Money(0),
		&distance,
		time.Now().UTC(),
	)
	require.NoError(t, err)
	return o
}

// readyOrder builds a delivery order advanced to Ready.
func readyOrder(t *testing.T, merchantID kernel.UUID) *order.Order {
	t.Helper()
	o := pendingOrder(t, merchantID)
	merchant, err := kernel.NewActor(merchantID, kernel.RoleMerchant)
	require.NoError(t, err)
	for _, target := range []order.Status{order.Confirmed, order.Preparing, order.Ready} {
		changed, err := o.TransitionTo(target, merchant, time.Now().UTC())
		require.NoError(t, err)
		require.True(t, changed)
	}
	return o
}

// assignedOrder builds an order assigned to the given courier.
func assignedOrder(t *testing.T, merchantID, courierID kernel.UUID) *order.Order {
	t.Helper()
	o := readyOrder(t, merchantID)
	require.NoError(t, o.AcceptOffer(courierID, time.Now().UTC()))
	return o
}

func onlineCourier(t *testing.T) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), "Matías", courier.VehicleMotorcycle)
	require.NoError(t, err)
	c.GoOnline()
	return c
}
