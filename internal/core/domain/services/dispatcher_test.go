package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
)

// Santiago de Chile landmarks used as stable test coordinates.
var (
	plazaDeArmas    = mustGeoPoint(-33.4378, -70.6504)
	estacionCentral = mustGeoPoint(-33.4569, -70.6790)
	lasCondes       = mustGeoPoint(-33.4150, -70.5832)
)

func mustGeoPoint(lat, lng float64) kernel.GeoPoint {
	p, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		panic(err)
	}
	return p
}

func testDispatcher(t *testing.T) Dispatcher {
	t.Helper()
	d, err := NewDispatcher(plazaDeArmas)
	require.NoError(t, err)
	return d
}

func onlineCourier(t *testing.T, name string, position *kernel.GeoPoint) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name, courier.VehicleMotorcycle)
	require.NoError(t, err)
	c.GoOnline()
	if position != nil {
		require.NoError(t, c.UpdatePosition(*position, time.Now().UTC()))
	}
	return c
}

func TestNewDispatcher_InvalidCenter(t *testing.T) {
	var zero kernel.GeoPoint
	_, err := NewDispatcher(zero)
	assert.Error(t, err)
}

func TestDispatcher_Rank_NearestFirst(t *testing.T) {
	d := testDispatcher(t)

	near := onlineCourier(t, "near", &estacionCentral)
	far := onlineCourier(t, "far", &lasCondes)

	ranked, err := d.Rank(estacionCentral, []*courier.Courier{far, near}, nil)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.True(t, ranked[0].IsEqual(near))
	assert.True(t, ranked[1].IsEqual(far))
}

func TestDispatcher_Rank_FiltersIneligible(t *testing.T) {
	d := testDispatcher(t)

	offline := onlineCourier(t, "offline", &estacionCentral)
	offline.GoOffline()

	busy := onlineCourier(t, "busy", &estacionCentral)
	require.NoError(t, busy.MarkBusy())

	eligible := onlineCourier(t, "eligible", &lasCondes)

	ranked, err := d.Rank(estacionCentral, []*courier.Courier{offline, busy, eligible}, nil)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.True(t, ranked[0].IsEqual(eligible))
}

func TestDispatcher_Rank_ExcludesDecliners(t *testing.T) {
	d := testDispatcher(t)

	decliner := onlineCourier(t, "decliner", &estacionCentral)
	other := onlineCourier(t, "other", &lasCondes)

	ranked, err := d.Rank(estacionCentral, []*courier.Courier{decliner, other}, []kernel.UUID{decliner.ID()})
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.True(t, ranked[0].IsEqual(other))
}

func TestDispatcher_Rank_FallbackCenterForUnknownPosition(t *testing.T) {
	d := testDispatcher(t)

	// No reported position: measured from the fallback center (Plaza de
	// Armas), which is closer to the pickup than Las Condes.
	unknown := onlineCourier(t, "unknown", nil)
	far := onlineCourier(t, "far", &lasCondes)

	ranked, err := d.Rank(estacionCentral, []*courier.Courier{far, unknown}, nil)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.True(t, ranked[0].IsEqual(unknown))
}

func TestDispatcher_Rank_IdleTiebreak(t *testing.T) {
	d := testDispatcher(t)
	now := time.Now().UTC()

	recentlyBusy := onlineCourier(t, "recent", &estacionCentral)
	recentlyBusy.CompleteDelivery(now)

	longIdle := onlineCourier(t, "long idle", &estacionCentral)
	longIdle.CompleteDelivery(now.Add(-2 * time.Hour))

	neverDelivered := onlineCourier(t, "never", &estacionCentral)

	ranked, err := d.Rank(estacionCentral, []*courier.Courier{recentlyBusy, longIdle, neverDelivered}, nil)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.True(t, ranked[0].IsEqual(neverDelivered))
	assert.True(t, ranked[1].IsEqual(longIdle))
	assert.True(t, ranked[2].IsEqual(recentlyBusy))
}

func TestDispatcher_ApproachKm(t *testing.T) {
	d := testDispatcher(t)
	positioned := onlineCourier(t, "Camila", &estacionCentral)
	unknown := onlineCourier(t, "Diego", nil)

	got, err := d.ApproachKm(lasCondes, positioned)
	require.NoError(t, err)
	want, err := estacionCentral.DistanceTo(lasCondes)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 0.001)

	// No reported position measures from the fallback center.
	got, err = d.ApproachKm(lasCondes, unknown)
	require.NoError(t, err)
	want, err = plazaDeArmas.DistanceTo(lasCondes)
	require.NoError(t, err)
	assert.InDelta(t, want, got, 0.001)
}

func TestDispatcher_Rank_EmptyPool(t *testing.T) {
	d := testDispatcher(t)

	ranked, err := d.Rank(estacionCentral, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}
