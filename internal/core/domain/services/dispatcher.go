package services

import (
	"sort"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
)

// Dispatcher is a domain service that ranks couriers for a dispatch offer.
// It is a pure function over its inputs: candidate loading, offer placement,
// and the conditional writes that arbitrate races live in the application
// layer. Keeping ranking side-effect free makes the ordering testable without
// storage.
//
// Ranking rules:
//   - Only online, Available couriers are considered
//   - Couriers that declined this order are excluded
//   - Nearest to the pickup point wins; couriers who never reported a
//     position are measured from the fallback center so they still get work
//   - Ties break toward the courier idle the longest (never-delivered
//     couriers first)
type Dispatcher struct {
	fallbackCenter kernel.GeoPoint
}

// NewDispatcher creates a Dispatcher. The fallback center stands in for
// couriers with no reported position, typically the city center from
// configuration.
func NewDispatcher(fallbackCenter kernel.GeoPoint) (Dispatcher, error) {
	if err := fallbackCenter.Validate(); err != nil {
		return Dispatcher{}, err
	}
	return Dispatcher{fallbackCenter: fallbackCenter}, nil
}

// Rank returns the eligible couriers ordered best-first for an offer on the
// order picked up at the given point. An empty result means the pool is
// exhausted; the order then waits in the open pool for a volunteer.
func (d Dispatcher) Rank(pickup kernel.GeoPoint, candidates []*courier.Courier, declined []kernel.UUID) ([]*courier.Courier, error) {
	if err := pickup.Validate(); err != nil {
		return nil, err
	}

	excluded := make(map[kernel.UUID]struct{}, len(declined))
	for _, id := range declined {
		excluded[id] = struct{}{}
	}

	type ranked struct {
		courier    *courier.Courier
		distanceKm float64
	}

	eligible := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if !c.IsDispatchable() {
			continue
		}
		if _, ok := excluded[c.ID()]; ok {
			continue
		}

		distance, err := d.ApproachKm(pickup, c)
		if err != nil {
			return nil, err
		}
		eligible = append(eligible, ranked{courier: c, distanceKm: distance})
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].distanceKm != eligible[j].distanceKm {
			return eligible[i].distanceKm < eligible[j].distanceKm
		}
		return idleLonger(eligible[i].courier, eligible[j].courier)
	})

	out := make([]*courier.Courier, len(eligible))
	for i, r := range eligible {
		out[i] = r.courier
	}
	return out, nil
}

// ApproachKm returns the courier's straight-line distance to the pickup
// point, the same figure Rank orders by. Couriers with no reported position
// are measured from the fallback center.
func (d Dispatcher) ApproachKm(pickup kernel.GeoPoint, c *courier.Courier) (float64, error) {
	if err := pickup.Validate(); err != nil {
		return 0, err
	}

	from := d.fallbackCenter
	if c.Position() != nil {
		from = *c.Position()
	}
	return from.DistanceTo(pickup)
}

// idleLonger reports whether a has been idle longer than b. A courier who
// never delivered counts as idle forever.
func idleLonger(a, b *courier.Courier) bool {
	switch {
	case a.LastDeliveredAt() == nil && b.LastDeliveredAt() == nil:
		return false
	case a.LastDeliveredAt() == nil:
		return true
	case b.LastDeliveredAt() == nil:
		return false
	default:
		return a.LastDeliveredAt().Before(*b.LastDeliveredAt())
	}
}
