// Package services contains stateless domain services that work across
// aggregates.
//
// Dispatcher ranks couriers for a dispatch offer by distance to the pickup
// point with an idle-longest tiebreak. The geo functions price deliveries
// from a configured Tariff and estimate travel times per vehicle profile.
// All services are pure: persistence and race arbitration stay in the
// application layer.
package services
