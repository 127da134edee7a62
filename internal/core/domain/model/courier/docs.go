// Package courier provides domain entities and business logic for fleet
// management. It implements the Courier aggregate root with shift state,
// dispatch availability, last-known position, and delivery accounting.
//
// The package includes:
//   - Courier: The aggregate root managing identity, shift flag, availability,
//     position reports, and the completed-delivery counter
//   - Availability: Available/Busy dispatch availability
//   - Vehicle: Bicycle/Motorcycle/Car transport profiles with the average
//     speeds used for ETA estimates
//
// Key business rules:
//   - Only online and Available couriers are eligible for dispatch offers
//   - Position reports are last-write-wins; stale reports are dropped
//   - Completing a delivery returns the courier to Available and stamps the
//     idle-since moment used as a ranking tiebreak
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package courier
