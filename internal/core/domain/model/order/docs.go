// Package order provides domain entities and business logic for marketplace
// order fulfillment. It implements the Order aggregate root with lifecycle
// management, role-aware state transitions, and the time-boxed dispatch offer
// protocol.
//
// The package includes:
//   - Order: The aggregate root holding identity, line items, money amounts,
//     courier assignment, and the pending dispatch offer
//   - LineItem: An immutable price-and-name snapshot of a purchased product
//   - Status: A state machine that enforces valid lifecycle transitions per
//     actor role
//   - PaymentStatus: The payment flag tracked alongside the lifecycle
//
// Key business rules:
//   - The order total always equals subtotal + delivery fee - discount and is
//     never negative
//   - Status follows the workflow Pending -> Confirmed -> Preparing -> Ready
//     -> DriverAssigned -> DriverArrived -> PickedUp -> InDelivery ->
//     Delivered, with Cancelled reachable from non-terminal states subject to
//     role rules
//   - At most one dispatch offer is outstanding at a time, and acceptance is
//     first-wins: the persistence layer enforces the same rule with a
//     conditional update
//   - Cancellation releases the courier and clears any pending offer; stock
//     restoration happens at most once per order
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
