package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Order represents a marketplace order and is the aggregate root for the
// fulfillment lifecycle: from checkout through courier assignment to delivery
// or cancellation.
//
// Order maintains these invariants:
//   - total == subtotal + deliveryFee - discount, and total >= 0
//   - a pending dispatch offer implies no assigned courier and a status of
//     Preparing or Ready
//   - an assigned courier implies the status is in the assigned band
//     (DriverAssigned through Delivered)
//   - line items are immutable once the order exists
//   - no status mutation is permitted past Delivered or Cancelled
//
// The struct uses private fields so every mutation goes through a validated
// method. Dispatch-offer fields (pendingCourierID, offerExpiresAt) are part of
// the aggregate rather than a separate entity; the persistence layer mirrors
// the same conditional rules with compare-and-swap updates.
type Order struct {
	id                kernel.UUID
	code              kernel.OrderCode
	customerID        kernel.UUID
	merchantID        *kernel.UUID
	deliveryAddressID *kernel.UUID
	isPickup          bool

	pickupPoint  *kernel.GeoPoint
	dropoffPoint *kernel.GeoPoint

	items []LineItem

	status        Status
	paymentStatus PaymentStatus

	courierID        *kernel.UUID
	pendingCourierID *kernel.UUID
	offerExpiresAt   *time.Time
	declinedCouriers []kernel.UUID

	subtotal    kernel.Money
	deliveryFee kernel.Money
	discount    kernel.Money
	distanceKm  *float64

	stockRestored bool

	createdAt   time.Time
	updatedAt   time.Time
	deliveredAt *time.Time

	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Pending status with PaymentPending.
// This is the checkout entry point; the subtotal is derived from the line
// items and the money invariant is checked at construction.
//
// Parameters:
//   - id: unique order identifier
//   - code: human-readable order code
//   - customerID: the ordering customer
//   - merchantID: the fulfilling merchant (may be nil only for pickup orders)
//   - deliveryAddressID: drop-off address (required unless pickup)
//   - isPickup: true when the customer collects the order themselves;
//     pickup orders skip dispatch entirely and carry no delivery fee
//   - pickupPoint: the store's coordinates, required for delivery orders
//     (dispatch ranks couriers by distance to it)
//   - dropoffPoint: the customer's coordinates, required for delivery orders
//   - items: at least one validated line item
//   - deliveryFee, discount: non-negative amounts
//   - distanceKm: store-to-customer distance (nil for pickup orders)
//   - now: creation timestamp
func NewOrder(
	id kernel.UUID,
	code kernel.OrderCode,
	customerID kernel.UUID,
	merchantID *kernel.UUID,
	deliveryAddressID *kernel.UUID,
	isPickup bool,
	pickupPoint *kernel.GeoPoint,
	dropoffPoint *kernel.GeoPoint,
	items []LineItem,
	deliveryFee kernel.Money,
	discount kernel.Money,
	distanceKm *float64,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		createdAt:     now,
		updatedAt:     now,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCode(code),
		o.setCustomerID(customerID),
		o.setMerchantID(merchantID),
		o.setDeliveryAddressID(deliveryAddressID, isPickup),
		o.setRoute(pickupPoint, dropoffPoint, isPickup),
		o.setItems(items),
		o.setAmounts(deliveryFee, discount),
		o.setDistance(distanceKm, isPickup),
	); err != nil {
		return nil, err
	}

	o.isPickup = isPickup
	if !isPickup && merchantID == nil {
		return nil, errs.NewValueIsRequiredError("merchant for delivery order")
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder, it accepts the full persisted state, including assignment
// and offer fields, and re-checks the aggregate invariants so corrupt rows
// never become live aggregates.
func RestoreOrder(
	id kernel.UUID,
	code kernel.OrderCode,
	customerID kernel.UUID,
	merchantID *kernel.UUID,
	deliveryAddressID *kernel.UUID,
	isPickup bool,
	pickupPoint *kernel.GeoPoint,
	dropoffPoint *kernel.GeoPoint,
	items []LineItem,
	status Status,
	paymentStatus PaymentStatus,
	courierID *kernel.UUID,
	pendingCourierID *kernel.UUID,
	offerExpiresAt *time.Time,
	declinedCouriers []kernel.UUID,
	deliveryFee kernel.Money,
	discount kernel.Money,
	distanceKm *float64,
	stockRestored bool,
	createdAt time.Time,
	updatedAt time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	o := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCode(code),
		o.setCustomerID(customerID),
		o.setMerchantID(merchantID),
		o.setDeliveryAddressID(deliveryAddressID, isPickup),
		o.setRoute(pickupPoint, dropoffPoint, isPickup),
		o.setItems(items),
		o.setAmounts(deliveryFee, discount),
		o.setDistance(distanceKm, isPickup),
		status.Validate(),
		paymentStatus.Validate(),
	); err != nil {
		return nil, err
	}

	o.isPickup = isPickup
	o.status = status
	o.paymentStatus = paymentStatus
	o.courierID = courierID
	o.pendingCourierID = pendingCourierID
	o.offerExpiresAt = offerExpiresAt
	o.declinedCouriers = append([]kernel.UUID(nil), declinedCouriers...)
	o.stockRestored = stockRestored
	o.createdAt = createdAt
	o.updatedAt = updatedAt
	o.deliveredAt = deliveredAt

	if err := o.validateAssignmentConsistency(); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Code returns the human-readable order code.
func (o *Order) Code() kernel.OrderCode {
	return o.code
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// MerchantID returns the fulfilling merchant's identifier, nil for
// merchant-less pickup orders.
func (o *Order) MerchantID() *kernel.UUID {
	return o.merchantID
}

// DeliveryAddressID returns the drop-off address identifier, nil for pickup orders.
func (o *Order) DeliveryAddressID() *kernel.UUID {
	return o.deliveryAddressID
}

// IsPickup reports whether the customer collects the order themselves.
// Pickup orders never enter dispatch.
func (o *Order) IsPickup() bool {
	return o.isPickup
}

// PickupPoint returns the store's coordinates, nil only for pickup orders.
func (o *Order) PickupPoint() *kernel.GeoPoint {
	return o.pickupPoint
}

// DropoffPoint returns the customer's coordinates, nil for pickup orders.
func (o *Order) DropoffPoint() *kernel.GeoPoint {
	return o.dropoffPoint
}

// Items returns a copy of the order's line items.
func (o *Order) Items() []LineItem {
	out := make([]LineItem, len(o.items))
	copy(out, o.items)
	return out
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// PaymentStatus returns the payment flag.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// CourierID returns the assigned courier's ID, nil while unassigned.
func (o *Order) CourierID() *kernel.UUID {
	return o.courierID
}

// PendingCourierID returns the courier currently holding the exclusive
// dispatch offer, nil when no offer is outstanding.
func (o *Order) PendingCourierID() *kernel.UUID {
	return o.pendingCourierID
}

// OfferExpiresAt returns the wall-clock deadline of the pending offer.
func (o *Order) OfferExpiresAt() *time.Time {
	return o.offerExpiresAt
}

// DeclinedCouriers returns a copy of the couriers that explicitly declined
// an offer for this order.
func (o *Order) DeclinedCouriers() []kernel.UUID {
	out := make([]kernel.UUID, len(o.declinedCouriers))
	copy(out, o.declinedCouriers)
	return out
}

// Subtotal returns the sum of all line item subtotals.
func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

// DeliveryFee returns the delivery fee charged at checkout.
func (o *Order) DeliveryFee() kernel.Money {
	return o.deliveryFee
}

// Discount returns the discount applied at checkout.
func (o *Order) Discount() kernel.Money {
	return o.discount
}

// Total returns subtotal + deliveryFee - discount. Never negative for a
// validly constructed order.
func (o *Order) Total() kernel.Money {
	return o.subtotal + o.deliveryFee - o.discount
}

// DistanceKm returns the store-to-customer distance, nil for pickup orders.
func (o *Order) DistanceKm() *float64 {
	return o.distanceKm
}

// StockRestored reports whether cancelled stock has already been returned.
func (o *Order) StockRestored() bool {
	return o.stockRestored
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last mutation timestamp.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// DeliveredAt returns the delivery timestamp, nil until delivered.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// IsAssignedTo reports whether the given courier is the assigned courier.
func (o *Order) IsAssignedTo(courierID kernel.UUID) bool {
	return o.courierID != nil && o.courierID.IsEqual(courierID)
}

// HasLiveOffer reports whether an unexpired dispatch offer is outstanding.
func (o *Order) HasLiveOffer(now time.Time) bool {
	return o.pendingCourierID != nil && o.offerExpiresAt != nil && now.Before(*o.offerExpiresAt)
}

// TransitionTo moves the order to the target status on behalf of an actor.
//
// Authorization and reachability are decided by the status transition table.
// Courier actors must additionally be the courier assigned to this order.
//
// Returns:
//   - (true, nil) when the status actually changed; callers emit the
//     lifecycle event only in this case
//   - (false, nil) when target equals the current status (no-op; this makes
//     duplicate cancel calls idempotent)
//   - (false, error) when the transition is not allowed
//
// Side effects applied here: Cancelled clears courier assignment and any
// pending offer; Delivered stamps deliveredAt. Stock restoration and courier
// release are coordinated by the caller, which owns those aggregates.
func (o *Order) TransitionTo(target Status, actor kernel.Actor, now time.Time) (bool, error) {
	if err := actor.Validate(); err != nil {
		return false, err
	}

	if target == o.status {
		return false, nil
	}

	if actor.Is(kernel.RoleCourier) && !o.IsAssignedTo(actor.ID) {
		return false, errs.NewNotAuthorizedErrorWithCause("order transition",
			fmt.Errorf("courier %s is not assigned to order %s", actor.ID, o.code))
	}

	if err := o.status.CanTransitionTo(target, actor.Role); err != nil {
		return false, err
	}

	o.status = target
	o.updatedAt = now

	switch target {
	case Cancelled:
		o.courierID = nil
		o.clearOffer()
	case Delivered:
		o.deliveredAt = &now
	}

	return true, nil
}

// SetPaymentStatus updates the payment flag. Terminal orders accept
// PaymentRefunded only; there is no other payment mutation past the end of
// the lifecycle.
func (o *Order) SetPaymentStatus(status PaymentStatus, now time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}

	if o.status.IsTerminal() && status != PaymentRefunded {
		return errs.NewConflictErrorWithCause("payment status",
			fmt.Errorf("order %s is %s", o.code, o.status))
	}

	o.paymentStatus = status
	o.updatedAt = now
	return nil
}

// OfferTo places an exclusive time-boxed dispatch offer for one courier.
//
// Preconditions: no assigned courier, no live offer, status allows offers
// (Preparing or Ready), courier has not declined this order. Violations are
// ConflictErrors because they mean another dispatch pass got there first.
func (o *Order) OfferTo(courierID kernel.UUID, expiresAt time.Time, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.courierID != nil {
		return errs.NewConflictErrorWithCause("dispatch offer",
			fmt.Errorf("order %s already has a courier", o.code))
	}

	if !o.status.CanHoldOffer() {
		return errs.NewConflictErrorWithCause("dispatch offer",
			fmt.Errorf("order %s is %s", o.code, o.status))
	}

	if o.HasLiveOffer(now) {
		return errs.NewConflictErrorWithCause("dispatch offer",
			fmt.Errorf("order %s already has a pending offer", o.code))
	}

	if o.hasDeclined(courierID) {
		return errs.NewConflictErrorWithCause("dispatch offer",
			fmt.Errorf("courier %s declined order %s", courierID, o.code))
	}

	o.pendingCourierID = &courierID
	o.offerExpiresAt = &expiresAt
	o.updatedAt = now
	return nil
}

// AcceptOffer assigns the order to the accepting courier.
//
// Acceptance succeeds in exactly two cases:
//   - the courier holds the live (unexpired) pending offer, or
//   - no live offer is outstanding and the order sits in the open pool
//     (offerable status, no courier): first acceptor wins
//
// An expired offer is never acceptable by its former holder: once
// offerExpiresAt passes, only the open-pool path remains and it is open to
// everyone. All failures are ConflictErrors ("too late"); callers must not
// retry automatically.
//
// Persistence mirrors this rule as a single conditional UPDATE, which is the
// authoritative race arbiter between two near-simultaneous acceptors.
func (o *Order) AcceptOffer(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.courierID != nil {
		return errs.NewConflictErrorWithCause("offer acceptance",
			fmt.Errorf("order %s already has a courier", o.code))
	}

	if !o.status.CanHoldOffer() {
		return errs.NewConflictErrorWithCause("offer acceptance",
			fmt.Errorf("order %s is %s", o.code, o.status))
	}

	if o.HasLiveOffer(now) {
		if !o.pendingCourierID.IsEqual(courierID) {
			return errs.NewConflictErrorWithCause("offer acceptance",
				fmt.Errorf("offer for order %s is held by another courier", o.code))
		}
	} else if o.pendingCourierID != nil && o.pendingCourierID.IsEqual(courierID) {
		return errs.NewConflictErrorWithCause("offer acceptance",
			fmt.Errorf("offer for order %s expired", o.code))
	}

	o.courierID = &courierID
	o.clearOffer()
	o.status = DriverAssigned
	o.updatedAt = now
	return nil
}

// DeclineOffer rejects the pending offer. Only the offer holder may decline.
// The decliner is recorded so subsequent ranking passes can exclude them,
// subject to the configured exclusion policy.
func (o *Order) DeclineOffer(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.pendingCourierID == nil || !o.pendingCourierID.IsEqual(courierID) {
		return errs.NewConflictErrorWithCause("offer decline",
			fmt.Errorf("courier %s holds no offer on order %s", courierID, o.code))
	}

	o.clearOffer()
	o.declinedCouriers = append(o.declinedCouriers, courierID)
	o.updatedAt = now
	return nil
}

// ExpireOffer clears the pending offer when its deadline has passed and no
// courier was assigned. The silent holder is recorded as a decliner so the
// next ranking pass moves on to a different candidate. Returns true if an
// offer was actually expired.
func (o *Order) ExpireOffer(now time.Time) bool {
	if o.pendingCourierID == nil || o.offerExpiresAt == nil {
		return false
	}
	if now.Before(*o.offerExpiresAt) {
		return false
	}
	if o.courierID != nil {
		return false
	}

	holder := *o.pendingCourierID
	o.clearOffer()
	o.declinedCouriers = append(o.declinedCouriers, holder)
	o.updatedAt = now
	return true
}

// ClearDeclines forgets recorded declines. Used by the one-pass exclusion
// policy once a ranking round exhausts the candidate pool.
func (o *Order) ClearDeclines(now time.Time) {
	if len(o.declinedCouriers) == 0 {
		return
	}
	o.declinedCouriers = nil
	o.updatedAt = now
}

// MarkStockRestored flips the stock-restoration flag exactly once.
// Returns false if stock was already restored, which makes duplicate cancel
// requests change stock at most once.
func (o *Order) MarkStockRestored(now time.Time) bool {
	if o.stockRestored {
		return false
	}
	o.stockRestored = true
	o.updatedAt = now
	return true
}

func (o *Order) clearOffer() {
	o.pendingCourierID = nil
	o.offerExpiresAt = nil
}

func (o *Order) hasDeclined(courierID kernel.UUID) bool {
	for _, id := range o.declinedCouriers {
		if id.IsEqual(courierID) {
			return true
		}
	}
	return false
}

// validateAssignmentConsistency re-checks the offer/assignment invariants
// when restoring from persistence.
func (o *Order) validateAssignmentConsistency() error {
	if o.pendingCourierID != nil {
		if o.courierID != nil {
			return errs.NewValueIsInvalidErrorWithCause("order",
				fmt.Errorf("order %s has both a pending offer and an assigned courier", o.code))
		}
		if !o.status.CanHoldOffer() {
			return errs.NewValueIsInvalidErrorWithCause("order",
				fmt.Errorf("order %s holds an offer in status %s", o.code, o.status))
		}
		if o.offerExpiresAt == nil {
			return errs.NewValueIsRequiredError("offer expiry")
		}
	}

	if o.courierID != nil && !o.status.IsAssignedBand() {
		return errs.NewValueIsInvalidErrorWithCause("order",
			fmt.Errorf("order %s has a courier in status %s", o.code, o.status))
	}

	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCode(code kernel.OrderCode) error {
	if err := code.Validate(); err != nil {
		return err
	}
	o.code = code
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setMerchantID(merchantID *kernel.UUID) error {
	if merchantID != nil {
		if err := merchantID.Validate(); err != nil {
			return err
		}
	}
	o.merchantID = merchantID
	return nil
}

func (o *Order) setDeliveryAddressID(addressID *kernel.UUID, isPickup bool) error {
	if addressID == nil {
		if !isPickup {
			return errs.NewValueIsRequiredError("delivery address")
		}
		return nil
	}
	if err := addressID.Validate(); err != nil {
		return err
	}
	o.deliveryAddressID = addressID
	return nil
}

func (o *Order) setRoute(pickupPoint, dropoffPoint *kernel.GeoPoint, isPickup bool) error {
	if !isPickup {
		if pickupPoint == nil {
			return errs.NewValueIsRequiredError("pickup point")
		}
		if dropoffPoint == nil {
			return errs.NewValueIsRequiredError("dropoff point")
		}
	}

	if pickupPoint != nil {
		if err := pickupPoint.Validate(); err != nil {
			return err
		}
	}
	if dropoffPoint != nil {
		if err := dropoffPoint.Validate(); err != nil {
			return err
		}
	}

	o.pickupPoint = pickupPoint
	o.dropoffPoint = dropoffPoint
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("line items")
	}

	var subtotal kernel.Money
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		subtotal += item.Subtotal()
	}

	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	o.subtotal = subtotal
	return nil
}

func (o *Order) setAmounts(deliveryFee, discount kernel.Money) error {
	if deliveryFee.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("delivery fee",
			fmt.Errorf("%d is negative", deliveryFee))
	}
	if discount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("discount",
			fmt.Errorf("%d is negative", discount))
	}
	if (o.subtotal + deliveryFee - discount).IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("discount %d exceeds subtotal %d plus fee %d", discount, o.subtotal, deliveryFee))
	}

	o.deliveryFee = deliveryFee
	o.discount = discount
	return nil
}

func (o *Order) setDistance(distanceKm *float64, isPickup bool) error {
	if distanceKm == nil {
		o.distanceKm = nil
		return nil
	}
	if *distanceKm < 0 {
		return errs.NewValueIsInvalidErrorWithCause("distance",
			fmt.Errorf("%f is negative", *distanceKm))
	}
	if isPickup {
		return errs.NewValueIsInvalidError("distance on pickup order")
	}
	o.distanceKm = distanceKm
	return nil
}
