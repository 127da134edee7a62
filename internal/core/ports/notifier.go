package ports

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
)

// Realtime event names pushed to interested rooms. Names are part of the
// wire contract with the frontend and must not change casually.
const (
	EventNewOrder           = "new_order"
	EventOrderStatusChanged = "order_status_changed"
	EventOfferCreated       = "offer_created"
	EventOfferResolved      = "offer_resolved"
	EventOrderDelivered     = "pedido_entregado"
	EventCourierPosition    = "posicion_repartidor"
)

// Room identifies a realtime fan-out destination on the push gateway.
type Room string

// Room constructors for the gateway's naming scheme.
func OrderRoom(id kernel.UUID) Room    { return Room(fmt.Sprintf("order:%s", id)) }
func MerchantRoom(id kernel.UUID) Room { return Room(fmt.Sprintf("merchant:%s", id)) }
func CustomerRoom(id kernel.UUID) Room { return Room(fmt.Sprintf("customer:%s", id)) }
func CourierRoom(id kernel.UUID) Room  { return Room(fmt.Sprintf("courier:%s", id)) }

// AdminOrdersRoom is the operations board room receiving every order event.
const AdminOrdersRoom Room = "admin:orders"

// Event is the envelope delivered to the push gateway.
type Event struct {
	Name string `json:"event"`
	Room Room   `json:"room"`
	Data any    `json:"data"`
}

// Notifier fans out realtime events to rooms.
//
// Delivery is best effort and MUST NOT block or fail the calling business
// operation: implementations queue and drop rather than apply backpressure.
// Publish never returns an error for that reason.
type Notifier interface {
	Publish(event Event)
}
