// Package http exposes the fulfillment engine over REST. Handlers stay thin:
// they translate JSON payloads into commands and queries, delegate to the
// application layer, and map domain errors to status codes.
package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// Server wires HTTP routes to command and query handlers.
type Server struct {
	placeOrder      commands.PlaceOrderCommandHandler
	transitionOrder commands.TransitionOrderCommandHandler
	updatePayment   commands.UpdatePaymentStatusCommandHandler
	acceptOffer     commands.AcceptOfferCommandHandler
	declineOffer    commands.DeclineOfferCommandHandler
	updatePosition  commands.UpdateCourierPositionCommandHandler
	setShift        commands.SetCourierShiftCommandHandler
	createCourier   commands.CreateCourierCommandHandler
	createProduct   commands.CreateProductCommandHandler

	getOrder       queries.GetOrderQueryHandler
	activeOrders   queries.GetActiveOrdersQueryHandler
	customerOrders queries.GetCustomerOrdersQueryHandler
	dashboard      queries.GetCourierDashboardQueryHandler

	logger *slog.Logger
}

// NewServer creates the HTTP server around the application handlers.
func NewServer(
	placeOrder commands.PlaceOrderCommandHandler,
	transitionOrder commands.TransitionOrderCommandHandler,
	updatePayment commands.UpdatePaymentStatusCommandHandler,
	acceptOffer commands.AcceptOfferCommandHandler,
	declineOffer commands.DeclineOfferCommandHandler,
	updatePosition commands.UpdateCourierPositionCommandHandler,
	setShift commands.SetCourierShiftCommandHandler,
	createCourier commands.CreateCourierCommandHandler,
	createProduct commands.CreateProductCommandHandler,
	getOrder queries.GetOrderQueryHandler,
	activeOrders queries.GetActiveOrdersQueryHandler,
	customerOrders queries.GetCustomerOrdersQueryHandler,
	dashboard queries.GetCourierDashboardQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		placeOrder:      placeOrder,
		transitionOrder: transitionOrder,
		updatePayment:   updatePayment,
		acceptOffer:     acceptOffer,
		declineOffer:    declineOffer,
		updatePosition:  updatePosition,
		setShift:        setShift,
		createCourier:   createCourier,
		createProduct:   createProduct,
		getOrder:        getOrder,
		activeOrders:    activeOrders,
		customerOrders:  customerOrders,
		dashboard:       dashboard,
		logger:          logger.With("component", "http"),
	}
}

// RegisterRoutes attaches all endpoints to the echo instance. Everything
// except the health probe sits behind JWT auth.
func (s *Server) RegisterRoutes(e *echo.Echo, jwtSecret string) {
	e.GET("/health", s.Health)

	api := e.Group("", AuthMiddleware(jwtSecret))

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id", s.UpdateOrder)
	api.DELETE("/orders/:id", s.CancelOrder)

	api.GET("/couriers/dashboard", s.CourierDashboard)
	api.POST("/couriers/offers/:orderId/accept", s.AcceptOffer)
	api.POST("/couriers/offers/:orderId/decline", s.DeclineOffer)
	api.POST("/couriers/position", s.UpdatePosition)
	api.POST("/couriers/shift", s.SetShift)

	api.POST("/admin/couriers", s.CreateCourier)
	api.POST("/admin/products", s.CreateProduct)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type geoPointPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type cartItemPayload struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type placeOrderRequest struct {
	MerchantID        string           `json:"merchantId"`
	DeliveryAddressID *string          `json:"deliveryAddressId"`
	IsPickup          bool             `json:"isPickup"`
	Pickup            geoPointPayload  `json:"pickup"`
	Dropoff           *geoPointPayload `json:"dropoff"`
	Items             []cartItemPayload `json:"items"`
	PointsToRedeem    int64            `json:"pointsToRedeem"`
}

type placedOrderResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Status      string `json:"status"`
	Subtotal    int64  `json:"subtotal"`
	DeliveryFee int64  `json:"deliveryFee"`
	Discount    int64  `json:"discount"`
	Total       int64  `json:"total"`
}

// PlaceOrder handles POST /orders - customer checkout.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	actor, ok := requestActor(ctx)
	if !ok || !actor.Is(kernel.RoleCustomer) {
		return forbidden(ctx)
	}

	var req placeOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	merchantID, err := kernel.UUIDFromString(req.MerchantID)
	if err != nil {
		return badRequest(ctx, "invalid merchant id")
	}

	var addressID *kernel.UUID
	if req.DeliveryAddressID != nil {
		id, addrErr := kernel.UUIDFromString(*req.DeliveryAddressID)
		if addrErr != nil {
			return badRequest(ctx, "invalid delivery address id")
		}
		addressID = &id
	}

	pickup, err := kernel.NewGeoPoint(req.Pickup.Lat, req.Pickup.Lng)
	if err != nil {
		return respondError(ctx, err)
	}

	var dropoff *kernel.GeoPoint
	if req.Dropoff != nil {
		point, dropErr := kernel.NewGeoPoint(req.Dropoff.Lat, req.Dropoff.Lng)
		if dropErr != nil {
			return respondError(ctx, dropErr)
		}
		dropoff = &point
	}

	items := make([]commands.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, itemErr := kernel.UUIDFromString(item.ProductID)
		if itemErr != nil {
			return badRequest(ctx, "invalid product id")
		}
		items = append(items, commands.OrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	cmd, err := commands.NewPlaceOrderCommand(
		kernel.NewUUID(),
		actor.ID,
		merchantID,
		addressID,
		req.IsPickup,
		pickup,
		dropoff,
		items,
		kernel.Money(req.PointsToRedeem),
	)
	if err != nil {
		return respondError(ctx, err)
	}

	placed, err := s.placeOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, placedOrderResponse{
		ID:          placed.ID().String(),
		Code:        placed.Code().String(),
		Status:      placed.Status().String(),
		Subtotal:    int64(placed.Subtotal()),
		DeliveryFee: int64(placed.DeliveryFee()),
		Discount:    int64(placed.Discount()),
		Total:       int64(placed.Total()),
	})
}

type orderItemPayload struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

type orderResponse struct {
	ID             string             `json:"id"`
	Code           string             `json:"code"`
	CustomerID     string             `json:"customerId"`
	MerchantID     *string            `json:"merchantId,omitempty"`
	Status         string             `json:"status"`
	PaymentStatus  string             `json:"paymentStatus"`
	IsPickup       bool               `json:"isPickup"`
	CourierID      *string            `json:"courierId,omitempty"`
	OfferExpiresAt *time.Time         `json:"offerExpiresAt,omitempty"`
	Subtotal       int64              `json:"subtotal"`
	DeliveryFee    int64              `json:"deliveryFee"`
	Discount       int64              `json:"discount"`
	Total          int64              `json:"total"`
	DistanceKm     *float64           `json:"distanceKm,omitempty"`
	Items          []orderItemPayload `json:"items"`
	CreatedAt      time.Time          `json:"createdAt"`
	DeliveredAt    *time.Time         `json:"deliveredAt,omitempty"`
}

// GetOrder handles GET /orders/:id. Customers see only their own orders,
// couriers only orders assigned to them; merchant and admin see any.
func (s *Server) GetOrder(ctx echo.Context) error {
	actor, ok := requestActor(ctx)
	if !ok {
		return forbidden(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	snapshot, err := s.getOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	if actor.Is(kernel.RoleCustomer) && !snapshot.CustomerID.IsEqual(actor.ID) {
		return forbidden(ctx)
	}
	if actor.Is(kernel.RoleCourier) &&
		(snapshot.CourierID == nil || !snapshot.CourierID.IsEqual(actor.ID)) {
		return forbidden(ctx)
	}

	items := make([]orderItemPayload, len(snapshot.Items))
	for i, item := range snapshot.Items {
		items[i] = orderItemPayload{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			UnitPrice: int64(item.UnitPrice),
			Quantity:  item.Quantity,
		}
	}

	return ctx.JSON(http.StatusOK, orderResponse{
		ID:             snapshot.ID.String(),
		Code:           snapshot.Code,
		CustomerID:     snapshot.CustomerID.String(),
		MerchantID:     uuidString(snapshot.MerchantID),
		Status:         snapshot.Status,
		PaymentStatus:  snapshot.PaymentStatus,
		IsPickup:       snapshot.IsPickup,
		CourierID:      uuidString(snapshot.CourierID),
		OfferExpiresAt: snapshot.OfferExpiresAt,
		Subtotal:       int64(snapshot.Subtotal),
		DeliveryFee:    int64(snapshot.DeliveryFee),
		Discount:       int64(snapshot.Discount),
		Total:          int64(snapshot.Total),
		DistanceKm:     snapshot.DistanceKm,
		Items:          items,
		CreatedAt:      snapshot.CreatedAt,
		DeliveredAt:    snapshot.DeliveredAt,
	})
}

type orderSummaryPayload struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	CustomerID  string     `json:"customerId"`
	MerchantID  *string    `json:"merchantId,omitempty"`
	CourierID   *string    `json:"courierId,omitempty"`
	Status      string     `json:"status"`
	IsPickup    bool       `json:"isPickup"`
	Total       int64      `json:"total"`
	CreatedAt   time.Time  `json:"createdAt"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
}

// ListOrders handles GET /orders. Customers get their own history, staff get
// the live operations board.
func (s *Server) ListOrders(ctx echo.Context) error {
	actor, ok := requestActor(ctx)
	if !ok {
		return forbidden(ctx)
	}

	var summaries []queries.OrderSummaryResponse
	var err error

	if actor.Is(kernel.RoleCustomer) {
		query, queryErr := queries.NewGetCustomerOrdersQuery(actor.ID)
		if queryErr != nil {
			return respondError(ctx, queryErr)
		}
		summaries, err = s.customerOrders.Handle(ctx.Request().Context(), query)
	} else {
		summaries, err = s.activeOrders.Handle(ctx.Request().Context(), queries.NewGetActiveOrdersQuery())
	}
	if err != nil {
		return respondError(ctx, err)
	}

	response := make([]orderSummaryPayload, len(summaries))
	for i, summary := range summaries {
		response[i] = orderSummaryPayload{
			ID:          summary.ID.String(),
			Code:        summary.Code,
			CustomerID:  summary.CustomerID.String(),
			MerchantID:  uuidString(summary.MerchantID),
			CourierID:   uuidString(summary.CourierID),
			Status:      summary.Status,
			IsPickup:    summary.IsPickup,
			Total:       int64(summary.Total),
			CreatedAt:   summary.CreatedAt,
			DeliveredAt: summary.DeliveredAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

type updateOrderRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

// UpdateOrder handles PATCH /orders/:id - lifecycle transitions and payment
// flag updates. Either field may come alone; when both are present the
// lifecycle moves first so a cancel-and-refund lands in one request.
func (s *Server) UpdateOrder(ctx echo.Context) error {
	actor, ok := requestActor(ctx)
	if !ok {
		return forbidden(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req updateOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	if req.Status == "" && req.PaymentStatus == "" {
		return badRequest(ctx, "status or paymentStatus is required")
	}

	if req.Status != "" {
		target, parseErr := order.StatusFromString(req.Status)
		if parseErr != nil {
			return respondError(ctx, parseErr)
		}

		cmd, cmdErr := commands.NewTransitionOrderCommand(orderID, target, actor)
		if cmdErr != nil {
			return respondError(ctx, cmdErr)
		}
		if err = s.transitionOrder.Handle(ctx.Request().Context(), cmd); err != nil {
			return respondError(ctx, err)
		}
	}

	if req.PaymentStatus != "" {
		target, parseErr := order.PaymentStatusFromString(req.PaymentStatus)
		if parseErr != nil {
			return respondError(ctx, parseErr)
		}

		cmd, cmdErr := commands.NewUpdatePaymentStatusCommand(orderID, target, actor)
		if cmdErr != nil {
			return respondError(ctx, cmdErr)
		}
		if err = s.updatePayment.Handle(ctx.Request().Context(), cmd); err != nil {
			return respondError(ctx, err)
		}
	}

	return ctx.NoContent(http.StatusOK)
}

// CancelOrder handles DELETE /orders/:id - cancellation as a transition.
func (s *Server) CancelOrder(ctx echo.Context) error {
	actor, ok := requestActor(ctx)
	if !ok {
		return forbidden(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	return s.transition(ctx, orderID, order.Cancelled, actor)
}

func (s *Server) transition(ctx echo.Context, orderID kernel.UUID, target order.Status, actor kernel.Actor) error {
	cmd, err := commands.NewTransitionOrderCommand(orderID, target, actor)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.transitionOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

type deliveryJobPayload struct {
	OrderID        string     `json:"orderId"`
	Code           string     `json:"code"`
	Status         string     `json:"status"`
	Earnings       int64      `json:"earnings"`
	DistanceKm     *float64   `json:"distanceKm,omitempty"`
	EtaMinutes     *int       `json:"etaMinutes,omitempty"`
	OfferExpiresAt *time.Time `json:"offerExpiresAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type courierDashboardResponse struct {
	Offer       *deliveryJobPayload  `json:"offer,omitempty"`
	OpenPool    []deliveryJobPayload `json:"openPool"`
	Assignments []deliveryJobPayload `json:"assignments"`
}

// CourierDashboard handles GET /couriers/dashboard. Optional lat/lng query
// parameters refresh the courier's position before the dashboard is built.
func (s *Server) CourierDashboard(ctx echo.Context) error {
	actor, ok := requestActor(ctx)
	if !ok || !actor.Is(kernel.RoleCourier) {
		return forbidden(ctx)
	}

	s.refreshPosition(ctx, actor)

	query, err := queries.NewGetCourierDashboardQuery(actor.ID)
	if err != nil {
		return respondError(ctx, err)
	}

	board, err := s.dashboard.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, courierDashboardResponse{
		Offer:       jobPayloadPtr(board.Offer),
		OpenPool:    jobPayloads(board.OpenPool),
		Assignments: jobPayloads(board.Assignments),
	})
}

// refreshPosition is best effort: a malformed coordinate pair never fails the
// dashboard fetch.
func (s *Server) refreshPosition(ctx echo.Context, actor kernel.Actor) {
	latParam, lngParam := ctx.QueryParam("lat"), ctx.QueryParam("lng")
	if latParam == "" || lngParam == "" {
		return
	}

	lat, latErr := strconv.ParseFloat(latParam, 64)
	lng, lngErr := strconv.ParseFloat(lngParam, 64)
	if latErr != nil || lngErr != nil {
		return
	}

	position, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return
	}

	cmd, err := commands.NewUpdateCourierPositionCommand(actor.ID, position)
	if err != nil {
		return
	}

	if err = s.updatePosition.Handle(ctx.Request().Context(), cmd); err != nil {
		s.logger.WarnContext(ctx.Request().Context(), "position refresh failed",
			"courier", actor.ID.String(), "error", err)
	}
}

// AcceptOffer handles POST /couriers/offers/:orderId/accept.
func (s *Server) AcceptOffer(ctx echo.Context) error {
	actor, ok := requestActor(ctx)
	if !ok || !actor.Is(kernel.RoleCourier) {
		return forbidden(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	cmd, err := commands.NewAcceptOfferCommand(orderID, actor.ID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.acceptOffer.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

// DeclineOffer handles POST /couriers/offers/:orderId/decline.
func (s *Server) DeclineOffer(ctx echo.Context) error {
	actor, ok := requestActor(ctx)
	if !ok || !actor.Is(kernel.RoleCourier) {
		return forbidden(ctx)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	cmd, err := commands.NewDeclineOfferCommand(orderID, actor.ID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.declineOffer.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

type positionRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// UpdatePosition handles POST /couriers/position.
func (s *Server) UpdatePosition(ctx echo.Context) error {
	actor, ok := requestActor(ctx)
	if !ok || !actor.Is(kernel.RoleCourier) {
		return forbidden(ctx)
	}

	var req positionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	position, err := kernel.NewGeoPoint(req.Lat, req.Lng)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateCourierPositionCommand(actor.ID, position)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.updatePosition.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

type shiftRequest struct {
	Online bool `json:"online"`
}

// SetShift handles POST /couriers/shift - going on or off shift.
func (s *Server) SetShift(ctx echo.Context) error {
	actor, ok := requestActor(ctx)
	if !ok || !actor.Is(kernel.RoleCourier) {
		return forbidden(ctx)
	}

	var req shiftRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewSetCourierShiftCommand(actor.ID, req.Online)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.setShift.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusOK)
}

type createCourierRequest struct {
	Name    string `json:"name"`
	Vehicle string `json:"vehicle"`
}

// CreateCourier handles POST /admin/couriers - fleet onboarding.
func (s *Server) CreateCourier(ctx echo.Context) error {
	actor, ok := requestActor(ctx)
	if !ok || !actor.Is(kernel.RoleAdmin) {
		return forbidden(ctx)
	}

	var req createCourierRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	vehicle, err := courier.VehicleFromString(req.Vehicle)
	if err != nil {
		return respondError(ctx, err)
	}

	courierID := kernel.NewUUID()
	cmd, err := commands.NewCreateCourierCommand(courierID, req.Name, vehicle)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.createCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": courierID.String()})
}

type createProductRequest struct {
	MerchantID string `json:"merchantId"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Stock      int    `json:"stock"`
}

// CreateProduct handles POST /admin/products - catalog management. Merchants
// may only create products for their own store.
func (s *Server) CreateProduct(ctx echo.Context) error {
	actor, ok := requestActor(ctx)
	if !ok || !(actor.Is(kernel.RoleAdmin) || actor.Is(kernel.RoleMerchant)) {
		return forbidden(ctx)
	}

	var req createProductRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	merchantID, err := kernel.UUIDFromString(req.MerchantID)
	if err != nil {
		return badRequest(ctx, "invalid merchant id")
	}
	if actor.Is(kernel.RoleMerchant) && !merchantID.IsEqual(actor.ID) {
		return forbidden(ctx)
	}

	productID := kernel.NewUUID()
	cmd, err := commands.NewCreateProductCommand(productID, merchantID, req.Name, kernel.Money(req.Price), req.Stock)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.createProduct.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": productID.String()})
}

func forbidden(ctx echo.Context) error {
	return ctx.JSON(http.StatusForbidden, ErrorResponse{
		Code:    http.StatusForbidden,
		Message: "operation not allowed for this role",
	})
}

func uuidString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func jobPayloadPtr(job *queries.DeliveryJobResponse) *deliveryJobPayload {
	if job == nil {
		return nil
	}
	payload := jobPayload(*job)
	return &payload
}

func jobPayloads(jobs []queries.DeliveryJobResponse) []deliveryJobPayload {
	payloads := make([]deliveryJobPayload, len(jobs))
	for i, job := range jobs {
		payloads[i] = jobPayload(job)
	}
	return payloads
}

func jobPayload(job queries.DeliveryJobResponse) deliveryJobPayload {
	return deliveryJobPayload{
		OrderID:        job.OrderID.String(),
		Code:           job.Code,
		Status:         job.Status,
		Earnings:       int64(job.Earnings),
		DistanceKm:     job.DistanceKm,
		EtaMinutes:     job.EtaMinutes,
		OfferExpiresAt: job.OfferExpiresAt,
		CreatedAt:      job.CreatedAt,
	}
}
