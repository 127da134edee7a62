package cmd

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"fulfillment/internal/adapters/out/points"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/realtime"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// CompositionRoot wires adapters into application handlers. Handlers are
// built on demand; shared infrastructure (DB pool, notifier, tariff) is
// built once here.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	tariff     services.Tariff
	dispatcher services.Dispatcher
	offerTTL   time.Duration
	policy     commands.ExclusionPolicy

	notifier *realtime.PushNotifier
	points   ports.PointsClient
	logger   *slog.Logger
}

// NewCompositionRoot builds the object graph from configuration. Fails fast
// on invalid tunables: a bad tariff or fallback center is a deployment
// mistake, not something to discover at request time.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	tariff, err := services.NewTariff(
		config.FuelPricePerLiter,
		config.FuelConsumptionPerKm,
		config.BaseDeliveryFee,
		config.MaintenanceFactor,
		config.MaxDeliveryDistanceKm,
		kernel.Money(config.FreeDeliveryMinSubtotal),
	)
	if err != nil {
		return nil, err
	}

	fallbackCenter, err := kernel.NewGeoPoint(config.FallbackCenterLat, config.FallbackCenterLng)
	if err != nil {
		return nil, err
	}

	dispatcher, err := services.NewDispatcher(fallbackCenter)
	if err != nil {
		return nil, err
	}

	policy := commands.ExclusionPolicy(strings.ToLower(config.DeclineExclusion))
	if policy == "" {
		policy = commands.ExcludeForOrder
	}
	if err = policy.Validate(); err != nil {
		return nil, err
	}

	return &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		tariff:     tariff,
		dispatcher: dispatcher,
		offerTTL:   time.Duration(config.OfferTTLSeconds) * time.Second,
		policy:     policy,
		notifier:   realtime.NewPushNotifier(config.NotifierURL, logger),
		points:     points.NewHTTPPointsClient(config.PointsServiceURL),
		logger:     logger,
	}, nil
}

// Close releases resources owned by the root.
func (c *CompositionRoot) Close() {
	c.notifier.Close()
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.CheckoutUoWFactory = FuncCheckoutUoWFactory(func() commands.CheckoutUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.tariff, c.notifier, c.points, c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() (commands.TransitionOrderCommandHandler, error) {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})

	trigger, err := c.CreateDispatchTrigger()
	if err != nil {
		return commands.TransitionOrderCommandHandler{}, err
	}

	return commands.NewTransitionOrderCommandHandler(f, c.notifier, c.points, trigger, c.logger), nil
}

func (c *CompositionRoot) CreateUpdatePaymentStatusCommandHandler() commands.UpdatePaymentStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdatePaymentStatusCommandHandler(f)
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() (commands.DispatchOrderCommandHandler, error) {
	var f commands.FleetUoWFactory = FuncFleetUoWFactory(func() commands.FleetUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchOrderCommandHandler(f, c.dispatcher, c.offerTTL, c.policy, c.notifier, c.logger)
}

// CreateDispatchTrigger returns the asynchronous dispatch entry point used
// by handlers that need a re-dispatch after their own transaction commits.
func (c *CompositionRoot) CreateDispatchTrigger() (commands.DispatchTrigger, error) {
	handler, err := c.CreateDispatchOrderCommandHandler()
	if err != nil {
		return nil, err
	}
	return &asyncDispatchTrigger{handler: handler, logger: c.logger}, nil
}

func (c *CompositionRoot) CreateAcceptOfferCommandHandler() commands.AcceptOfferCommandHandler {
	var f commands.FleetUoWFactory = FuncFleetUoWFactory(func() commands.FleetUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptOfferCommandHandler(f, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateDeclineOfferCommandHandler() (commands.DeclineOfferCommandHandler, error) {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})

	trigger, err := c.CreateDispatchTrigger()
	if err != nil {
		return commands.DeclineOfferCommandHandler{}, err
	}

	return commands.NewDeclineOfferCommandHandler(f, trigger, c.notifier, c.logger), nil
}

func (c *CompositionRoot) CreateExpireOffersCommandHandler() (commands.ExpireOffersCommandHandler, error) {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})

	trigger, err := c.CreateDispatchTrigger()
	if err != nil {
		return commands.ExpireOffersCommandHandler{}, err
	}

	return commands.NewExpireOffersCommandHandler(f, trigger, c.logger), nil
}

func (c *CompositionRoot) CreateUpdateCourierPositionCommandHandler() commands.UpdateCourierPositionCommandHandler {
	var f commands.FleetUoWFactory = FuncFleetUoWFactory(func() commands.FleetUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateCourierPositionCommandHandler(f, c.notifier, c.logger)
}

func (c *CompositionRoot) CreateSetCourierShiftCommandHandler() commands.SetCourierShiftCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetCourierShiftCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCourierCommandHandler(f)
}

func (c *CompositionRoot) CreateCreateProductCommandHandler() commands.CreateProductCommandHandler {
	var f commands.ProductUoWFactory = FuncProductUoWFactory(func() commands.ProductUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateProductCommandHandler(f)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierDashboardQueryHandler() queries.GetCourierDashboardQueryHandler {
	return queries.NewGetCourierDashboardQueryHandler(c.gormDB)
}

// asyncDispatchTrigger runs dispatch passes in the background so the
// operation that requested the pass returns without waiting for ranking.
type asyncDispatchTrigger struct {
	handler commands.DispatchOrderCommandHandler
	logger  *slog.Logger
}

func (t *asyncDispatchTrigger) TriggerDispatch(orderID kernel.UUID) {
	go func() {
		ctx := context.Background()

		cmd, err := commands.NewDispatchOrderCommand(orderID)
		if err != nil {
			t.logger.ErrorContext(ctx, "dispatch trigger rejected order id",
				"order", orderID.String(), "error", err)
			return
		}

		if err = t.handler.Handle(ctx, cmd); err != nil {
			t.logger.ErrorContext(ctx, "background dispatch pass failed",
				"order", orderID.String(), "error", err)
		}
	}()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncProductUoWFactory func() commands.ProductUoW

func (f FuncProductUoWFactory) Create() commands.ProductUoW {
	return f()
}

type FuncFleetUoWFactory func() commands.FleetUoW

func (f FuncFleetUoWFactory) Create() commands.FleetUoW {
	return f()
}

type FuncCheckoutUoWFactory func() commands.CheckoutUoW

func (f FuncCheckoutUoWFactory) Create() commands.CheckoutUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
