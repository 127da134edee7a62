package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/sync/errgroup"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres/courierrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/productrepo"
	"fulfillment/internal/jobs"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config := getConfigs(logger)

	db, err := openDatabase(config)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	root, err := cmd.NewCompositionRoot(config, db, logger)
	if err != nil {
		logger.Error("composition root failed", "error", err)
		os.Exit(1)
	}
	defer root.Close()

	if err = run(config, root, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(config cmd.Config, root *cmd.CompositionRoot, logger *slog.Logger) error {
	transitionHandler, err := root.CreateTransitionOrderCommandHandler()
	if err != nil {
		return err
	}
	declineHandler, err := root.CreateDeclineOfferCommandHandler()
	if err != nil {
		return err
	}
	expireHandler, err := root.CreateExpireOffersCommandHandler()
	if err != nil {
		return err
	}

	server := httpin.NewServer(
		root.CreatePlaceOrderCommandHandler(),
		transitionHandler,
		root.CreateUpdatePaymentStatusCommandHandler(),
		root.CreateAcceptOfferCommandHandler(),
		declineHandler,
		root.CreateUpdateCourierPositionCommandHandler(),
		root.CreateSetCourierShiftCommandHandler(),
		root.CreateCreateCourierCommandHandler(),
		root.CreateCreateProductCommandHandler(),
		root.CreateGetOrderQueryHandler(),
		root.CreateGetActiveOrdersQueryHandler(),
		root.CreateGetCustomerOrdersQueryHandler(),
		root.CreateGetCourierDashboardQueryHandler(),
		logger,
	)

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.OFF)
	e.Use(middleware.Recover())
	server.RegisterRoutes(e, config.JWTSecret)

	jobManager := jobs.NewJobManager(expireHandler, logger)
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort))
	})

	group.Go(func() error {
		<-groupCtx.Done()
		return e.Shutdown(context.Background())
	})

	return group.Wait()
}

func openDatabase(config cmd.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.OrderDeclineDTO{},
		&courierrepo.CourierDTO{},
		&productrepo.ProductDTO{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func getConfigs(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Warn("no .env file loaded, relying on process environment")
	}

	return cmd.Config{
		HTTPPort:   envString("HTTP_PORT", "8080"),
		DBHost:     envString("DB_HOST", "localhost"),
		DBPort:     envString("DB_PORT", "5432"),
		DBUser:     envString("DB_USER", "postgres"),
		DBPassword: envString("DB_PASSWORD", "postgres"),
		DBName:     envString("DB_NAME", "fulfillment"),
		DBSslMode:  envString("DB_SSLMODE", "disable"),

		JWTSecret: envString("JWT_SECRET", ""),

		NotifierURL:      envString("NOTIFIER_URL", "http://localhost:4000"),
		PointsServiceURL: envString("POINTS_SERVICE_URL", "http://localhost:4100"),

		OfferTTLSeconds:         envInt("OFFER_TTL_SECONDS", 30),
		DeclineExclusion:        envString("DECLINE_EXCLUSION", "order"),
		FallbackCenterLat:       envFloat("FALLBACK_CENTER_LAT", -33.4489),
		FallbackCenterLng:       envFloat("FALLBACK_CENTER_LNG", -70.6693),
		FuelPricePerLiter:       envFloat("FUEL_PRICE_PER_LITER", 1300),
		FuelConsumptionPerKm:    envFloat("FUEL_CONSUMPTION_PER_KM", 0.06),
		BaseDeliveryFee:         envFloat("BASE_DELIVERY_FEE", 500),
		MaintenanceFactor:       envFloat("MAINTENANCE_FACTOR", 1.2),
		MaxDeliveryDistanceKm:   envFloat("MAX_DELIVERY_DISTANCE_KM", 12),
		FreeDeliveryMinSubtotal: int64(envInt("FREE_DELIVERY_MIN_SUBTOTAL", 25000)),
	}
}

func envString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
