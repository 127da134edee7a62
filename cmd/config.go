package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string

	NotifierURL      string
	PointsServiceURL string

	OfferTTLSeconds         int
	DeclineExclusion        string
	FallbackCenterLat       float64
	FallbackCenterLng       float64
	FuelPricePerLiter       float64
	FuelConsumptionPerKm    float64
	BaseDeliveryFee         float64
	MaintenanceFactor       float64
	MaxDeliveryDistanceKm   float64
	FreeDeliveryMinSubtotal int64
}
