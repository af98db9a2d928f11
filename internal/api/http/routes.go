package httpapi

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/i474232898/soil-health-map/internal/auth"
	"github.com/i474232898/soil-health-map/internal/soil"
	"github.com/i474232898/soil-health-map/internal/store"
)

var validate = validator.New()

// CropCatalog lists the crop reference data.
type CropCatalog interface {
	CropCatalog(ctx context.Context) ([]store.CropInfo, error)
}

// RecommendationSaver persists recommendations for a farmer.
type RecommendationSaver interface {
	SaveRecommendation(ctx context.Context, farmerID int64, payload json.RawMessage) (uuid.UUID, error)
}

// MapStore serves district geometry and soil aggregates.
type MapStore interface {
	DistrictFeatures(ctx context.Context, state string) (*geojson.FeatureCollection, error)
	DistrictsInBound(ctx context.Context, b orb.Bound) (*geojson.FeatureCollection, error)
	Nearest(ctx context.Context, p orb.Point) (store.NearestDistrict, error)
	StateStats(ctx context.Context, state string) (store.StateStats, error)
	DistrictBounds(ctx context.Context, name, state string) (store.DistrictBounds, error)
	States(ctx context.Context) ([]store.StateSummary, error)
}

// DashboardStore serves the dashboard aggregates.
type DashboardStore interface {
	Dashboard(ctx context.Context, state string, year int) (store.DashboardSummary, error)
	DistrictSummaries(ctx context.Context, state string, year int) ([]store.DistrictSummary, error)
}

// AuthService registers and authenticates farmers.
type AuthService interface {
	TokenVerifier
	Register(ctx context.Context, req auth.RegisterRequest) (store.Farmer, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.Session, error)
}

// Dependencies are the services behind the routes. Recommender is required;
// a nil store leaves its routes unmounted.
type Dependencies struct {
	Recommender *soil.Service
	Crops       CropCatalog
	Saved       RecommendationSaver
	Map         MapStore
	Dashboard   DashboardStore
	Auth        AuthService

	// Now is the clock used for default years; nil means time.Now.
	Now func() time.Time
}

func (d Dependencies) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Options configures NewApp.
type Options struct {
	AppName      string
	AllowOrigins string
	StaticDir    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp creates the Fiber app with the shared middleware and error handler.
func NewApp(opts Options) *fiber.App {
	if opts.AppName == "" {
		opts.AppName = "soil-health-map"
	}
	if opts.AllowOrigins == "" {
		opts.AllowOrigins = "*"
	}

	app := fiber.New(fiber.Config{
		AppName:               opts.AppName,
		DisableStartupMessage: true,
		UnescapePath:          true,
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		ErrorHandler:          ErrorHandler,
	})

	// Global middleware
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	if opts.StaticDir != "" {
		if info, err := os.Stat(opts.StaticDir); err == nil && info.IsDir() {
			app.Static("/", opts.StaticDir)
		}
	}
	return app
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	registerInfoRoutes(app, deps)

	api := app.Group("/api")
	registerRecommendationRoutes(api.Group("/recommendations"), deps)

	if deps.Map != nil {
		registerMapRoutes(api.Group("/map"), deps.Map)
	}
	if deps.Dashboard != nil {
		registerDashboardRoutes(api.Group("/dashboard"), deps)
	}
	if deps.Auth != nil {
		registerAuthRoutes(api.Group("/auth"), deps.Auth)
	}
}
