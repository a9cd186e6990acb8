//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	"github.com/safatanc/checkin-core/internal/app/deliveries"
	"github.com/safatanc/checkin-core/internal/app/middlewares"
	"github.com/safatanc/checkin-core/internal/app/pkg"
	"github.com/safatanc/checkin-core/internal/app/services"
	"github.com/safatanc/checkin-core/internal/infrastructures"
)

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.NewAppConfig,
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewRedisKeyPrefix,
	infrastructures.NewValidator,
	infrastructures.NewImageClient,
	infrastructures.NewObjectStore,
	pkg.NewRandomSource,
	middlewares.NewRedisRateLimiter,
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewAuditService,
	services.NewPrizeCache,
	services.NewPrizeService,
	services.NewPrizeSelector,
	services.NewSubmissionService,
	services.NewImageService,
	services.NewContentService,
	services.NewBrandingService,
	services.NewVehicleService,
	services.NewActionFigureService,
	wire.Bind(new(services.ImageGenerator), new(*services.ImageService)),
	wire.Bind(new(services.BrandingLookup), new(*services.BrandingService)),
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewAuthMiddleware,
	middlewares.NewRateLimitMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewVehicleHandler,
	deliveries.NewPrizeHandler,
	deliveries.NewSubmissionHandler,
	deliveries.NewActionFigureHandler,
	wire.Struct(new(Application), "*"),
)

// InitializeApplication initializes the application with all its dependencies
func InitializeApplication() (*Application, error) {
	wire.Build(
		infrastructureSet,
		serviceSet,
		middlewareSet,
		handlerSet,
	)
	return &Application{}, nil
}
