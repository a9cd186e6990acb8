package injector

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/checkin-core/internal/app/deliveries"
	"github.com/safatanc/checkin-core/internal/infrastructures"
	"gorm.io/gorm"
)

// Application represents the main application container for checkin-core
type Application struct {
	Config              *infrastructures.AppConfig
	DB                  *gorm.DB
	HealthHandler       *deliveries.HealthHandler
	VehicleHandler      *deliveries.VehicleHandler
	PrizeHandler        *deliveries.PrizeHandler
	SubmissionHandler   *deliveries.SubmissionHandler
	ActionFigureHandler *deliveries.ActionFigureHandler
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	app.HealthHandler.RegisterRoutes(router)

	checkInToWin := router.Group("/api/check-in-to-win")
	app.VehicleHandler.RegisterRoutes(checkInToWin)
	app.PrizeHandler.RegisterRoutes(checkInToWin)
	app.SubmissionHandler.RegisterRoutes(checkInToWin)
	app.ActionFigureHandler.RegisterRoutes(checkInToWin)
}
