package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/checkin-core/internal/app/pkg"
	"github.com/safatanc/checkin-core/internal/app/services"
)

type VehicleHandler struct {
	vehicleService *services.VehicleService
}

func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

func (h *VehicleHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/vehicles", h.GetVehicles)
}

func (h *VehicleHandler) GetVehicles(c *fiber.Ctx) error {
	return pkg.SuccessResponse(c, h.vehicleService.GetReference())
}
