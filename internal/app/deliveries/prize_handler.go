package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/checkin-core/internal/app/errors"
	"github.com/safatanc/checkin-core/internal/app/middlewares"
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/safatanc/checkin-core/internal/app/pkg"
	"github.com/safatanc/checkin-core/internal/app/services"
)

type PrizeHandler struct {
	prizeService   *services.PrizeService
	authMiddleware *middlewares.AuthMiddleware
}

func NewPrizeHandler(prizeService *services.PrizeService, authMiddleware *middlewares.AuthMiddleware) *PrizeHandler {
	return &PrizeHandler{
		prizeService:   prizeService,
		authMiddleware: authMiddleware,
	}
}

func (h *PrizeHandler) RegisterRoutes(router fiber.Router) {
	prizeGroup := router.Group("/prizes", h.authMiddleware.AuthTenant)

	prizeGroup.Get("/", h.GetPrizes)
	prizeGroup.Put("/", h.authMiddleware.RequireRoles(models.RoleOwner, models.RoleManager, models.RoleAdmin), h.ReplacePrizes)
}

func (h *PrizeHandler) GetPrizes(c *fiber.Ctx) error {
	principal := middlewares.GetPrincipal(c)

	table := h.prizeService.GetPrizeTable(c.UserContext(), principal.TenantID)

	return pkg.SuccessResponse(c, table)
}

func (h *PrizeHandler) ReplacePrizes(c *fiber.Ctx) error {
	principal := middlewares.GetPrincipal(c)

	var req models.PrizeConfigurationReplaceRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}

	configuration, err := h.prizeService.ReplaceConfiguration(c.UserContext(), principal, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, configuration)
}
