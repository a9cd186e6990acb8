package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/safatanc/checkin-core/internal/app/errors"
	"github.com/safatanc/checkin-core/internal/app/middlewares"
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/safatanc/checkin-core/internal/app/pkg"
	"github.com/safatanc/checkin-core/internal/app/services"
	"github.com/safatanc/checkin-core/pkg/ratelimit"
)

type ActionFigureHandler struct {
	actionFigureService *services.ActionFigureService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewActionFigureHandler(actionFigureService *services.ActionFigureService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *ActionFigureHandler {
	return &ActionFigureHandler{
		actionFigureService: actionFigureService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *ActionFigureHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/generate",
		h.authMiddleware.AuthTenant,
		h.rateLimitMiddleware.LimitByUser("generate", ratelimit.GenerateLimit),
		h.Generate,
	)
}

func (h *ActionFigureHandler) Generate(c *fiber.Ctx) error {
	principal := middlewares.GetPrincipal(c)

	var req models.ActionFigureRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}

	result, err := h.actionFigureService.Generate(c.UserContext(), principal, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, result)
}
