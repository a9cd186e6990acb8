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

type SubmissionHandler struct {
	submissionService   *services.SubmissionService
	auditService        *services.AuditService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewSubmissionHandler(submissionService *services.SubmissionService, auditService *services.AuditService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService:   submissionService,
		auditService:        auditService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *SubmissionHandler) RegisterRoutes(router fiber.Router) {
	auth := h.authMiddleware.AuthTenant

	// Kiosk flow
	router.Post("/submit", auth, h.rateLimitMiddleware.LimitByIP("submit", ratelimit.CheckInLimit), h.Submit)
	router.Post("/spin", auth, h.rateLimitMiddleware.LimitByIP("spin", ratelimit.SpinLimit), h.Spin)

	// Front desk and dashboards
	staff := h.rateLimitMiddleware.LimitByUser("staff", ratelimit.StaffAPILimit)
	router.Post("/redeem", auth, staff, h.Redeem)
	router.Get("/validate/:code", auth, staff, h.Validate)
	router.Get("/submissions", auth, staff, h.GetSubmissions)
	router.Get("/submissions/:id", auth, staff, h.GetSubmission)
	router.Get("/submissions/:id/history", auth, staff, h.GetSubmissionHistory)
	router.Get("/stats", auth, staff, h.GetStats)
}

func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	principal := middlewares.GetPrincipal(c)

	var req models.CheckInSubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}

	submission, err := h.submissionService.Submit(c.UserContext(), principal.TenantID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, submission)
}

func (h *SubmissionHandler) Spin(c *fiber.Ctx) error {
	principal := middlewares.GetPrincipal(c)

	var req models.SpinRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}

	result, err := h.submissionService.Spin(c.UserContext(), principal.TenantID, req.SubmissionID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}

func (h *SubmissionHandler) Redeem(c *fiber.Ctx) error {
	principal := middlewares.GetPrincipal(c)

	var req models.RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid request body"))
	}

	submission, err := h.submissionService.Redeem(c.UserContext(), principal, req.ValidationCode)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, submission)
}

// Validate never mutates; the status code mirrors what Redeem would answer.
func (h *SubmissionHandler) Validate(c *fiber.Ctx) error {
	principal := middlewares.GetPrincipal(c)

	result, err := h.submissionService.Validate(c.UserContext(), principal.TenantID, c.Params("code"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	status := fiber.StatusOK
	switch result.Status {
	case models.ValidationStatusInvalidCode:
		status = fiber.StatusNotFound
	case models.ValidationStatusAlreadyRedeemed, models.ValidationStatusNoPrize:
		status = fiber.StatusConflict
	}

	return pkg.StatusResponse(c, status, result.Error, result)
}

func (h *SubmissionHandler) GetSubmissions(c *fiber.Ctx) error {
	principal := middlewares.GetPrincipal(c)

	var req models.SubmissionListRequest
	if err := c.QueryParser(&req); err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid query parameters"))
	}

	submissions, err := h.submissionService.ListSubmissions(c.UserContext(), principal.TenantID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, submissions)
}

func (h *SubmissionHandler) GetSubmission(c *fiber.Ctx) error {
	principal := middlewares.GetPrincipal(c)

	submission, err := h.submissionService.GetSubmission(c.UserContext(), principal.TenantID, c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, submission)
}

func (h *SubmissionHandler) GetSubmissionHistory(c *fiber.Ctx) error {
	principal := middlewares.GetPrincipal(c)

	submission, err := h.submissionService.GetSubmission(c.UserContext(), principal.TenantID, c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	history, err := h.auditService.GetRecordHistory(c.UserContext(), principal.TenantID, submission.ID.String())
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, history)
}

func (h *SubmissionHandler) GetStats(c *fiber.Ctx) error {
	principal := middlewares.GetPrincipal(c)

	stats, err := h.submissionService.GetStats(c.UserContext(), principal.TenantID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, stats)
}
