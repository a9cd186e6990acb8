package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/safatanc/checkin-core/internal/app/errors"
	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/safatanc/checkin-core/internal/app/pkg"
	"github.com/safatanc/checkin-core/internal/infrastructures"
)

const principalLocalsKey = "principal"

// Claims are issued by the account service; only tenant, user and role are read.
type Claims struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(cfg *infrastructures.AppConfig) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(cfg.JWTSecret)}
}

// AuthTenant resolves the bearer token into a Principal.
func (m *AuthMiddleware) AuthTenant(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Missing bearer token"))
	}

	principal, err := m.ParseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	c.Locals(principalLocalsKey, principal)

	return c.Next()
}

func (m *AuthMiddleware) ParseToken(tokenString string) (*models.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errors.NewUnauthorizedError("Invalid or expired token")
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, errors.NewUnauthorizedError("Token has no tenant")
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.NewUnauthorizedError("Token has no user")
	}

	return &models.Principal{
		TenantID: tenantID,
		UserID:   userID,
		Role:     claims.Role,
	}, nil
}

// RequireRoles must run after AuthTenant.
func (m *AuthMiddleware) RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := GetPrincipal(c)
		if principal == nil {
			return pkg.ErrorResponse(c, errors.NewUnauthorizedError("User is not authenticated"))
		}
		if !principal.HasRole(roles...) {
			return pkg.ErrorResponse(c, errors.NewForbiddenError("Insufficient permissions"))
		}
		return c.Next()
	}
}

func GetPrincipal(c *fiber.Ctx) *models.Principal {
	principal, _ := c.Locals(principalLocalsKey).(*models.Principal)
	return principal
}

// SignToken issues a token in the shape AuthTenant accepts.
func SignToken(secret string, principal models.Principal, claims jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		TenantID:         principal.TenantID.String(),
		UserID:           principal.UserID.String(),
		Role:             principal.Role,
		RegisteredClaims: claims,
	})
	return token.SignedString([]byte(secret))
}
