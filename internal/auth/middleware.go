package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller together with the
// session token it presented. The password hash on User is never
// serialized; handlers only expose selected fields.
type Principal struct {
	User *domain.User

	// TokenID and ExpiresAt identify the presented token so logout can
	// revoke exactly this session.
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the caller holds the administrator role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.User.IsAdmin()
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens  *TokenManager
	users   repository.UserRepository
	revoked RevocationStore
}

// NewAuthMiddleware constructs middleware. The revocation store may be
// nil, in which case only signature and expiry are checked.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, revoked RevocationStore) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, revoked: revoked}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("no token")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("not authorized")
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(c.Context(), claims.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if revoked {
			return apperrors.NewUnauthorized("not authorized")
		}
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("not authorized")
		}
		return apperrors.MapError(err)
	}

	principal := &Principal{
		User:    user,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
