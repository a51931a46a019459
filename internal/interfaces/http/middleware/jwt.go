package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/auth"
	"github.com/fintrack/backend/internal/infrastructure/logger"
	"github.com/fintrack/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTOwnerIDKey = "jwt_owner_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticator validates an access token and checks it has not been revoked
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	Authenticator Authenticator
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(authenticator Authenticator) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		Authenticator: authenticator,
		SkipPaths: []string{
			"/health",
			"/api/v1/health",
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		SkipPathPrefixes: []string{
			"/swagger",
		},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(authenticator Authenticator) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(authenticator))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	public := pathSet{exact: cfg.SkipPaths, prefixes: cfg.SkipPathPrefixes}

	return func(c *gin.Context) {
		if public.has(c.Request.URL.Path) {
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			abortWithError(c, dto.ErrCodeUnauthorized, "Missing or malformed authorization header")
			return
		}

		ctx := c.Request.Context()
		claims, err := cfg.Authenticator.Authenticate(ctx, token)
		if err != nil {
			handleAuthError(c, err)
			return
		}
		ownerID, err := claims.OwnerID()
		if err != nil {
			abortWithError(c, dto.ErrCodeTokenInvalid, "Invalid token subject")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTOwnerIDKey, ownerID)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, claims.UserID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

// handleAuthError maps token errors onto the response codes. Anything that is
// not a domain error means the revocation store could not be reached.
func handleAuthError(c *gin.Context, err error) {
	var de *shared.DomainError
	if errors.As(err, &de) {
		code, _ := dto.DomainErrorStatus(de.Code)
		abortWithError(c, code, de.Message)
		return
	}
	logger.L(c.Request.Context()).Error("token revocation check failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	abortWithError(c, dto.ErrCodeServiceUnavailable, "Authentication is temporarily unavailable")
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetOwnerID returns the authenticated user's ID. Every record the request
// touches is scoped to this owner.
func GetOwnerID(c *gin.Context) (uuid.UUID, bool) {
	if v, exists := c.Get(JWTOwnerIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// SetOwnerID stores the owner for handlers mounted without the JWT middleware,
// such as handler tests.
func SetOwnerID(c *gin.Context, ownerID uuid.UUID) {
	c.Set(JWTOwnerIDKey, ownerID)
}
