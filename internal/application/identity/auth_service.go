package identity

import (
	"context"
	"errors"
	"time"

	"github.com/fintrack/backend/internal/domain/identity"
	"github.com/fintrack/backend/internal/domain/shared"
	"github.com/fintrack/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
	// SessionTTL bounds the user-wide revocation marker; use the refresh token lifetime
	SessionTTL time.Duration
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
		SessionTTL:       7 * 24 * time.Hour,
	}
}

// Onboarder prepares the per-user records a new account starts with
type Onboarder interface {
	EnsureDefaults(ctx context.Context, ownerID uuid.UUID) error
}

// OnboarderFunc adapts a function to Onboarder
type OnboarderFunc func(ctx context.Context, ownerID uuid.UUID) error

// EnsureDefaults calls f
func (f OnboarderFunc) EnsureDefaults(ctx context.Context, ownerID uuid.UUID) error {
	return f(ctx, ownerID)
}

var (
	ErrEmailTaken    = shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	ErrAccountLocked = shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
	ErrTokenInvalid  = shared.NewDomainError("TOKEN_INVALID", "Invalid or revoked token")
	ErrTokenExpired  = shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
)

// AuthService handles registration, sign-in and token lifecycle
type AuthService struct {
	userRepo       identity.UserRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	onboarders     []Onboarder
	eventPublisher shared.EventPublisher
	config         AuthServiceConfig
	logger         *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
	onboarders ...Onboarder,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		onboarders: onboarders,
		config:     config,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Register creates the user, seeds their defaults and signs them in
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	user, err := identity.NewUser(req.Email, req.DisplayName, req.Password)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	for _, o := range s.onboarders {
		if err := o.EnsureDefaults(ctx, user.ID); err != nil {
			// the user exists; settings reads fall back to defaults
			s.logger.Error("Failed to seed defaults for new user",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	shared.PublishEvents(ctx, s.eventPublisher, user)
	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))

	return toAuthResponse(pair, user), nil
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email")
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		s.logger.Warn("Login attempt for unavailable account",
			zap.String("user_id", user.ID.String()),
			zap.String("status", string(user.Status)))
		if user.IsLocked() {
			return nil, ErrAccountLocked
		}
		return nil, identity.ErrInvalidCredentials
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", user.FailedAttempts))
			return nil, ErrAccountLocked
		}
		s.logger.Warn("Invalid password attempt",
			zap.String("user_id", user.ID.String()),
			zap.Int("failed_attempts", user.FailedAttempts))
		return nil, identity.ErrInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		// don't fail the login, just log
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return toAuthResponse(pair, user), nil
}

// Refresh rotates a refresh token. The presented token is revoked so it can
// be used only once.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, _ := claims.OwnerID()
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, ErrTokenInvalid
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return nil, err
	}

	return toAuthResponse(pair, nil), nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if err := shared.RequireOwner(input.UserID); err != nil {
		return err
	}
	if input.TokenJTI != "" {
		if err := s.blacklist.Revoke(ctx, input.TokenJTI, time.Until(input.ExpiresAt)); err != nil {
			return err
		}
	}
	if input.RefreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
		if err == nil && claims.UserID == input.UserID.String() {
			if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
				return err
			}
		}
	}
	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// Me returns the signed-in user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	if err := shared.RequireOwner(userID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the password and signs out every session
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	if err := shared.RequireOwner(userID); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	if err := s.blacklist.RevokeUser(ctx, userID.String(), s.config.SessionTTL); err != nil {
		return err
	}

	shared.PublishEvents(ctx, s.eventPublisher, user)
	s.logger.Info("User password changed", zap.String("user_id", userID.String()))
	return nil
}

// Authenticate validates an access token for the HTTP middleware, including
// revocation checks
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenInvalid
	}
	revoked, err = s.blacklist.IssuedBeforeRevocation(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenInvalid
	}
	return nil
}

func mapTokenError(err error) error {
	if errors.Is(err, auth.ErrExpiredToken) {
		return ErrTokenExpired
	}
	return ErrTokenInvalid
}
