package handler

import (
	"time"

	"github.com/fintrack/backend/internal/application/identity"
	"github.com/fintrack/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles sign-up, sign-in and session endpoints
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LogoutRequest optionally names the refresh token to revoke with the session
//
//	@Description	Logout request body
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Register godoc
//
//	@ID				registerUser
//	@Summary		Register a new user
//	@Description	Creates the user with default settings and categories and signs them in
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identity.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	APIResponse[identity.AuthResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Login godoc
//
//	@ID				loginUser
//	@Summary		User login
//	@Description	Authenticate with email and password
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identity.LoginRequest	true	"Login credentials"
//	@Success		200		{object}	APIResponse[identity.AuthResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		423		{object}	ErrorResponse
//	@Router			/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Refresh godoc
//
//	@ID				refreshToken
//	@Summary		Refresh access token
//	@Description	Exchange a refresh token for a new token pair. Each refresh token works once.
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		identity.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	APIResponse[identity.AuthResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Router			/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Logout godoc
//
//	@ID				logoutUser
//	@Summary		User logout
//	@Description	Revoke the current access token and, when given, the refresh token
//	@Tags			auth
//	@Accept			json
//	@Param			request	body	LogoutRequest	false	"Refresh token to revoke"
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var req LogoutRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	input := identity.LogoutInput{UserID: ownerID, RefreshToken: req.RefreshToken}
	if claims := middleware.GetJWTClaims(c); claims != nil {
		input.TokenJTI = claims.ID
		if claims.ExpiresAt != nil {
			input.ExpiresAt = claims.ExpiresAt.Time
		} else {
			input.ExpiresAt = time.Now().Add(time.Hour)
		}
	}

	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me godoc
//
//	@ID				getCurrentUser
//	@Summary		Get current user
//	@Tags			auth
//	@Produce		json
//	@Success		200	{object}	APIResponse[identity.UserResponse]
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	resp, err := h.authService.Me(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePassword godoc
//
//	@ID				changePassword
//	@Summary		Change password
//	@Description	Replace the password and sign out every session
//	@Tags			auth
//	@Accept			json
//	@Param			request	body	identity.ChangePasswordRequest	true	"Old and new password"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var req identity.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), ownerID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
