package handlers

import (
	"errors"
	"time"

	"quickcred-backend/internal/core/services"
	"quickcred-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService  *services.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

const refreshCookieName = "refresh_token"

// setRefreshCookie stores the refresh token in an httpOnly cookie
func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Strict",
		Path:     "/api/auth",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
}

// clearRefreshCookie expires the refresh token cookie
func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Strict",
		Path:     "/api/auth",
		Expires:  time.Now().Add(-time.Hour),
	})
}

// Register handles user registration
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.FullName == "" || input.Email == "" || input.Phone == "" || input.Password == "" {
		return response.BadRequest(c, "Full name, email, phone and password are required")
	}

	out, err := h.authService.Register(c.UserContext(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken),
			errors.Is(err, services.ErrPhoneTaken),
			errors.Is(err, services.ErrWeakPassword):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to register user")
		}
	}

	h.setRefreshCookie(c, out.Tokens.RefreshToken)
	return response.Created(c, "Registration successful", out)
}

// Login handles user login
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginInput true "Credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Email == "" || input.Password == "" {
		return response.BadRequest(c, "Email and password are required")
	}

	out, err := h.authService.Login(c.UserContext(), &input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Invalid email or password")
		}
		return response.InternalServerError(c, "Failed to log in")
	}

	h.setRefreshCookie(c, out.Tokens.RefreshToken)
	return response.Success(c, "Login successful", out)
}

// refreshTokenFromRequest reads the refresh token from cookie or body
func refreshTokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies(refreshCookieName); token != "" {
		return token
	}

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}

// Refresh handles token refresh
// @Summary Rotate the refresh token and issue a new access token
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := refreshTokenFromRequest(c)
	if token == "" {
		return response.Unauthorized(c, "Refresh token is required")
	}

	out, err := h.authService.Refresh(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, services.ErrRefreshTokenInvalid) {
			h.clearRefreshCookie(c)
			return response.Unauthorized(c, "Refresh token is invalid or expired")
		}
		return response.InternalServerError(c, "Failed to refresh token")
	}

	h.setRefreshCookie(c, out.Tokens.RefreshToken)
	return response.Success(c, "Token refreshed", out)
}

// LogoutAll revokes every refresh token of the authenticated user
// @Summary Revoke all refresh tokens
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := h.authService.LogoutAll(c.UserContext(), userID); err != nil {
		return response.InternalServerError(c, "Failed to log out")
	}

	h.clearRefreshCookie(c)
	return response.Success(c, "Logged out from all sessions", nil)
}

// Logout handles logout
// @Summary Revoke the current refresh token
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := refreshTokenFromRequest(c)
	if err := h.authService.Logout(c.UserContext(), token); err != nil {
		return response.InternalServerError(c, "Failed to log out")
	}

	h.clearRefreshCookie(c)
	return response.Success(c, "Logged out", nil)
}
