package server

import (
	"github.com/gofiber/fiber/v2"

	"github.com/naturkart/naturkart/auth"
)

// AuthController exposes the login handshake endpoints. The actual code
// exchange and user sync live in auth.Auther; the controller only shapes
// the HTTP surface.
type AuthController struct {
	Provider    *auth.Keycloak
	Auther      *auth.Auther
	RedirectURI string
	FrontendURL string
	Logger      auth.Logger
}

func (ctrl *AuthController) Register(router fiber.Router) {
	router.Get("/auth/login-url", ctrl.LoginURL)
	router.Post("/auth/callback", ctrl.Callback)
	router.Get("/auth/logout-url", ctrl.LogoutURL)
}

// LoginURL hands the frontend the provider authorization URL to redirect to.
func (ctrl *AuthController) LoginURL(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"url": ctrl.Provider.AuthCodeURL(ctrl.RedirectURI),
	})
}

// Callback finishes the code flow: the frontend posts back the single-use
// authorization code it received from the provider, and gets a session
// token in return.
func (ctrl *AuthController) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return detail(c, fiber.StatusBadRequest, "Missing authorization code")
	}

	result, err := ctrl.Auther.ResolveLogin(c.UserContext(), code, ctrl.RedirectURI)
	if err != nil {
		loginsTotal.WithLabelValues("error").Inc()
		ctrl.Logger.Warn("login failed: %v", err)
		return respondError(c, err)
	}

	loginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(result)
}

// LogoutURL hands the frontend the provider logout URL, which ends the
// provider session and redirects back to the app.
func (ctrl *AuthController) LogoutURL(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"url": ctrl.Provider.LogoutURL(ctrl.FrontendURL),
	})
}

// MeController serves the authenticated user's own record.
type MeController struct{}

func (ctrl *MeController) Register(router fiber.Router, requireAuth fiber.Handler) {
	router.Get("/auth/me", requireAuth, ctrl.Me)
}

func (ctrl *MeController) Me(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return respondError(c, auth.ErrInvalidToken)
	}
	return c.JSON(user)
}
