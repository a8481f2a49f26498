package crm

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
)

// AuthControllerRoutes are the navigation paths the controller serves
type AuthControllerRoutes struct {
	Login   string
	Logout  string
	Landing string
}

// AuthController exposes the login flow over HTTP
type AuthController struct {
	Logger Logger
	Auther *RouteController
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(auther *RouteController, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Auther: auther,
		Routes: &AuthControllerRoutes{
			Login:   "/login",
			Logout:  "/logout",
			Landing: "/accounts",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing RouteController in auth controller...")
	}

	return c
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will validate the payload
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginShow renders the login page
func (a *AuthController) LoginShow(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"errors": nil,
	})
}

// LoginPost handles the login endpoint. Success sets the session cookie and
// returns the token with the principal's public fields. Every failure is the
// same generic unauthorized response; the cause is only logged server-side.
func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}

	if err := payload.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}

	token, identity, err := a.Auther.Login(c, payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("login rejected: %v", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user": fiber.Map{
			"id":    identity.ID(),
			"email": identity.Email(),
		},
	})
}

// LogOut clears the session cookie and sends the browser back to login
func (a *AuthController) LogOut(c *fiber.Ctx) error {
	a.Auther.Logout(c)
	return c.Redirect(a.Routes.Login, fiber.StatusSeeOther)
}
