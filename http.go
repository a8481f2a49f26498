package crm

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-crm/middleware/jwtware"
)

// RouteController owns the HTTP side of the session lifecycle: cookie
// issuance on login, cookie deletion on logout, the protected route
// middleware, and the navigation redirect gate.
type RouteController struct {
	auth           Authenticator
	cfg            Config
	cookieDuration time.Duration
	Logger         Logger
}

// NewRouteController creates the controller. The cookie duration derives from
// the same config value as the token expiry so the two cannot drift apart.
func NewRouteController(auther Authenticator, cfg Config) (*RouteController, error) {
	cookieDuration := 24 * time.Hour
	if cfg.GetTokenExpiration() > 0 {
		cookieDuration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
	}

	return &RouteController{
		cfg:            cfg,
		auth:           auther,
		cookieDuration: cookieDuration,
		Logger:         defLogger{},
	}, nil
}

// GetCookieDuration returns the session cookie lifetime
func (a *RouteController) GetCookieDuration() time.Duration {
	return a.cookieDuration
}

// ProtectedRoute builds the session guard middleware for API routes
func (a *RouteController) ProtectedRoute(errorHandler fiber.ErrorHandler) fiber.Handler {
	return jwtware.New(jwtware.Config{
		ErrorHandler:   errorHandler,
		ContextKey:     a.cfg.GetContextKey(),
		TokenLookup:    a.cfg.GetTokenLookup(),
		AuthScheme:     a.cfg.GetAuthScheme(),
		TokenValidator: NewGuardTokenValidator(a.auth.TokenService()),
	})
}

// Login authenticates the payload and, on success, attaches the minted token
// as an HTTP-only session cookie. The token is returned for API clients that
// prefer the bearer header.
func (a *RouteController) Login(c *fiber.Ctx, identifier, password string) (string, Identity, error) {
	token, identity, err := a.auth.Login(c.UserContext(), identifier, password)
	if err != nil {
		return "", nil, err
	}

	a.setCookieToken(c, token, a.cookieDuration)
	return token, identity, nil
}

// Logout clears the session cookie. Stateless tokens cannot be revoked
// server-side; discarding the client copy is the whole operation.
func (a *RouteController) Logout(c *fiber.Ctx) {
	a.cookieDel(c, a.cfg.GetCookieName())
}

// RedirectGate is a cheap pre-handler check for browser navigation. It
// inspects cookie presence only, never validity: absence on a protected page
// redirects to the login page, presence on the login page redirects to the
// default landing page. It is a UX convenience, not a security boundary;
// data-returning endpoints always pass ProtectedRoute as well.
func (a *RouteController) RedirectGate(loginPath, landingPath string, protectedPrefixes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}

		hasCookie := c.Cookies(a.cfg.GetCookieName()) != ""
		path := c.Path()

		if hasCookie && path == loginPath {
			return c.Redirect(landingPath, fiber.StatusSeeOther)
		}

		if !hasCookie {
			for _, prefix := range protectedPrefixes {
				if strings.HasPrefix(path, prefix) {
					return c.Redirect(loginPath, fiber.StatusSeeOther)
				}
			}
		}

		return c.Next()
	}
}

func (a *RouteController) setCookieToken(c *fiber.Ctx, val string, duration time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     a.cfg.GetCookieName(),
		Value:    val,
		Path:     "/",
		Expires:  time.Now().Add(duration),
		MaxAge:   int(duration.Seconds()),
		HTTPOnly: true,
		Secure:   a.cfg.IsProduction(),
		SameSite: "Lax",
	})
}

func (a *RouteController) cookieDel(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   a.cfg.IsProduction(),
		SameSite: "Lax",
	})
}
