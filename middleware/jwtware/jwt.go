// Package jwtware is the session guard: a fiber middleware that runs an
// ordered credential extractor chain over the inbound request and validates
// the candidate token before the handler executes. The decision is computed
// fresh on every request.
package jwtware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var (
	defaultTokenLookup = "header:" + fiber.HeaderAuthorization

	// ErrJWTMissingOrMalformed no extractor produced a candidate token
	ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")
)

// TokenValidator interface for validating tokens without import cycles.
// This mirrors the TokenService.Validate method from the crm package.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// AuthClaims interface for structured claims without import cycles.
// This mirrors the AuthClaims interface from the crm package.
type AuthClaims interface {
	Subject() string
	UserID() string
	Email() string
}

type Config struct {
	// Filter defines a function to skip the middleware
	Filter func(*fiber.Ctx) bool
	// ErrorHandler turns a denial into a response
	ErrorHandler fiber.ErrorHandler
	// ContextKey is the Locals key the verified claims are stored under
	ContextKey string
	// TokenLookup is an ordered, comma separated list of extraction sources,
	// e.g. "header:Authorization,cookie:token". Order is the tie-break: the
	// first source to yield a candidate wins.
	TokenLookup string
	// AuthScheme is the header scheme keyword, normally "Bearer"
	AuthScheme string
	// TokenValidator is required for token validation
	TokenValidator TokenValidator
}

// New builds the guard middleware. The handler chain only continues after a
// token is extracted and verified; every failure path goes through
// cfg.ErrorHandler and touches no domain data.
func New(config ...Config) fiber.Handler {
	cfg := GetDefaultConfig(config...)
	extractors := cfg.getExtractors()

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := ExtractRawToken(c, extractors)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)

		return c.Next()
	}
}

// ExtractRawToken tries each extractor in order and returns the first
// candidate token found
func ExtractRawToken(c *fiber.Ctx, extractors []JWTExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(c)
		if raw != "" && err == nil {
			break
		}
	}

	if raw == "" {
		return "", ErrJWTMissingOrMalformed
	}

	return raw, nil
}

func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			if errors.Is(err, ErrJWTMissingOrMalformed) {
				return c.Status(fiber.StatusUnauthorized).
					JSON(fiber.Map{"error": "Unauthorized: missing or invalid token"})
			}
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"error": "Unauthorized: invalid token"})
		}
	}

	if cfg.TokenValidator == nil {
		panic("CRM: JWT middleware configuration: TokenValidator is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "session"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	return cfg
}

func (cfg *Config) getExtractors() []JWTExtractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// GetExtractors parses a token lookup spec into an ordered extractor list
func GetExtractors(tokenLookup string, authSchemes ...string) []JWTExtractor {
	extractors := make([]JWTExtractor, 0)

	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	// header:Authorization,cookie:token
	rootParts := strings.Split(tokenLookup, ",")
	for _, rootPart := range rootParts {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, jwtFromHeader(parts[1], authScheme))
		case "cookie":
			extractors = append(extractors, jwtFromCookie(parts[1]))
		}
	}

	return extractors
}

type JWTExtractor func(c *fiber.Ctx) (string, error)

// jwtFromHeader returns a function that extracts the token from the request
// header. A header carrying the scheme keyword with an empty credential yields
// none; it is not treated as a partial token.
func jwtFromHeader(header string, authScheme string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		a := c.Get(header)
		authScheme = strings.TrimSpace(authScheme)
		l := len(authScheme)
		if l == 0 {
			return "", ErrJWTMissingOrMalformed
		}
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), nil
		}
		return "", ErrJWTMissingOrMalformed
	}
}

// jwtFromCookie returns a function that extracts the token from the named
// cookie, value taken verbatim.
func jwtFromCookie(name string) JWTExtractor {
	return func(c *fiber.Ctx) (string, error) {
		token := c.Cookies(name)
		if token == "" {
			return "", ErrJWTMissingOrMalformed
		}
		return token, nil
	}
}
