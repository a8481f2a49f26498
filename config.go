package crm

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AppConfig contains service configuration parameters, loaded once at startup.
type AppConfig struct {
	Addr        string `env:"APP_ADDR" envDefault:":3000"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"file:crm.db?cache=shared"`

	SigningKey      string `env:"AUTH_SIGNING_KEY"`
	SigningMethod   string `env:"AUTH_SIGNING_METHOD" envDefault:"HS256"`
	TokenExpiration int    `env:"AUTH_TOKEN_EXPIRATION" envDefault:"168"`
	ContextKey      string `env:"AUTH_CONTEXT_KEY" envDefault:"session"`
	CookieName      string `env:"AUTH_COOKIE_NAME" envDefault:"token"`
	TokenLookup     string `env:"AUTH_TOKEN_LOOKUP" envDefault:"header:Authorization,cookie:token"`
	AuthScheme      string `env:"AUTH_SCHEME" envDefault:"Bearer"`

	// OpenIntentIngestion leaves POST /api/intent outside the session guard so
	// external signal providers can write without credentials. Off by default;
	// opening the channel is a deliberate operator decision.
	OpenIntentIngestion bool `env:"AUTH_OPEN_INTENT_INGESTION" envDefault:"false"`

	AdminEmail    string `env:"AUTH_ADMIN_EMAIL"`
	AdminPassword string `env:"AUTH_ADMIN_PASSWORD"`
}

var _ Config = (*AppConfig)(nil)

// LoadConfig loads configuration from environment variables and validates it.
// A missing signing key is a startup error: the process must refuse to start
// rather than issue unverifiable tokens.
func LoadConfig() (*AppConfig, error) {
	cfg := AppConfig{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate enforces startup invariants
func (c *AppConfig) Validate() error {
	if c.SigningKey == "" {
		return ErrMissingSigningKey
	}
	if c.TokenExpiration <= 0 {
		return fmt.Errorf("token expiration must be positive, got %d", c.TokenExpiration)
	}
	return nil
}

func (c *AppConfig) GetSigningKey() string { return c.SigningKey }

func (c *AppConfig) GetSigningMethod() string { return c.SigningMethod }

func (c *AppConfig) GetContextKey() string { return c.ContextKey }

func (c *AppConfig) GetCookieName() string { return c.CookieName }

func (c *AppConfig) GetTokenLookup() string { return c.TokenLookup }

func (c *AppConfig) GetAuthScheme() string { return c.AuthScheme }

// GetTokenExpiration is the token validity window in hours. The session
// cookie max-age derives from the same value so the two stay in lockstep.
func (c *AppConfig) GetTokenExpiration() int { return c.TokenExpiration }

// IsProduction drives the cookie Secure attribute
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}
