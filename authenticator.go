package crm

import (
	"context"
)

// Auther orchestrates credential verification and token issuance. It holds no
// per-request state; every Login call is an independent computation.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, cfg Config) *Auther {
	tokenService := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login validates the principal's credentials and on success mints a session
// token. Unknown identifier and wrong password surface as the same
// ErrInvalidCredentials so the caller cannot enumerate accounts.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, Identity, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		// which check failed stays server-side
		s.logger.Error("Login verify identity error: %v", err)
		return "", nil, ErrInvalidCredentials
	}

	if identity == nil {
		s.logger.Error("Login identity is nil")
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenService.Generate(identity)
	if err != nil {
		s.logger.Error("Login token generation error: %v", err)
		return "", nil, err
	}

	return token, identity, nil
}

var _ Authenticator = (*Auther)(nil)
