package crm

import (
	"github.com/goliatone/go-crm/middleware/jwtware"
)

// GuardTokenValidator adapts the TokenService to the middleware's validator
// contract. The middleware declares its own claims interface to avoid an
// import cycle, so the signatures differ even though every verified claims
// value satisfies both.
type GuardTokenValidator struct {
	tokenService TokenService
}

// NewGuardTokenValidator creates a validator backed by the given TokenService
func NewGuardTokenValidator(tokenService TokenService) *GuardTokenValidator {
	return &GuardTokenValidator{
		tokenService: tokenService,
	}
}

// Validate implements jwtware.TokenValidator
func (g *GuardTokenValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := g.tokenService.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

var _ jwtware.TokenValidator = (*GuardTokenValidator)(nil)
