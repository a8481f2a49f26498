package crm

import (
	"github.com/gofiber/fiber/v2"
)

// GetSession extracts the verified claims the guard middleware stored for
// this request. Handlers use it for audit fields; the record-management logic
// does not otherwise consume the principal beyond gating.
func GetSession(c *fiber.Ctx, key string) (AuthClaims, error) {
	raw := c.Locals(key)
	if raw == nil {
		return nil, ErrUnableToFindSession
	}

	claims, ok := raw.(AuthClaims)
	if !ok {
		return nil, ErrUnableToDecodeSession
	}

	return claims, nil
}
