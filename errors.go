package crm

import (
	"errors"
	"strings"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found")

// ErrMismatchedHashAndPassword password does not match the stored hash
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password")

// ErrInvalidCredentials is the single error surfaced for login failures,
// whether the email is unknown or the password is wrong. Callers must not
// be able to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrMissingCredential request carried neither a bearer header nor a cookie
var ErrMissingCredential = errors.New("missing or malformed token")

// ErrInvalidOrExpiredToken token failed signature or expiry verification
var ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

// ErrTokenExpired the token's embedded expiry has passed
var ErrTokenExpired = errors.New("token is expired")

// ErrMissingSigningKey signing secret absent at startup; fatal, the process
// must refuse to serve rather than issue unverifiable tokens
var ErrMissingSigningKey = errors.New("missing signing key")

// ErrUnableToDecodeSession unable to decode claims from a verified token
var ErrUnableToDecodeSession = errors.New("unable to decode session")

// ErrUnableToFindSession is the error when our request has no session
var ErrUnableToFindSession = errors.New("unable to find session")

// ErrNoEmptyString rejects empty secrets before hashing
var ErrNoEmptyString = errors.New("empty string not allowed")

// ErrRecordNotFound is the generic not found error for record lookups
var ErrRecordNotFound = errors.New("record not found")

// ErrDuplicateDomain account domain already registered
var ErrDuplicateDomain = errors.New("account with this domain already exists")

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingCredential) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed")
}
