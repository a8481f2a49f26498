package crm

import (
	"context"
	"errors"
)

// UserProvider verifies identities against the Users store
type UserProvider struct {
	store  Users
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store Users) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	u.logger = l
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. A missing record and a failed comparison are collapsed into
// ErrMismatchedHashAndPassword before leaving this layer.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, err
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	return authIdentity{
		id:    user.ID.String(),
		email: user.Email,
	}, nil
}

// FindIdentityByIdentifier resolves an identity without checking credentials
func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, identifier)
	if err != nil {
		return nil, err
	}

	return authIdentity{
		id:    user.ID.String(),
		email: user.Email,
	}, nil
}

var _ IdentityProvider = (*UserProvider)(nil)

type authIdentity struct {
	id    string
	email string
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) Email() string {
	return a.email
}

var _ Identity = authIdentity{}
