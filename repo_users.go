package crm

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is a store we can use to retrieve and provision credential records
type Users interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	GetOrCreate(ctx context.Context, user *User) (*User, error)
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository creates a Bun backed Users store
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

// GetByEmail finds a credential record by exact email match
func (r *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := r.db.NewSelect().
		Model(&user).
		Where("email = ?", email).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Create inserts a credential record. Callers hash the secret first; this
// layer never sees plaintext.
func (r *users) Create(ctx context.Context, user *User) (*User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if _, err := r.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

// GetOrCreate returns the existing record for the email, creating it when
// absent. Used by the admin bootstrap path.
func (r *users) GetOrCreate(ctx context.Context, user *User) (*User, error) {
	existing, err := r.GetByEmail(ctx, user.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrIdentityNotFound) {
		return nil, err
	}

	created, err := r.Create(ctx, user)
	if err != nil {
		// lost a race against a concurrent insert, read it back
		if isUniqueViolation(err) {
			return r.GetByEmail(ctx, user.Email)
		}
		return nil, err
	}
	return created, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
