package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Contacts is the store for contact records
type Contacts interface {
	Create(ctx context.Context, contact *Contact) (*Contact, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Contact, error)
}

type contacts struct {
	db *bun.DB
}

var _ Contacts = (*contacts)(nil)

// NewContactsRepository creates a Bun backed Contacts store
func NewContactsRepository(db *bun.DB) Contacts {
	return &contacts{db: db}
}

func (r *contacts) Create(ctx context.Context, contact *Contact) (*Contact, error) {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	if _, err := r.db.NewInsert().Model(contact).Exec(ctx); err != nil {
		return nil, err
	}
	return contact, nil
}

func (r *contacts) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Contact, error) {
	records := []Contact{}
	err := r.db.NewSelect().
		Model(&records).
		Where("account_id = ?", accountID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
