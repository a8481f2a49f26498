package crm

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// RepositoryManager bundles the stores behind a single dependency
type RepositoryManager interface {
	Users() Users
	Accounts() Accounts
	Contacts() Contacts
	Opportunities() Opportunities
	IntentSignals() IntentSignals
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Validate() error
}

type mngr struct {
	db            *bun.DB
	users         Users
	accounts      Accounts
	contacts      Contacts
	opportunities Opportunities
	intentSignals IntentSignals
}

// NewRepositoryManager wires the Bun backed stores
func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:            db,
		users:         NewUsersRepository(db),
		accounts:      NewAccountsRepository(db),
		contacts:      NewContactsRepository(db),
		opportunities: NewOpportunitiesRepository(db),
		intentSignals: NewIntentSignalsRepository(db),
	}
}

func (m *mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}
	if m.accounts == nil {
		return errors.New("repository accounts should be initialized")
	}
	if m.contacts == nil {
		return errors.New("repository contacts should be initialized")
	}
	if m.opportunities == nil {
		return errors.New("repository opportunities should be initialized")
	}
	if m.intentSignals == nil {
		return errors.New("repository intentSignals should be initialized")
	}
	return nil
}

func (m *mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m *mngr) Users() Users                 { return m.users }
func (m *mngr) Accounts() Accounts           { return m.accounts }
func (m *mngr) Contacts() Contacts           { return m.contacts }
func (m *mngr) Opportunities() Opportunities { return m.opportunities }
func (m *mngr) IntentSignals() IntentSignals { return m.intentSignals }

// CreateSchema creates the backing tables when they do not exist yet
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*User)(nil),
		(*Account)(nil),
		(*Contact)(nil),
		(*Opportunity)(nil),
		(*IntentSignal)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
