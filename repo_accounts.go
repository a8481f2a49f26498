package crm

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountFilter narrows account listings
type AccountFilter struct {
	// Query matches name or domain as a case-insensitive substring
	Query string
	// Industry is an exact, case-insensitive match
	Industry string
}

// Accounts is the store for account records
type Accounts interface {
	List(ctx context.Context, filter AccountFilter) ([]Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetByDomain(ctx context.Context, domain string) (*Account, error)
	Create(ctx context.Context, account *Account) (*Account, error)
	CreateTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error)
	GetOrCreateByDomainTx(ctx context.Context, tx bun.IDB, domain string) (*Account, error)
	SetIntentScoreTx(ctx context.Context, tx bun.IDB, id uuid.UUID, score float64) error
	Count(ctx context.Context) (int, error)
}

type accounts struct {
	db *bun.DB
}

var _ Accounts = (*accounts)(nil)

// NewAccountsRepository creates a Bun backed Accounts store
func NewAccountsRepository(db *bun.DB) Accounts {
	return &accounts{db: db}
}

func (r *accounts) List(ctx context.Context, filter AccountFilter) ([]Account, error) {
	records := []Account{}

	q := r.db.NewSelect().
		Model(&records).
		Column("id", "name", "domain", "industry", "intent_score")

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		q = q.WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				Where("lower(name) LIKE lower(?)", pattern).
				WhereOr("lower(domain) LIKE lower(?)", pattern)
		})
	}

	if filter.Industry != "" {
		q = q.Where("lower(industry) = lower(?)", filter.Industry)
	}

	if err := q.Order("name ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *accounts) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	var account Account
	err := r.db.NewSelect().
		Model(&account).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accounts) GetByDomain(ctx context.Context, domain string) (*Account, error) {
	var account Account
	err := r.db.NewSelect().
		Model(&account).
		Where("domain = ?", domain).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accounts) Create(ctx context.Context, account *Account) (*Account, error) {
	return r.CreateTx(ctx, r.db, account)
}

func (r *accounts) CreateTx(ctx context.Context, tx bun.IDB, account *Account) (*Account, error) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if _, err := tx.NewInsert().Model(account).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateDomain
		}
		return nil, err
	}
	return account, nil
}

// GetOrCreateByDomainTx returns the account registered for the domain,
// provisioning a bare record (name = domain) when none exists. This is the
// ingestion path's upsert.
func (r *accounts) GetOrCreateByDomainTx(ctx context.Context, tx bun.IDB, domain string) (*Account, error) {
	var account Account
	err := tx.NewSelect().
		Model(&account).
		Where("domain = ?", domain).
		Scan(ctx)
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	account = Account{
		ID:     uuid.New(),
		Name:   domain,
		Domain: domain,
	}
	if _, err := tx.NewInsert().Model(&account).Exec(ctx); err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accounts) SetIntentScoreTx(ctx context.Context, tx bun.IDB, id uuid.UUID, score float64) error {
	_, err := tx.NewUpdate().
		Model((*Account)(nil)).
		Set("intent_score = ?", score).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *accounts) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Account)(nil)).Count(ctx)
}
