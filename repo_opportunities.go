package crm

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Opportunities is the store for sales opportunities
type Opportunities interface {
	Create(ctx context.Context, opp *Opportunity) (*Opportunity, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Opportunity, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage OpportunityStage) (*Opportunity, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Opportunity, error)
	Count(ctx context.Context) (int, error)
	SumAmountByStage(ctx context.Context, stage OpportunityStage) (float64, error)
}

type opportunities struct {
	db *bun.DB
}

var _ Opportunities = (*opportunities)(nil)

// NewOpportunitiesRepository creates a Bun backed Opportunities store
func NewOpportunitiesRepository(db *bun.DB) Opportunities {
	return &opportunities{db: db}
}

func (r *opportunities) Create(ctx context.Context, opp *Opportunity) (*Opportunity, error) {
	if opp.ID == uuid.Nil {
		opp.ID = uuid.New()
	}
	if _, err := r.db.NewInsert().Model(opp).Exec(ctx); err != nil {
		return nil, err
	}
	return opp, nil
}

func (r *opportunities) GetByID(ctx context.Context, id uuid.UUID) (*Opportunity, error) {
	var opp Opportunity
	err := r.db.NewSelect().
		Model(&opp).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &opp, nil
}

// UpdateStage moves an opportunity to a new pipeline stage and returns the
// updated record
func (r *opportunities) UpdateStage(ctx context.Context, id uuid.UUID, stage OpportunityStage) (*Opportunity, error) {
	res, err := r.db.NewUpdate().
		Model((*Opportunity)(nil)).
		Set("stage = ?", stage).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrRecordNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *opportunities) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]Opportunity, error) {
	records := []Opportunity{}
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

func (r *opportunities) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*Opportunity)(nil)).Count(ctx)
}

func (r *opportunities) SumAmountByStage(ctx context.Context, stage OpportunityStage) (float64, error) {
	var total float64
	err := r.db.NewSelect().
		Model((*Opportunity)(nil)).
		ColumnExpr("COALESCE(SUM(amount), 0.0)").
		Where("stage = ?", stage).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
