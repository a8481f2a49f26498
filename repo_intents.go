package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// IntentSignals is the store for ingested intent events
type IntentSignals interface {
	CreateTx(ctx context.Context, tx bun.IDB, signal *IntentSignal) (*IntentSignal, error)
	SumScoreByAccountTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID) (float64, error)
	ListRecentByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]IntentSignal, error)
	Count(ctx context.Context) (int, error)
}

type intentSignals struct {
	db *bun.DB
}

var _ IntentSignals = (*intentSignals)(nil)

// NewIntentSignalsRepository creates a Bun backed IntentSignals store
func NewIntentSignalsRepository(db *bun.DB) IntentSignals {
	return &intentSignals{db: db}
}

func (r *intentSignals) CreateTx(ctx context.Context, tx bun.IDB, signal *IntentSignal) (*IntentSignal, error) {
	if signal.ID == uuid.Nil {
		signal.ID = uuid.New()
	}
	if _, err := tx.NewInsert().Model(signal).Exec(ctx); err != nil {
		return nil, err
	}
	return signal, nil
}

// SumScoreByAccountTx aggregates the account's total intent score. Runs inside
// the ingestion transaction so the recomputed score always reflects the signal
// just written.
func (r *intentSignals) SumScoreByAccountTx(ctx context.Context, tx bun.IDB, accountID uuid.UUID) (float64, error) {
	var total float64
	err := tx.NewSelect().
		Model((*IntentSignal)(nil)).
		ColumnExpr("COALESCE(SUM(score), 0.0)").
		Where("account_id = ?", accountID).
		Scan(ctx, &total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *intentSignals) ListRecentByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]IntentSignal, error) {
	records := []IntentSignal{}
	err := r.db.NewSelect().
		Model(&records).
		Where("account_id = ?", accountID).
		Order("occurred_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *intentSignals) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*IntentSignal)(nil)).Count(ctx)
}
