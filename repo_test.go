package crm_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	crm "github.com/goliatone/go-crm"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// newTestDB opens a private in memory database with the schema applied. The
// DSN is unique per call so parallel tests never share state.
func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, crm.CreateSchema(context.Background(), db))

	t.Cleanup(func() { db.Close() })

	return db
}

func newTestRepo(t *testing.T) crm.RepositoryManager {
	t.Helper()

	repo := crm.NewRepositoryManager(newTestDB(t))
	require.NoError(t, repo.Validate())
	return repo
}

func TestUsersRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("get by email missing", func(t *testing.T) {
		_, err := repo.Users().GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, crm.ErrIdentityNotFound)
	})

	t.Run("get or create is idempotent", func(t *testing.T) {
		first, err := repo.Users().GetOrCreate(ctx, &crm.User{
			Email:        "admin@example.com",
			PasswordHash: "fake-hash",
		})
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, first.ID)

		second, err := repo.Users().GetOrCreate(ctx, &crm.User{
			Email:        "admin@example.com",
			PasswordHash: "another-hash",
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "fake-hash", second.PasswordHash)
	})
}

func TestAccountsRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	acme, err := repo.Accounts().Create(ctx, &crm.Account{
		Name: "Acme Corp", Domain: "acme.com", Industry: "Manufacturing",
	})
	require.NoError(t, err)

	_, err = repo.Accounts().Create(ctx, &crm.Account{
		Name: "Globex Inc", Domain: "globex.com", Industry: "SaaS",
	})
	require.NoError(t, err)

	t.Run("duplicate domain", func(t *testing.T) {
		_, err := repo.Accounts().Create(ctx, &crm.Account{
			Name: "Acme Again", Domain: "acme.com",
		})
		assert.ErrorIs(t, err, crm.ErrDuplicateDomain)
	})

	t.Run("get by id", func(t *testing.T) {
		found, err := repo.Accounts().GetByID(ctx, acme.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", found.Name)

		_, err = repo.Accounts().GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, crm.ErrRecordNotFound)
	})

	t.Run("list unfiltered", func(t *testing.T) {
		records, err := repo.Accounts().List(ctx, crm.AccountFilter{})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("query matches name or domain, case insensitive", func(t *testing.T) {
		byName, err := repo.Accounts().List(ctx, crm.AccountFilter{Query: "acme"})
		require.NoError(t, err)
		require.Len(t, byName, 1)
		assert.Equal(t, "acme.com", byName[0].Domain)

		byDomain, err := repo.Accounts().List(ctx, crm.AccountFilter{Query: "GLOBEX.COM"})
		require.NoError(t, err)
		require.Len(t, byDomain, 1)
		assert.Equal(t, "Globex Inc", byDomain[0].Name)

		none, err := repo.Accounts().List(ctx, crm.AccountFilter{Query: "umbrella"})
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("industry filter", func(t *testing.T) {
		records, err := repo.Accounts().List(ctx, crm.AccountFilter{Industry: "saas"})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "globex.com", records[0].Domain)
	})

	t.Run("count", func(t *testing.T) {
		n, err := repo.Accounts().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestGetOrCreateByDomain(t *testing.T) {
	db := newTestDB(t)
	repo := crm.NewRepositoryManager(db)
	ctx := context.Background()

	t.Run("provisions a bare record", func(t *testing.T) {
		account, err := repo.Accounts().GetOrCreateByDomainTx(ctx, db, "initech.io")
		require.NoError(t, err)
		assert.Equal(t, "initech.io", account.Domain)
		// the domain doubles as the name until someone renames it
		assert.Equal(t, "initech.io", account.Name)
	})

	t.Run("returns the existing record on the second call", func(t *testing.T) {
		first, err := repo.Accounts().GetOrCreateByDomainTx(ctx, db, "initech.io")
		require.NoError(t, err)

		second, err := repo.Accounts().GetOrCreateByDomainTx(ctx, db, "initech.io")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})
}

func TestIntentScoreAggregation(t *testing.T) {
	db := newTestDB(t)
	repo := crm.NewRepositoryManager(db)
	ctx := context.Background()

	ingest := func(domain string, score float64) (uuid.UUID, float64) {
		var accountID uuid.UUID
		var total float64

		err := repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			account, err := repo.Accounts().GetOrCreateByDomainTx(ctx, tx, domain)
			if err != nil {
				return err
			}
			accountID = account.ID

			if _, err := repo.IntentSignals().CreateTx(ctx, tx, &crm.IntentSignal{
				AccountID:  account.ID,
				SignalType: "PAGE_VIEW",
				Score:      score,
				OccurredAt: time.Now().UTC(),
			}); err != nil {
				return err
			}

			total, err = repo.IntentSignals().SumScoreByAccountTx(ctx, tx, account.ID)
			if err != nil {
				return err
			}

			return repo.Accounts().SetIntentScoreTx(ctx, tx, account.ID, total)
		})
		require.NoError(t, err)

		return accountID, total
	}

	id1, total := ingest("acme.com", 10)
	assert.Equal(t, 10.0, total)

	id2, total := ingest("acme.com", 7.5)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 17.5, total)

	// persisted score matches the running total
	account, err := repo.Accounts().GetByID(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, 17.5, account.IntentScore)

	// a different domain accumulates independently
	_, other := ingest("globex.com", 3)
	assert.Equal(t, 3.0, other)

	n, err := repo.IntentSignals().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestIntentSignalsListRecent(t *testing.T) {
	db := newTestDB(t)
	repo := crm.NewRepositoryManager(db)
	ctx := context.Background()

	account, err := repo.Accounts().Create(ctx, &crm.Account{Name: "Acme", Domain: "acme.com"})
	require.NoError(t, err)

	// no signals yet: the aggregate must come back as a float zero, not error
	total, err := repo.IntentSignals().SumScoreByAccountTx(ctx, db, account.ID)
	require.NoError(t, err)
	assert.Zero(t, total)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := repo.IntentSignals().CreateTx(ctx, db, &crm.IntentSignal{
			AccountID:  account.ID,
			SignalType: "PAGE_VIEW",
			Score:      float64(i),
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	records, err := repo.IntentSignals().ListRecentByAccount(ctx, account.ID, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// newest first
	assert.Equal(t, 4.0, records[0].Score)
	assert.Equal(t, 3.0, records[1].Score)
	assert.Equal(t, 2.0, records[2].Score)
}

func TestOpportunitiesRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	account, err := repo.Accounts().Create(ctx, &crm.Account{Name: "Acme", Domain: "acme.com"})
	require.NoError(t, err)

	won, err := repo.Opportunities().Create(ctx, &crm.Opportunity{
		AccountID: account.ID, Name: "Expansion", Stage: crm.StageClosedWon, Amount: 50000,
	})
	require.NoError(t, err)

	open, err := repo.Opportunities().Create(ctx, &crm.Opportunity{
		AccountID: account.ID, Name: "Renewal", Stage: crm.StageNew, Amount: 12000,
	})
	require.NoError(t, err)

	t.Run("update stage", func(t *testing.T) {
		updated, err := repo.Opportunities().UpdateStage(ctx, open.ID, crm.StageProposal)
		require.NoError(t, err)
		assert.Equal(t, crm.StageProposal, updated.Stage)
		assert.Equal(t, open.ID, updated.ID)
	})

	t.Run("update stage of a missing record", func(t *testing.T) {
		_, err := repo.Opportunities().UpdateStage(ctx, uuid.New(), crm.StageClosedLost)
		assert.ErrorIs(t, err, crm.ErrRecordNotFound)
	})

	t.Run("sum amount by stage", func(t *testing.T) {
		total, err := repo.Opportunities().SumAmountByStage(ctx, crm.StageClosedWon)
		require.NoError(t, err)
		assert.Equal(t, won.Amount, total)

		lost, err := repo.Opportunities().SumAmountByStage(ctx, crm.StageClosedLost)
		require.NoError(t, err)
		assert.Zero(t, lost)
	})

	t.Run("list by account and count", func(t *testing.T) {
		records, err := repo.Opportunities().ListByAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.Len(t, records, 2)

		n, err := repo.Opportunities().Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestContactsRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	account, err := repo.Accounts().Create(ctx, &crm.Account{Name: "Acme", Domain: "acme.com"})
	require.NoError(t, err)

	_, err = repo.Contacts().Create(ctx, &crm.Contact{
		AccountID: account.ID, Name: "Pat Lee", Email: "pat@acme.com", Title: "VP Sales",
	})
	require.NoError(t, err)

	records, err := repo.Contacts().ListByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "pat@acme.com", records[0].Email)

	other, err := repo.Contacts().ListByAccount(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
