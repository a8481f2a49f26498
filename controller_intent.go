package crm

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
)

// IntentController serves the intent signal ingestion endpoint
type IntentController struct {
	Logger Logger
	Repo   RepositoryManager
}

func NewIntentController(repo RepositoryManager) *IntentController {
	return &IntentController{
		Logger: defLogger{},
		Repo:   repo,
	}
}

// IngestIntentRequest payload
type IngestIntentRequest struct {
	AccountDomain string         `form:"accountDomain" json:"accountDomain"`
	SignalType    string         `form:"signalType" json:"signalType"`
	Score         *float64       `form:"score" json:"score"`
	Metadata      map[string]any `form:"metadata" json:"metadata"`
	OccurredAt    string         `form:"occurredAt" json:"occurredAt"`
}

// Validate will validate the payload
func (r IngestIntentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AccountDomain, validation.Required),
		validation.Field(&r.SignalType, validation.Required),
		validation.Field(&r.Score, validation.NotNil),
		validation.Field(&r.OccurredAt, validation.Required, validation.Date(time.RFC3339)),
	)
}

// Ingest handles POST /api/intent: upsert the account by domain, record the
// signal, and recompute the account's aggregate intent score. The three steps
// run in one transaction so a concurrent ingest cannot observe a signal
// without its score contribution.
func (a *IntentController) Ingest(c *fiber.Ctx) error {
	payload := new(IngestIntentRequest)

	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, "Invalid or missing JSON body")
	}

	if err := payload.Validate(); err != nil {
		return badRequest(c, "Missing required fields")
	}

	occurredAt, err := time.Parse(time.RFC3339, payload.OccurredAt)
	if err != nil {
		return badRequest(c, "Missing required fields")
	}

	var account *Account
	var totalScore float64

	err = a.Repo.RunInTx(c.UserContext(), nil, func(ctx context.Context, tx bun.Tx) error {
		var txErr error

		account, txErr = a.Repo.Accounts().GetOrCreateByDomainTx(ctx, tx, payload.AccountDomain)
		if txErr != nil {
			return txErr
		}

		if _, txErr = a.Repo.IntentSignals().CreateTx(ctx, tx, &IntentSignal{
			AccountID:  account.ID,
			SignalType: payload.SignalType,
			Score:      *payload.Score,
			Metadata:   payload.Metadata,
			OccurredAt: occurredAt,
		}); txErr != nil {
			return txErr
		}

		totalScore, txErr = a.Repo.IntentSignals().SumScoreByAccountTx(ctx, tx, account.ID)
		if txErr != nil {
			return txErr
		}

		return a.Repo.Accounts().SetIntentScoreTx(ctx, tx, account.ID, totalScore)
	})
	if err != nil {
		a.Logger.Error("intent ingest: %v", err)
		return internalError(c)
	}

	return c.JSON(fiber.Map{
		"ok":            true,
		"intentSaved":   true,
		"accountId":     account.ID.String(),
		"accountDomain": account.Domain,
		"intentScore":   totalScore,
		"message":       fmt.Sprintf("Intent signal saved. Total intentScore for %s: %v", account.Domain, totalScore),
	})
}
