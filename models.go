package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the credential record: principal identifier plus salted/hashed
// secret. The hash is owned exclusively by the verification path and is never
// serialized in responses.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Account is a business record tracked in the pipeline
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Domain        string     `bun:"domain,notnull,unique" json:"domain"`
	Industry      string     `bun:"industry" json:"industry,omitempty"`
	IntentScore   float64    `bun:"intent_score,notnull,default:0" json:"intent_score"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Contact belongs to an account
type Contact struct {
	bun.BaseModel `bun:"table:contacts,alias:cnt"`
	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	AccountID     uuid.UUID  `bun:"account_id,notnull,type:uuid" json:"account_id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Email         string     `bun:"email,notnull" json:"email"`
	Title         string     `bun:"title,notnull" json:"title"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// OpportunityStage is the pipeline stage of an opportunity
type OpportunityStage = string

const (
	// StageNew newly opened opportunity
	StageNew OpportunityStage = "NEW"
	// StageProposal proposal sent
	StageProposal OpportunityStage = "PROPOSAL"
	// StageClosedWon deal won
	StageClosedWon OpportunityStage = "CLOSED_WON"
	// StageClosedLost deal lost
	StageClosedLost OpportunityStage = "CLOSED_LOST"
)

// OpportunityStages enumerates the valid stage values
var OpportunityStages = []any{StageNew, StageProposal, StageClosedWon, StageClosedLost}

// Opportunity is a sales opportunity attached to an account
type Opportunity struct {
	bun.BaseModel `bun:"table:opportunities,alias:opp"`
	ID            uuid.UUID        `bun:"id,pk,type:uuid" json:"id"`
	AccountID     uuid.UUID        `bun:"account_id,notnull,type:uuid" json:"account_id"`
	Name          string           `bun:"name,notnull" json:"name"`
	Stage         OpportunityStage `bun:"stage,notnull" json:"stage"`
	Amount        float64          `bun:"amount,notnull" json:"amount"`
	CreatedAt     *time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// IntentSignal is a single ingested buying-intent event. An account's
// intent_score is the sum of its signals' scores, recomputed at ingestion.
type IntentSignal struct {
	bun.BaseModel `bun:"table:intent_signals,alias:sig"`
	ID            uuid.UUID      `bun:"id,pk,type:uuid" json:"id"`
	AccountID     uuid.UUID      `bun:"account_id,notnull,type:uuid" json:"account_id"`
	SignalType    string         `bun:"signal_type,notnull" json:"signal_type"`
	Score         float64        `bun:"score,notnull" json:"score"`
	Metadata      map[string]any `bun:"metadata,type:jsonb" json:"metadata,omitempty"`
	OccurredAt    time.Time      `bun:"occurred_at,notnull" json:"occurred_at"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
