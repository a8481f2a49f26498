package crm

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// OpportunitiesController serves the sales opportunity API
type OpportunitiesController struct {
	Logger Logger
	Repo   RepositoryManager
}

func NewOpportunitiesController(repo RepositoryManager) *OpportunitiesController {
	return &OpportunitiesController{
		Logger: defLogger{},
		Repo:   repo,
	}
}

// CreateOpportunityRequest payload
type CreateOpportunityRequest struct {
	AccountID string   `form:"accountId" json:"accountId"`
	Name      string   `form:"name" json:"name"`
	Stage     string   `form:"stage" json:"stage"`
	Amount    *float64 `form:"amount" json:"amount"`
}

// Validate will validate the payload
func (r CreateOpportunityRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AccountID, validation.Required, is.UUID),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Stage, validation.Required, validation.In(OpportunityStages...)),
		validation.Field(&r.Amount, validation.NotNil),
	)
}

// Create handles POST /api/opportunities. The referenced account must exist.
func (a *OpportunitiesController) Create(c *fiber.Ctx) error {
	payload := new(CreateOpportunityRequest)

	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, "Invalid or missing JSON body")
	}

	if err := payload.Validate(); err != nil {
		return badRequest(c, "Missing required fields")
	}

	accountID, err := uuid.Parse(payload.AccountID)
	if err != nil {
		return badRequest(c, "Missing required fields")
	}

	ctx := c.UserContext()

	if _, err := a.Repo.Accounts().GetByID(ctx, accountID); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Account not found"})
		}
		a.Logger.Error("opportunities create account lookup: %v", err)
		return internalError(c)
	}

	opp, err := a.Repo.Opportunities().Create(ctx, &Opportunity{
		AccountID: accountID,
		Name:      payload.Name,
		Stage:     payload.Stage,
		Amount:    *payload.Amount,
	})
	if err != nil {
		a.Logger.Error("opportunities create: %v", err)
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(opp)
}

// UpdateStageRequest payload
type UpdateStageRequest struct {
	Stage string `form:"stage" json:"stage"`
}

// Validate will validate the payload
func (r UpdateStageRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Stage, validation.Required, validation.In(OpportunityStages...)),
	)
}

// UpdateStage handles PATCH /api/opportunities/:id stage transitions
func (a *OpportunitiesController) UpdateStage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Opportunity ID is required")
	}

	payload := new(UpdateStageRequest)

	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, "Invalid or missing JSON body")
	}

	if err := payload.Validate(); err != nil {
		return badRequest(c, "Stage field is required")
	}

	opp, err := a.Repo.Opportunities().UpdateStage(c.UserContext(), id, payload.Stage)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return notFound(c)
		}
		a.Logger.Error("opportunities update stage: %v", err)
		return internalError(c)
	}

	return c.JSON(opp)
}
