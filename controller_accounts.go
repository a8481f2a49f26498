package crm

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AccountsController serves the account records API
type AccountsController struct {
	Logger Logger
	Repo   RepositoryManager
}

func NewAccountsController(repo RepositoryManager) *AccountsController {
	return &AccountsController{
		Logger: defLogger{},
		Repo:   repo,
	}
}

// List handles GET /api/accounts with optional q and industry filters
func (a *AccountsController) List(c *fiber.Ctx) error {
	filter := AccountFilter{
		Query:    c.Query("q"),
		Industry: c.Query("industry"),
	}

	records, err := a.Repo.Accounts().List(c.UserContext(), filter)
	if err != nil {
		a.Logger.Error("accounts list: %v", err)
		return internalError(c)
	}

	return c.JSON(records)
}

// CreateAccountRequest payload
type CreateAccountRequest struct {
	Name     string `form:"name" json:"name"`
	Domain   string `form:"domain" json:"domain"`
	Industry string `form:"industry" json:"industry"`
}

// Validate will validate the payload
func (r CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Domain, validation.Required),
	)
}

// Create handles POST /api/accounts
func (a *AccountsController) Create(c *fiber.Ctx) error {
	payload := new(CreateAccountRequest)

	if err := c.BodyParser(payload); err != nil {
		return badRequest(c, "Invalid or missing JSON body")
	}

	if err := payload.Validate(); err != nil {
		return badRequest(c, "Missing required fields")
	}

	account, err := a.Repo.Accounts().Create(c.UserContext(), &Account{
		Name:     payload.Name,
		Domain:   payload.Domain,
		Industry: payload.Industry,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateDomain) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Account with this domain already exists",
			})
		}
		a.Logger.Error("accounts create: %v", err)
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

// AccountDetail is the composite response for GET /api/accounts/:id
type AccountDetail struct {
	Account       *Account       `json:"account"`
	Contacts      []Contact      `json:"contacts"`
	Opportunities []Opportunity  `json:"opportunities"`
	IntentSignals []IntentSignal `json:"intentSignals"`
}

// Show handles GET /api/accounts/:id, returning the account with its
// contacts, opportunities, and the 10 most recent intent signals
func (a *AccountsController) Show(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Account ID is required")
	}

	ctx := c.UserContext()

	account, err := a.Repo.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return notFound(c)
		}
		a.Logger.Error("accounts show: %v", err)
		return internalError(c)
	}

	contacts, err := a.Repo.Contacts().ListByAccount(ctx, id)
	if err != nil {
		a.Logger.Error("accounts show contacts: %v", err)
		return internalError(c)
	}

	opps, err := a.Repo.Opportunities().ListByAccount(ctx, id)
	if err != nil {
		a.Logger.Error("accounts show opportunities: %v", err)
		return internalError(c)
	}

	signals, err := a.Repo.IntentSignals().ListRecentByAccount(ctx, id, 10)
	if err != nil {
		a.Logger.Error("accounts show signals: %v", err)
		return internalError(c)
	}

	return c.JSON(AccountDetail{
		Account:       account,
		Contacts:      contacts,
		Opportunities: opps,
		IntentSignals: signals,
	})
}

var seedAccounts = []Account{
	{Name: "Acme Corp", Domain: "acme.com", Industry: "Manufacturing"},
	{Name: "Globex Inc", Domain: "globex.com", Industry: "SaaS"},
	{Name: "Initech", Domain: "initech.io", Industry: "Technology"},
	{Name: "Umbrella Health", Domain: "umbrellahealth.org", Industry: "Healthcare"},
}

// Seed handles POST /api/accounts/seed, creating the fixture accounts that do
// not exist yet. Idempotent: already registered domains are reported as
// skipped.
func (a *AccountsController) Seed(c *fiber.Ctx) error {
	ctx := c.UserContext()

	created := []Account{}
	skipped := []string{}

	for _, fixture := range seedAccounts {
		record := fixture
		account, err := a.Repo.Accounts().Create(ctx, &record)
		if err != nil {
			if errors.Is(err, ErrDuplicateDomain) {
				skipped = append(skipped, fixture.Domain)
				continue
			}
			a.Logger.Error("accounts seed: %v", err)
			return internalError(c)
		}
		created = append(created, *account)
	}

	return c.JSON(fiber.Map{
		"created": created,
		"skipped": skipped,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
