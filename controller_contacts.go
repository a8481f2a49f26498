package crm

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ContactsController serves the contact records API
type ContactsController struct {
	Logger Logger
	Repo   RepositoryManager
}

func NewContactsController(repo RepositoryManager) *ContactsController {
	return &ContactsController{
		Logger: defLogger{},
		Repo:   repo,
	}
}

// CreateContactRequest payload
type CreateContactRequest struct {
	AccountID string `form:"accountId" json:"accountId"`
	Name      string `form:"name" json:"name"`
	Email     string `form:"email" json:"email"`
	Title     string `form:"title" json:"title"`
}

// Validate will validate the payload
func (r CreateContactRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.AccountID, validation.Required, is.UUID),
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Title, validation.Required),
	)
}

// Create handles POST /api/contacts. The referenced account must exist.
func (a *ContactsController) Create(c *fiber.Ctx) error {
	payload := new(CreateContactRequest)

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
		a.Logger.Error("contacts create account lookup: %v", err)
		return internalError(c)
	}

	contact, err := a.Repo.Contacts().Create(ctx, &Contact{
		AccountID: accountID,
		Name:      payload.Name,
		Email:     payload.Email,
		Title:     payload.Title,
	})
	if err != nil {
		a.Logger.Error("contacts create: %v", err)
		return internalError(c)
	}

	return c.Status(fiber.StatusCreated).JSON(contact)
}
