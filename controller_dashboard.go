package crm

import (
	"github.com/gofiber/fiber/v2"
)

// DashboardController serves the aggregate metrics endpoint
type DashboardController struct {
	Logger Logger
	Repo   RepositoryManager
}

func NewDashboardController(repo RepositoryManager) *DashboardController {
	return &DashboardController{
		Logger: defLogger{},
		Repo:   repo,
	}
}

// DashboardMetrics is the response shape for GET /api/dashboard
type DashboardMetrics struct {
	TotalAccounts        int     `json:"totalAccounts"`
	TotalOpportunities   int     `json:"totalOpportunities"`
	TotalClosedWonAmount float64 `json:"totalClosedWonAmount"`
	TotalIntentSignals   int     `json:"totalIntentSignals"`
}

// Metrics handles GET /api/dashboard
func (a *DashboardController) Metrics(c *fiber.Ctx) error {
	ctx := c.UserContext()

	totalAccounts, err := a.Repo.Accounts().Count(ctx)
	if err != nil {
		a.Logger.Error("dashboard accounts count: %v", err)
		return internalError(c)
	}

	totalOpps, err := a.Repo.Opportunities().Count(ctx)
	if err != nil {
		a.Logger.Error("dashboard opportunities count: %v", err)
		return internalError(c)
	}

	closedWon, err := a.Repo.Opportunities().SumAmountByStage(ctx, StageClosedWon)
	if err != nil {
		a.Logger.Error("dashboard closed won sum: %v", err)
		return internalError(c)
	}

	totalSignals, err := a.Repo.IntentSignals().Count(ctx)
	if err != nil {
		a.Logger.Error("dashboard signals count: %v", err)
		return internalError(c)
	}

	return c.JSON(DashboardMetrics{
		TotalAccounts:        totalAccounts,
		TotalOpportunities:   totalOpps,
		TotalClosedWonAmount: closedWon,
		TotalIntentSignals:   totalSignals,
	})
}
