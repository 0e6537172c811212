package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"menu-analytics/config"
	"menu-analytics/models"
	"menu-analytics/pricing"
	"menu-analytics/utils"
)

// Analyzer runs the pricing analyses. *pricing.Engine implements it.
type Analyzer interface {
	TargetMargin(ctx context.Context, itemName string, marginPercent float64) pricing.Result
	Simulate(ctx context.Context, itemName string, candidatePrice float64) pricing.Result
	Optimum(ctx context.Context, itemName string, step float64) pricing.Result
	ComparePeriods(ctx context.Context, scope models.GroupScope, key string, windowDays int) pricing.Result
}

// CatalogSource lists what can be analysed.
type CatalogSource interface {
	Catalog(ctx context.Context) (models.CatalogSummary, error)
}

type AnalysisHandler struct {
	engine  Analyzer
	catalog CatalogSource
	logger  logrus.FieldLogger
}

func NewAnalysisHandler(engine Analyzer, catalog CatalogSource, logger logrus.FieldLogger) *AnalysisHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AnalysisHandler{engine: engine, catalog: catalog, logger: logger}
}

// HandleTargetMargin returns the price needed to reach a gross margin.
func (h *AnalysisHandler) HandleTargetMargin(c *fiber.Ctx) error {
	var req models.TargetMarginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	return respondResult(c, h.engine.TargetMargin(c.UserContext(), req.Item, req.Margin))
}

// HandleSimulate predicts demand and profit at a candidate price.
func (h *AnalysisHandler) HandleSimulate(c *fiber.Ctx) error {
	var req models.SimulateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	return respondResult(c, h.engine.Simulate(c.UserContext(), req.Item, req.Price))
}

// HandleOptimum searches the profit-maximizing price.
func (h *AnalysisHandler) HandleOptimum(c *fiber.Ctx) error {
	var req models.OptimumRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	return respondResult(c, h.engine.Optimum(c.UserContext(), req.Item, req.Step))
}

// HandleCompare compares profit shares of two adjacent windows.
func (h *AnalysisHandler) HandleCompare(c *fiber.Ctx) error {
	var req models.CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	return respondResult(c, h.engine.ComparePeriods(c.UserContext(), req.Scope, req.Name, req.Days))
}

// HandleGetCatalog lists items, categories and category groups.
func (h *AnalysisHandler) HandleGetCatalog(c *fiber.Ctx) error {
	summary, err := h.catalog.Catalog(c.UserContext())
	if err != nil {
		config.LogError(h.logger, "handlers", "HandleGetCatalog", "load catalog", nil, err)
		return utils.Respond(c, fiber.StatusInternalServerError, false, "Failed to load catalog", nil)
	}
	return utils.Respond(c, fiber.StatusOK, true, "Catalog retrieved successfully", summary)
}

func respondResult(c *fiber.Ctx, res pricing.Result) error {
	return utils.Respond(c, StatusFor(res), res.Success, res.Report, res)
}

// StatusFor maps a Result to an HTTP status. Aborted analyses that still carry a
// usable report answer 200 with success=false.
func StatusFor(res pricing.Result) int {
	if res.Success {
		return fiber.StatusOK
	}
	switch res.Kind {
	case pricing.KindItemNotFound, pricing.KindGroupNotFound:
		return fiber.StatusNotFound
	case pricing.KindInvalidMargin, pricing.KindInvalidPrice, pricing.KindInvalidStep,
		pricing.KindInvalidWindow, pricing.KindInvalidScope:
		return fiber.StatusBadRequest
	case pricing.KindMissingCost, pricing.KindInsufficientData, pricing.KindEmptyRange:
		return fiber.StatusUnprocessableEntity
	case pricing.KindInternal:
		return fiber.StatusInternalServerError
	}
	if res.Kind.Warning() {
		return fiber.StatusOK
	}
	return fiber.StatusInternalServerError
}
