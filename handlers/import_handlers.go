package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"menu-analytics/config"
	"menu-analytics/database"
	"menu-analytics/utils"
)

// WorkbookImporter writes a loaded workbook to the backing store.
// *database.Store implements it.
type WorkbookImporter interface {
	Import(ctx context.Context, src *database.MemoryStore) (database.ImportResult, error)
}

type ImportHandler struct {
	importer WorkbookImporter
	loc      *time.Location
	logger   logrus.FieldLogger
}

func NewImportHandler(importer WorkbookImporter, loc *time.Location, logger logrus.FieldLogger) *ImportHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ImportHandler{importer: importer, loc: loc, logger: logger}
}

// HandleImportWorkbook loads the multipart "file" workbook and imports its items
// and sales. Unit costs are frozen from the workbook's item costs.
func (h *ImportHandler) HandleImportWorkbook(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest(c, "Missing workbook file")
	}
	file, err := header.Open()
	if err != nil {
		return utils.BadRequest(c, "Unreadable workbook file")
	}
	defer file.Close()

	mem, report, err := database.ReadWorkbook(file, h.loc)
	if err != nil {
		return utils.BadRequest(c, "Invalid workbook: "+err.Error())
	}

	result, err := h.importer.Import(c.UserContext(), mem)
	if err != nil {
		config.LogError(h.logger, "handlers", "HandleImportWorkbook", "import workbook", report, err)
		return utils.Respond(c, fiber.StatusInternalServerError, false, "Failed to import workbook", nil)
	}
	return utils.Respond(c, fiber.StatusOK, true, "Workbook imported successfully", fiber.Map{
		"imported": result,
		"load":     report,
	})
}
