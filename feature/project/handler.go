package project

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/napcet/3mf-reader/core/archive"
	"github.com/napcet/3mf-reader/core/logger"
	"github.com/napcet/3mf-reader/feature/project/extract"
)

// Handler handles HTTP requests for projects.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, logger: service.logger}
}

// RegisterRoutes registers the project routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/projects")
	group.Post("/extract", h.HandleExtract)
	group.Get("/", h.HandleListHistory)
}

// HandleExtract extracts an uploaded 3MF container and returns its summary.
// The container is expected as the multipart form file "file".
func (h *Handler) HandleExtract(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "multipart file \"file\" is required",
		})
	}

	if !strings.EqualFold(extensionOf(fileHeader.Filename), ".3mf") {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"error": extract.ErrNotContainer.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		l.Error("Failed to open upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read upload",
		})
	}
	defer file.Close()

	payload := make([]byte, fileHeader.Size)
	if _, err := io.ReadFull(file, payload); err != nil {
		l.Error("Failed to read upload", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read upload",
		})
	}

	summary, err := h.service.ExtractUpload(c.Context(), fileHeader.Filename, payload)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, extract.ErrNotContainer) || errors.Is(err, archive.ErrBadFormat) {
			status = fiber.StatusUnprocessableEntity
		}
		l.Error("Extraction failed", zap.String("file", fileHeader.Filename), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	l.Info("Extraction complete",
		zap.String("file", fileHeader.Filename),
		zap.String("title", summary.Title))
	return c.JSON(summary)
}

// HandleListHistory returns recent extraction history records.
func (h *Handler) HandleListHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	if !h.service.HistoryEnabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "extraction history is not configured",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "0"))
	records, err := h.service.Recent(c.Context(), limit)
	if err != nil {
		l.Error("Failed to list history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"count":   len(records),
		"records": records,
	})
}

func extensionOf(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return name[idx:]
}
