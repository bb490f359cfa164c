package handlers

import (
	"LabelWise-Backend/domain"
	"LabelWise-Backend/internal/api/presenters"
	"LabelWise-Backend/pkg/scan"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	ScanHandler interface {
		AnalyzeImage(c *fiber.Ctx) error
		SaveScanHistory(c *fiber.Ctx) error
		ScanAndSave(c *fiber.Ctx) error
		GetScanHistory(c *fiber.Ctx) error
		GetScanDetails(c *fiber.Ctx) error
	}

	scanHandler struct {
		scanService scan.ScanService
		validator   *validator.Validate
	}
)

func NewScanHandler(scanService scan.ScanService, validator *validator.Validate) ScanHandler {
	return &scanHandler{
		scanService: scanService,
		validator:   validator,
	}
}

// AnalyzeImage returns the bare validated analysis object on success and a
// flat {error} envelope otherwise, matching what the mobile client renders.
func (h *scanHandler) AnalyzeImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AnalyzeImageRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.PipelineError(c, fiber.StatusBadRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.PipelineError(c, fiber.StatusBadRequest, err)
	}

	analysis, err := h.scanService.AnalyzeImage(c.Context(), *req, userID)
	if err != nil {
		log.Errorf("analyze image failed (kind=%s): %v", domain.ErrorKind(err), err)
		return presenters.PipelineError(c, pipelineStatus(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(analysis)
}

func (h *scanHandler) SaveScanHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.SaveScanRequest)

	if err := c.BodyParser(req); err != nil {
		return saveError(c, fiber.StatusBadRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return saveError(c, fiber.StatusBadRequest, err)
	}

	res, err := h.scanService.SaveScanHistory(c.Context(), *req, userID)
	if err != nil {
		log.Errorf("save scan history failed (kind=%s): %v", domain.ErrorKind(err), err)
		return saveError(c, pipelineStatus(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *scanHandler) ScanAndSave(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AnalyzeImageRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.PipelineError(c, fiber.StatusBadRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.PipelineError(c, fiber.StatusBadRequest, err)
	}

	res, err := h.scanService.ScanAndSave(c.Context(), *req, userID)
	if err != nil {
		log.Errorf("scan and save failed (kind=%s): %v", domain.ErrorKind(err), err)
		return presenters.PipelineError(c, pipelineStatus(err), err)
	}

	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *scanHandler) GetScanHistory(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	scans, count, err := h.scanService.GetScanHistory(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetScanHistory, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"scans": scans,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetScanHistory)
}

func (h *scanHandler) GetScanDetails(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	scanID := c.Params("id")

	res, err := h.scanService.GetScanByID(c.Context(), scanID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrScanNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetScanDetail, err)
		}
		if errors.Is(err, domain.ErrUserNotAllowed) {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedGetScanDetail, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetScanDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetScanDetail)
}

// pipelineStatus maps error kinds to HTTP status. User-actionable conditions
// are 400s; everything upstream or internal is a 500.
func pipelineStatus(err error) int {
	switch domain.ErrorKind(err) {
	case domain.KindValidation, domain.KindNoTextDetected:
		return fiber.StatusBadRequest
	case domain.KindAuth:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

func saveError(c *fiber.Ctx, statusCode int, err error) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
