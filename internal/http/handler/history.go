package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"clauselens/internal/service"
)

const (
	maxPageLimit   = 100
	downloadExpiry = 15 * time.Minute
)

// ListAnalyses lists persisted analyses with limit & offset.
//
// @Summary Analysis history
// @Tags history
// @Produce json
// @Param limit query int false "page size (max 100)"
// @Param offset query int false "offset"
// @Success 200 {object} service.AnalysisListResult
// @Failure 400 {object} errorPayload
// @Router /analyses [get]
func ListAnalyses(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil || limit < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil || offset < 0 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}
		limit = min(limit, maxPageLimit)

		res, err := svc.History(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

func parseID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// GetAnalysisRecord returns one persisted analysis including its full payload.
//
// @Summary Get a persisted analysis
// @Tags history
// @Produce json
// @Param id path string true "analysis id"
// @Success 200 {object} model.AnalysisRecord
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /analyses/{id} [get]
func GetAnalysisRecord(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rec, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rec)
	}
}

// DeleteAnalysisRecord removes a persisted analysis and its archived PDF.
//
// @Summary Delete a persisted analysis
// @Tags history
// @Param id path string true "analysis id"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /analyses/{id} [delete]
func DeleteAnalysisRecord(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type downloadOutput struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// GetAnalysisDocument returns a short-lived download link for the archived PDF.
//
// @Summary Download link for the analyzed PDF
// @Tags history
// @Produce json
// @Param id path string true "analysis id"
// @Success 200 {object} downloadOutput
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /analyses/{id}/document [get]
func GetAnalysisDocument(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		url, err := svc.DocumentURL(c.UserContext(), id, downloadExpiry)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(downloadOutput{URL: url, ExpiresIn: int(downloadExpiry.Seconds())})
	}
}
