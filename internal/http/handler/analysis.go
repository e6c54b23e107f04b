package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"clauselens/internal/analysis"
	"clauselens/internal/letter"
	"clauselens/internal/service"
)

func serviceCtx(c *fiber.Ctx) context.Context {
	return service.WithRequestID(c.UserContext(), requestIDFromCtx(c))
}

// UploadDocument analyzes an uploaded PDF (multipart/form-data, field name: file).
//
// @Summary Analyze a PDF
// @Tags analysis
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Success 201 {object} model.DocumentAnalysis
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Failure 415 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /documents [post]
func UploadDocument(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		res, err := svc.Upload(serviceCtx(c), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetAnalysis returns the store snapshot: status, current analysis and explanation.
//
// @Summary Current analysis
// @Tags analysis
// @Produce json
// @Success 200 {object} store.Snapshot
// @Router /analysis [get]
func GetAnalysis(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Snapshot(c.UserContext()))
	}
}

// ResetAnalysis clears the current analysis.
//
// @Summary Reset the current analysis
// @Tags analysis
// @Success 204
// @Router /analysis [delete]
func ResetAnalysis(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		svc.Reset(serviceCtx(c))
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type clauseList struct {
	Query string         `json:"query"`
	Data  []clauseOutput `json:"data"`
	Total int            `json:"total"`
}

type clauseOutput struct {
	ID         string   `json:"id"`
	Number     int      `json:"number"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Impact     string   `json:"impact"`
	Risk       string   `json:"risk"`
	Color      string   `json:"color"`
	Confidence float64  `json:"confidence"`
	Issues     []string `json:"issues"`
}

// ListClauses returns the current clauses ranked by risk, optionally filtered by q.
//
// @Summary Ranked clauses
// @Tags analysis
// @Produce json
// @Param q query string false "search terms, any of which may match"
// @Success 200 {object} clauseList
// @Failure 409 {object} errorPayload
// @Router /analysis/clauses [get]
func ListClauses(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		clauses, err := svc.Clauses(c.UserContext(), q)
		if err != nil {
			return writeServiceError(c, err)
		}
		out := clauseList{Query: q, Data: make([]clauseOutput, 0, len(clauses)), Total: len(clauses)}
		for _, cl := range clauses {
			issues := cl.Issues
			if issues == nil {
				issues = []string{}
			}
			out.Data = append(out.Data, clauseOutput{
				ID:         cl.ID,
				Number:     cl.Number,
				Title:      cl.Title,
				Summary:    cl.Summary,
				Impact:     cl.Impact,
				Risk:       string(cl.Risk),
				Color:      cl.Risk.Color(),
				Confidence: cl.Confidence,
				Issues:     issues,
			})
		}
		return c.JSON(out)
	}
}

type explainInput struct {
	VoicePreference string `json:"voice_preference"`
}

// RequestExplanation asks the backend for an audio explanation of the current document.
//
// @Summary Request an audio explanation
// @Tags explanation
// @Accept json
// @Produce json
// @Param body body explainInput false "voice preference"
// @Success 200 {object} model.Explanation
// @Failure 409 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Router /analysis/explanation [post]
func RequestExplanation(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in explainInput
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&in); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
			}
		}
		e, err := svc.Explain(serviceCtx(c), in.VoicePreference)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(e)
	}
}

// GetExplanation returns the explanation state, including an inline error after a failure.
//
// @Summary Explanation state
// @Tags explanation
// @Produce json
// @Success 200 {object} store.ExplanationState
// @Router /analysis/explanation [get]
func GetExplanation(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Explanation(c.UserContext()))
	}
}

// CreateLetter renders a negotiation letter for the current analysis.
//
// @Summary Draft a negotiation letter
// @Tags letters
// @Accept json
// @Produce json
// @Param body body letter.Request true "letter options"
// @Success 200 {object} letter.Letter
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Failure 422 {object} errorPayload
// @Router /analysis/letters [post]
func CreateLetter(svc service.AnalysisService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req letter.Request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		l, err := svc.Letter(serviceCtx(c), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(l)
	}
}

type timeSavedOutput struct {
	Pages     int     `json:"pages"`
	Clauses   int     `json:"clauses"`
	Hours     float64 `json:"hours"`
	TimeSaved string  `json:"time_saved"`
}

// EstimateTimeSaved exposes the review time estimate for arbitrary sizes.
//
// @Summary Estimate review time saved
// @Tags analysis
// @Produce json
// @Param pages query int true "page count"
// @Param clauses query int true "clause count"
// @Success 200 {object} timeSavedOutput
// @Failure 400 {object} errorPayload
// @Router /time-saved [get]
func EstimateTimeSaved() fiber.Handler {
	return func(c *fiber.Ctx) error {
		pages, err := strconv.Atoi(c.Query("pages", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGES", "invalid pages")
		}
		clauses, err := strconv.Atoi(c.Query("clauses", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CLAUSES", "invalid clauses")
		}
		return c.JSON(timeSavedOutput{
			Pages:     pages,
			Clauses:   clauses,
			Hours:     analysis.TimeSavedHours(pages, clauses),
			TimeSaved: analysis.EstimateTimeSaved(pages, clauses),
		})
	}
}
