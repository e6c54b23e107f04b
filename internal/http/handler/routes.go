package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"clauselens/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin; validation and orchestration live in the service.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.AnalysisService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/documents", UploadDocument(svc))

	app.Get("/analysis", GetAnalysis(svc))
	app.Delete("/analysis", ResetAnalysis(svc))
	app.Get("/analysis/clauses", ListClauses(svc))
	app.Post("/analysis/explanation", RequestExplanation(svc))
	app.Get("/analysis/explanation", GetExplanation(svc))
	app.Post("/analysis/letters", CreateLetter(svc))

	app.Get("/analyses", ListAnalyses(svc))
	app.Get("/analyses/:id", GetAnalysisRecord(svc))
	app.Delete("/analyses/:id", DeleteAnalysisRecord(svc))
	app.Get("/analyses/:id/document", GetAnalysisDocument(svc))

	app.Get("/time-saved", EstimateTimeSaved())
}
