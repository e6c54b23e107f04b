package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	"clauselens/docs"
)

// RegisterSwagger serves the API docs under /swagger/*. Host and schemes are
// written to the shared doc info once here, never per request.
func RegisterSwagger(app *fiber.App, host string, schemes ...string) {
	docs.SwaggerInfo.Host = host
	if len(schemes) > 0 {
		docs.SwaggerInfo.Schemes = schemes
	}
	app.Get("/swagger/*", swagger.HandlerDefault)
}
