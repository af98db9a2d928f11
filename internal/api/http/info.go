package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

const (
	applicationName = "Interactive Soil Health Map"
	apiName         = "Soil Health Monitoring API"
	version         = "1.0.0"
)

func registerInfoRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/index.html", fiber.StatusSeeOther)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "UP",
			"application": applicationName,
			"version":     version,
			"timestamp":   deps.now().UnixMilli(),
		})
	})

	app.Get("/api", func(c *fiber.Ctx) error {
		endpoints := fiber.Map{
			"recommendations": "/api/recommendations/calculate",
			"health":          "/health",
		}
		if deps.Map != nil {
			endpoints["map"] = "/api/map/districts"
		}
		if deps.Dashboard != nil {
			endpoints["dashboard"] = "/api/dashboard/summary"
		}
		if deps.Auth != nil {
			endpoints["auth"] = "/api/auth/login"
		}
		return c.JSON(fiber.Map{
			"name":      apiName,
			"version":   version,
			"endpoints": endpoints,
		})
	})
}
