package server

import (
	"github.com/newsroom-labs/domaingraph/internal/server/middleware"
	"github.com/newsroom-labs/domaingraph/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Tool routes
	apiRoutes.GET("/tools", routes.GetToolsHandler)
	apiRoutes.POST("/tools/:name", routes.InvokeToolHandler, middleware.RequirePermission("tool.invoke"))

	// Domain routes
	apiRoutes.GET("/domains", routes.GetDomainsHandler)
	apiRoutes.GET("/domains/:domain/stats", routes.GetDomainStatsHandler)
	apiRoutes.POST("/domains/:domain/build", routes.BuildDomainHandler, middleware.RequirePermission("domain.build"))
	apiRoutes.DELETE("/domains/:domain", routes.DeleteDomainHandler, middleware.RequirePermission("domain.delete"))
}
