package routes

import (
	"net/http"

	"github.com/newsroom-labs/domaingraph/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetDomainsHandler lists every domain with a published graph.
func GetDomainsHandler(c echo.Context) error {
	domainStore := c.(*middleware.AppContext).App.Store
	return c.JSON(http.StatusOK, map[string]any{
		"domains": domainStore.Domains(),
	})
}
