package routes

import (
	"net/http"

	"github.com/newsroom-labs/domaingraph/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// DeleteDomainHandler evicts a domain graph and its persisted snapshot.
func DeleteDomainHandler(c echo.Context) error {
	domain := c.Param("domain")
	domainStore := c.(*middleware.AppContext).App.Store

	if !domainStore.Evict(c.Request().Context(), domain) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Domain not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Domain evicted"})
}
