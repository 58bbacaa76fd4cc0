package routes

import (
	"errors"
	"net/http"

	"github.com/newsroom-labs/domaingraph/internal/server/middleware"
	"github.com/newsroom-labs/domaingraph/pkg/common"

	"github.com/labstack/echo/v4"
)

// GetDomainStatsHandler reports summary statistics for one domain graph.
func GetDomainStatsHandler(c echo.Context) error {
	domain := c.Param("domain")
	domainStore := c.(*middleware.AppContext).App.Store

	stats, err := domainStore.Stats(domain)
	if err != nil {
		if errors.Is(err, common.ErrGraphNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Domain not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, stats)
}
