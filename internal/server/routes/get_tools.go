package routes

import (
	"net/http"

	"github.com/newsroom-labs/domaingraph/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetToolsHandler lists the dispatchable tool catalog.
func GetToolsHandler(c echo.Context) error {
	dispatcher := c.(*middleware.AppContext).App.Dispatcher
	return c.JSON(http.StatusOK, map[string]any{
		"tools": dispatcher.Tools(),
	})
}
