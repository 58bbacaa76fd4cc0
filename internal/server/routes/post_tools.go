package routes

import (
	"io"
	"net/http"

	"github.com/newsroom-labs/domaingraph/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// InvokeToolHandler executes one tool call. The request body carries the
// JSON-encoded tool arguments as-is. Tool failures are part of the
// result payload, so the route answers 200 either way.
func InvokeToolHandler(c echo.Context) error {
	name := c.Param("name")

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	dispatcher := c.(*middleware.AppContext).App.Dispatcher
	result := dispatcher.Dispatch(c.Request().Context(), name, string(body))

	return c.JSON(http.StatusOK, result)
}
