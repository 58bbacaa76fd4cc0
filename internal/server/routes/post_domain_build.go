package routes

import (
	"encoding/json"
	"net/http"

	"github.com/newsroom-labs/domaingraph/internal/queue"
	"github.com/newsroom-labs/domaingraph/internal/server/middleware"
	"github.com/newsroom-labs/domaingraph/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BuildDomainHandler enqueues an asynchronous graph build for a domain.
// The corpus is given either inline or as source locations resolved by
// the worker.
func BuildDomainHandler(c echo.Context) error {
	type buildDomainBody struct {
		Documents     []string `json:"documents" validate:"required_without=Sources"`
		Sources       []string `json:"sources" validate:"required_without=Documents"`
		MaxNodes      int      `json:"max_nodes" validate:"gte=0"`
		MinEdgeWeight int      `json:"min_edge_weight" validate:"gte=0"`
	}

	data := new(buildDomainBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	domain := app.Store.Resolve(c.Param("domain"))

	msg := queue.BuildGraphMsg{
		Domain:        domain,
		Documents:     data.Documents,
		Sources:       data.Sources,
		MaxNodes:      data.MaxNodes,
		MinEdgeWeight: data.MinEdgeWeight,
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if err := queue.PublishFIFO(app.Queue, queue.BuildQueue, msgBytes); err != nil {
		logger.Error("[Server] Failed to enqueue build", "domain", domain, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to enqueue build"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{
		"message": "Build enqueued",
		"domain":  domain,
	})
}
