package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/newsroom-labs/domaingraph/pkg/ai"
	"github.com/newsroom-labs/domaingraph/pkg/common"
	"github.com/newsroom-labs/domaingraph/pkg/logger"
	"github.com/newsroom-labs/domaingraph/pkg/store"

	"github.com/go-playground/validator"
)

// DefaultDomain is assumed when a tool call omits the domain argument.
const DefaultDomain = "cancer_care"

// ToolHandler executes a tool call from its JSON-encoded arguments and
// returns the operation's result fields.
type ToolHandler func(ctx context.Context, arguments string) (map[string]any, error)

// ToolDefinition describes a dispatchable operation for catalog
// listings.
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  any    `json:"parameters"`
}

type tool struct {
	definition ToolDefinition
	handler    ToolHandler
}

// Dispatcher is the single entry point for tool calls. It validates and
// coerces loosely-typed arguments into typed parameter structs, resolves
// domains, routes to the pipelines, and folds every failure into a
// structured status result instead of a fault.
//
// A Dispatcher should be created using NewDispatcher.
type Dispatcher struct {
	store       *store.DomainStore
	keywords    *KeywordExtractor
	glossary    *GlossaryBuilder
	coverImages *CoverImageSynthesizer
	validate    *validator.Validate
	tools       map[string]tool
}

// NewDispatcherParams defines the configuration parameters for creating
// a new Dispatcher. AIClient, Engines, and Covers may be nil; the
// corresponding enrichments are then skipped.
type NewDispatcherParams struct {
	Store    *store.DomainStore
	AIClient ai.DomainAIClient
	Engines  *ai.EngineRegistry
	Covers   CoverArchive
}

// NewDispatcher creates a dispatcher exposing every tool operation over
// the given store.
func NewDispatcher(params NewDispatcherParams) *Dispatcher {
	d := &Dispatcher{
		store:       params.Store,
		keywords:    NewKeywordExtractor(params.Store),
		glossary:    NewGlossaryBuilder(params.Store, params.AIClient),
		coverImages: NewCoverImageSynthesizer(params.Store, params.Engines, params.Covers),
		validate:    validator.New(),
		tools:       make(map[string]tool),
	}
	d.registerTools()
	return d
}

// Tools returns the catalog of dispatchable operations in name order.
func (d *Dispatcher) Tools() []ToolDefinition {
	definitions := make([]ToolDefinition, 0, len(d.tools))
	for _, t := range d.tools {
		definitions = append(definitions, t.definition)
	}
	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Name < definitions[j].Name
	})
	return definitions
}

// Dispatch routes a tool call to its pipeline. The result always carries
// a "status" field; on failure it is "error" with a "message" and the
// failure class in "error_class".
func (d *Dispatcher) Dispatch(ctx context.Context, name string, arguments string) map[string]any {
	t, ok := d.tools[name]
	if !ok {
		return errorResult(fmt.Errorf("%w: unknown tool %q", common.ErrInvalidParameter, name))
	}

	result, err := t.handler(ctx, arguments)
	if err != nil {
		logger.Warn("[Dispatch] Tool failed", "tool", name, "error", err)
		return errorResult(err)
	}

	result["status"] = "success"
	return result
}

func errorResult(err error) map[string]any {
	return map[string]any{
		"status":      "error",
		"message":     err.Error(),
		"error_class": classifyError(err),
	}
}

func classifyError(err error) string {
	switch {
	case errors.Is(err, common.ErrEmptyCorpus):
		return "EmptyCorpusError"
	case errors.Is(err, common.ErrInvalidParameter):
		return "InvalidParameterError"
	case errors.Is(err, common.ErrGraphNotFound):
		return "GraphNotFoundError"
	case errors.Is(err, common.ErrBuildInProgress):
		return "BuildInProgressError"
	case errors.Is(err, common.ErrPersistence):
		return "PersistenceError"
	case errors.Is(err, common.ErrEngineUnavailable):
		return "EngineUnavailableError"
	default:
		return "InternalError"
	}
}

// parseArguments unmarshals loosely-typed tool arguments into the typed
// parameter struct and validates it before any pipeline sees it.
func (d *Dispatcher) parseArguments(arguments string, out any) error {
	if arguments == "" {
		arguments = "{}"
	}
	if err := ai.UnmarshalFlexible(arguments, out); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidParameter, err)
	}
	if err := d.validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidParameter, err)
	}
	return nil
}

func (d *Dispatcher) register(name, description string, parameters any, handler ToolHandler) {
	d.tools[name] = tool{
		definition: ToolDefinition{
			Name:        name,
			Description: description,
			Parameters:  ai.GenerateSchema(parameters),
		},
		handler: handler,
	}
}
