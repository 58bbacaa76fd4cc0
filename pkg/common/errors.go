package common

import "errors"

// Sentinel errors returned by the graph engine. Callers classify failures
// with errors.Is rather than matching on message text.
var (
	// ErrEmptyCorpus indicates a build was requested with no documents or
	// with documents that contain no extractable terms.
	ErrEmptyCorpus = errors.New("corpus contains no usable documents")

	// ErrInvalidParameter indicates a caller-supplied parameter is outside
	// its permitted range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrGraphNotFound indicates no graph exists for the requested domain
	// and the caller did not permit building one.
	ErrGraphNotFound = errors.New("no graph for domain")

	// ErrBuildInProgress indicates another build for the same domain is
	// already running.
	ErrBuildInProgress = errors.New("build already in progress for domain")

	// ErrPersistence indicates a failure while saving or loading a graph
	// snapshot.
	ErrPersistence = errors.New("graph persistence failed")

	// ErrEngineUnavailable indicates no configured image engine can serve
	// a generation request.
	ErrEngineUnavailable = errors.New("no image engine available")
)
