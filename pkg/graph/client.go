package graph

// GraphClient is the main client for building and ranking domain graphs.
// It manages the co-occurrence window, edge pruning, and document
// processing parallelism.
//
// A GraphClient should be created using NewGraphClient.
type GraphClient struct {
	windowSize    int
	minEdgeWeight int
	parallelDocs  int
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient.
//
// WindowSize controls how many consecutive terms form a co-occurrence
// window. MinEdgeWeight is the minimum corpus-wide co-occurrence count an
// edge needs to survive the build. ParallelDocs controls how many
// documents are extracted in parallel.
type NewGraphClientParams struct {
	WindowSize    int
	MinEdgeWeight int
	ParallelDocs  int
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters. Zero values fall back to the defaults of a
// ten-term window, a minimum edge weight of two, and four parallel
// documents.
//
// Example:
//
//	params := graph.NewGraphClientParams{
//		WindowSize:   10,
//		ParallelDocs: 4,
//	}
//	client := graph.NewGraphClient(params)
func NewGraphClient(params NewGraphClientParams) *GraphClient {
	windowSize := params.WindowSize
	if windowSize <= 1 {
		windowSize = 10
	}
	minEdgeWeight := params.MinEdgeWeight
	if minEdgeWeight <= 0 {
		minEdgeWeight = 2
	}
	parallelDocs := params.ParallelDocs
	if parallelDocs <= 0 {
		parallelDocs = 4
	}

	return &GraphClient{
		windowSize:    windowSize,
		minEdgeWeight: minEdgeWeight,
		parallelDocs:  parallelDocs,
	}
}
