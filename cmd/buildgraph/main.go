package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/newsroom-labs/domaingraph/internal/queue"
	"github.com/newsroom-labs/domaingraph/internal/storage"
	"github.com/newsroom-labs/domaingraph/internal/util"
	"github.com/newsroom-labs/domaingraph/pkg/loader"
	"github.com/newsroom-labs/domaingraph/pkg/logger"
	"github.com/newsroom-labs/domaingraph/pkg/logger/console"
	"github.com/newsroom-labs/domaingraph/pkg/store"
	filestore "github.com/newsroom-labs/domaingraph/pkg/store/file"
)

// buildgraph builds a domain graph from local files, URLs, or s3://
// keys, persists the snapshot, and prints summary statistics.
func main() {
	util.LoadEnv()

	domain := flag.String("domain", "", "domain name (required)")
	maxNodes := flag.Int("max-nodes", 0, "node cap, 0 for the default")
	minEdgeWeight := flag.Int("min-edge-weight", 0, "minimum edge weight, 0 for the default")
	dataDir := flag.String("data-dir", "data/graphs", "snapshot directory")
	parallel := flag.Int("parallel", 4, "parallel source fetches")
	flag.Parse()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug:        debug,
		ReportCaller: debug,
	})
	logger.Init(consoleLogger)

	if *domain == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: buildgraph -domain <name> [flags] <source>...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources := make([]loader.CorpusSource, flag.NArg())
	for i, path := range flag.Args() {
		sources[i] = loader.CorpusSource{
			ID:   fmt.Sprintf("src-%d", i),
			Path: path,
		}
	}

	router := queue.NewSourceRouter(storage.NewS3Client(ctx))
	documents, err := loader.LoadDocuments(ctx, router, sources, *parallel)
	if err != nil {
		logger.Fatal("Failed to load corpus", "err", err)
	}

	persister, err := filestore.NewFilePersister(*dataDir)
	if err != nil {
		logger.Fatal("Failed to create snapshot directory", "dir", *dataDir, "err", err)
	}
	domainStore := store.NewDomainStore(store.NewDomainStoreParams{
		Persister: persister,
	})

	if _, err := domainStore.Rebuild(ctx, *domain, documents, store.BuildParams{
		MaxNodes:      *maxNodes,
		MinEdgeWeight: *minEdgeWeight,
	}); err != nil {
		logger.Fatal("Build failed", "domain", *domain, "err", err)
	}

	stats, err := domainStore.Stats(*domain)
	if err != nil {
		logger.Fatal("Failed to read stats", "domain", *domain, "err", err)
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode stats", "err", err)
	}
	fmt.Println(string(out))
}
