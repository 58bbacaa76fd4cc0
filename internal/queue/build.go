package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/newsroom-labs/domaingraph/internal/util"
	"github.com/newsroom-labs/domaingraph/pkg/common"
	"github.com/newsroom-labs/domaingraph/pkg/leaselock"
	"github.com/newsroom-labs/domaingraph/pkg/loader"
	fileio "github.com/newsroom-labs/domaingraph/pkg/loader/io"
	s3loader "github.com/newsroom-labs/domaingraph/pkg/loader/s3"
	"github.com/newsroom-labs/domaingraph/pkg/loader/web"
	"github.com/newsroom-labs/domaingraph/pkg/logger"
	"github.com/newsroom-labs/domaingraph/pkg/store"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BuildGraphMsg is a build job for one domain. Documents carries inline
// text; Sources names corpus locations to fetch before building. At
// least one of the two must be present.
type BuildGraphMsg struct {
	Domain        string   `json:"domain"`
	Documents     []string `json:"documents,omitempty"`
	Sources       []string `json:"sources,omitempty"`
	MaxNodes      int      `json:"max_nodes,omitempty"`
	MinEdgeWeight int      `json:"min_edge_weight,omitempty"`
}

// SourceRouter picks a corpus loader per source location. URLs go
// through the web loader, s3:// keys through object storage, and
// anything else through the filesystem.
type SourceRouter struct {
	files *fileio.IOCorpusLoader
	web   *web.WebCorpusLoader
	s3    *s3loader.S3CorpusLoader
}

func NewSourceRouter(s3Client *awss3.Client) *SourceRouter {
	r := &SourceRouter{
		files: fileio.NewIOCorpusLoader(),
		web:   web.NewWebCorpusLoader(),
	}
	if s3Client != nil {
		bucket := util.GetEnv("AWS_BUCKET")
		r.s3 = s3loader.NewS3CorpusLoader(bucket, s3Client)
	}
	return r
}

func (r *SourceRouter) GetText(ctx context.Context, source loader.CorpusSource) ([]byte, error) {
	switch {
	case strings.HasPrefix(source.Path, "http://"), strings.HasPrefix(source.Path, "https://"):
		return r.web.GetText(ctx, source)
	case strings.HasPrefix(source.Path, "s3://"):
		if r.s3 == nil {
			return nil, fmt.Errorf("no object storage client configured for %s", source.Path)
		}
		trimmed := source.Path
		trimmed = strings.TrimPrefix(trimmed, "s3://")
		return r.s3.GetText(ctx, loader.CorpusSource{ID: source.ID, Path: trimmed})
	default:
		return r.files.GetText(ctx, source)
	}
}

// ProcessBuildMessage handles one build job: it resolves the corpus,
// takes the domain build lease so only one worker rebuilds a given
// domain at a time, and swaps the rebuilt graph into the store.
func ProcessBuildMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	domainStore *store.DomainStore,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(BuildGraphMsg)
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}
	if data.Domain == "" {
		return fmt.Errorf("%w: build message has no domain", common.ErrInvalidParameter)
	}

	documents := make([]common.Document, 0, len(data.Documents)+len(data.Sources))
	for i, text := range data.Documents {
		documents = append(documents, common.Document{
			ID:    fmt.Sprintf("doc-%d", i),
			Text:  text,
			Index: i,
		})
	}

	if len(data.Sources) > 0 {
		sources := make([]loader.CorpusSource, len(data.Sources))
		for i, path := range data.Sources {
			sources[i] = loader.CorpusSource{
				ID:   fmt.Sprintf("src-%d", i),
				Path: path,
			}
		}
		loaded, err := loader.LoadDocuments(ctx, NewSourceRouter(s3Client), sources, 4)
		if err != nil {
			return err
		}
		offset := len(documents)
		for _, doc := range loaded {
			doc.Index += offset
			documents = append(documents, doc)
		}
	}

	if len(documents) == 0 {
		return fmt.Errorf("%w: build message has no documents or sources", common.ErrEmptyCorpus)
	}

	key := domainStore.Resolve(data.Domain)
	lockClient := leaselock.New(conn)

	return lockClient.WithLease(ctx, "domain:"+key, leaselock.Options{
		TTL:        5 * time.Minute,
		RenewEvery: 2 * time.Minute,
		Wait:       true,
	}, func(leaseCtx context.Context) error {
		start := time.Now()
		graph, err := domainStore.Rebuild(leaseCtx, data.Domain, documents, store.BuildParams{
			MaxNodes:      data.MaxNodes,
			MinEdgeWeight: data.MinEdgeWeight,
		})
		if err != nil {
			return err
		}
		logger.Info(
			"[Queue] Domain graph rebuilt",
			"domain", key,
			"nodes", len(graph.Nodes),
			"edges", len(graph.Edges),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	})
}
