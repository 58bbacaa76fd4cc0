package s3

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"

	"github.com/newsroom-labs/domaingraph/pkg/loader"
)

// S3CorpusLoader loads corpus documents from an Amazon S3 bucket using
// the AWS SDK v2. It is useful when corpus texts live in object storage
// instead of the local filesystem.
type S3CorpusLoader struct {
	bucket string
	client *s3.Client

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3CorpusLoader creates a new S3CorpusLoader over an existing
// s3.Client, so loaders share the preconfigured AWS client.
func NewS3CorpusLoader(bucket string, client *s3.Client) *S3CorpusLoader {
	return &S3CorpusLoader{
		bucket: bucket,
		client: client,
		cache:  make(map[string][]byte),
	}
}

// GetText downloads the object at the source path. Results are cached,
// and concurrent requests for the same source share one download.
func (l *S3CorpusLoader) GetText(ctx context.Context, source loader.CorpusSource) ([]byte, error) {
	key := loader.CacheKey(source)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		object, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(source.Path),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get object from S3: %w", err)
		}
		defer object.Body.Close()

		content, err := io.ReadAll(object.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read object contents: %w", err)
		}

		l.cacheMu.Lock()
		l.cache[key] = content
		l.cacheMu.Unlock()

		return content, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
