package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// S3CoverArchive stores rendered cover images in the configured bucket
// and hands out presigned download links for the stored copies.
//
// An S3CoverArchive should be created using NewS3CoverArchive.
type S3CoverArchive struct {
	client *s3.Client
}

// NewS3CoverArchive creates a cover archive over an existing S3 client.
func NewS3CoverArchive(client *s3.Client) *S3CoverArchive {
	return &S3CoverArchive{client: client}
}

// ArchiveCover downloads an engine-hosted image, stores it under the
// domain's cover prefix, and returns a presigned download link.
func (a *S3CoverArchive) ArchiveCover(ctx context.Context, domain string, imageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download rendered image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("failed to download rendered image: status %d", resp.StatusCode)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read rendered image: %w", err)
	}

	key, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate cover key: %w", err)
	}

	objectKey, err := PutCoverImage(ctx, a.client, domain, key, bytes.NewReader(image))
	if err != nil {
		return "", err
	}

	return GenerateDownloadLink(ctx, a.client, objectKey)
}
