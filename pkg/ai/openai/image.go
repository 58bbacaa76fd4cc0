package openai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
)

// ID returns the engine identifier used in fallback candidate lists.
func (c *DomainOpenAIClient) ID() string {
	return c.imageModel
}

// Available reports whether the image endpoint is configured.
func (c *DomainOpenAIClient) Available() bool {
	return c.ImageClient != nil && c.imageModel != ""
}

// GenerateImage sends a generation request to the image model and returns
// the URL of the generated image. Size uses the "WIDTHxHEIGHT" form, for
// example "1024x1024".
func (c *DomainOpenAIClient) GenerateImage(
	ctx context.Context,
	prompt string,
	size string,
) (string, error) {
	if !c.Available() {
		return "", errors.New("image client not configured")
	}

	body := openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(c.imageModel),
		Size:   openai.ImageGenerateParamsSize(size),
		N:      openai.Int(1),
	}

	response, err := c.ImageClient.Images.Generate(ctx, body)
	if err != nil {
		return "", err
	}
	if len(response.Data) == 0 {
		return "", fmt.Errorf("no image in response from model")
	}

	return response.Data[0].URL, nil
}
