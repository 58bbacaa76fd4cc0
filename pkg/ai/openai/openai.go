package openai

import (
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// DomainOpenAIClient implements the ai.DomainAIClient and ai.ImageEngine
// interfaces against OpenAI-compatible endpoints. Chat and image requests
// may target different endpoints with separate credentials.
//
// A DomainOpenAIClient should be created using NewDomainOpenAIClient.
type DomainOpenAIClient struct {
	chatModel  string
	imageModel string

	chatURL  string
	chatKey  string
	imageURL string
	imageKey string

	ChatClient  *openai.Client
	ImageClient *openai.Client
}

// NewDomainOpenAIClientParams defines the configuration parameters for
// creating a new DomainOpenAIClient.
//
// ChatModel specifies the model used for definition generation.
// ImageModel specifies the model used for cover image generation.
// ChatURL and ChatKey configure the chat API endpoint.
// ImageURL and ImageKey configure the image API endpoint.
type NewDomainOpenAIClientParams struct {
	ChatModel  string
	ImageModel string

	ChatURL  string
	ChatKey  string
	ImageURL string
	ImageKey string
}

// NewDomainOpenAIClient creates and returns a new DomainOpenAIClient
// configured with the provided parameters.
//
// Example:
//
//	params := openai.NewDomainOpenAIClientParams{
//		ChatModel:  "gpt-4o-mini",
//		ImageModel: "dall-e-3",
//		ChatKey:    os.Getenv("OPENAI_API_KEY"),
//		ImageKey:   os.Getenv("OPENAI_API_KEY"),
//	}
//	client := openai.NewDomainOpenAIClient(params)
func NewDomainOpenAIClient(
	params NewDomainOpenAIClientParams,
) *DomainOpenAIClient {
	return &DomainOpenAIClient{
		chatModel:  params.ChatModel,
		imageModel: params.ImageModel,

		chatURL:  params.ChatURL,
		chatKey:  params.ChatKey,
		imageURL: params.ImageURL,
		imageKey: params.ImageKey,

		ChatClient:  newOpenaiClient(params.ChatURL, params.ChatKey),
		ImageClient: newOpenaiClient(params.ImageURL, params.ImageKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
