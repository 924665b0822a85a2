package llm

import (
	"errors"

	"docindex/config"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
)

// NewClient builds the provider client from configuration. With an Azure
// endpoint configured, requests are routed to the deployment through the
// endpoint with the configured api-version; otherwise the key is used
// against the public OpenAI API. Automatic retries are disabled; callers
// get exactly one attempt per request.
func NewClient() (openai.Client, error) {
	cfg := config.Cfg.Azure
	if cfg.Key == "" {
		return openai.Client{}, errors.New("missing provider key")
	}
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.Endpoint != "" {
		opts = append(opts,
			azure.WithEndpoint(cfg.Endpoint, cfg.APIVersion),
			azure.WithAPIKey(cfg.Key),
		)
	} else {
		opts = append(opts, option.WithAPIKey(cfg.Key))
	}
	return openai.NewClient(opts...), nil
}

// ChatModel returns the model identifier sent with chat requests: the Azure
// deployment name when one is configured, else the plain model name.
func ChatModel() string {
	cfg := config.Cfg.Azure
	if cfg.Endpoint != "" && cfg.Deployment != "" {
		return cfg.Deployment
	}
	return cfg.Model
}

// EmbeddingModel returns the embeddings model (or deployment) name.
func EmbeddingModel() string {
	return config.Cfg.Azure.EmbeddingModel
}
