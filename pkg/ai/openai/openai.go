package openai

import (
	"sync"

	"github.com/vats98754/auto-kg/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// GraphOpenAIClient implements ai.GraphAIClient against any
// OpenAI-compatible chat completion API.
type GraphOpenAIClient struct {
	completionModel string
	inferenceModel  string

	chatURL string
	chatKey string

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient *openai.Client
}

// NewGraphOpenAIClientParams defines the configuration for creating a
// new GraphOpenAIClient. CompletionModel is used for free-form text,
// InferenceModel for structured relationship classification; when
// InferenceModel is empty, CompletionModel is used for both.
type NewGraphOpenAIClientParams struct {
	CompletionModel string
	InferenceModel  string

	ChatURL string
	ChatKey string
}

// NewGraphOpenAIClient creates and returns a new client configured with
// the provided parameters.
func NewGraphOpenAIClient(params NewGraphOpenAIClientParams) *GraphOpenAIClient {
	inferenceModel := params.InferenceModel
	if inferenceModel == "" {
		inferenceModel = params.CompletionModel
	}

	return &GraphOpenAIClient{
		completionModel: params.CompletionModel,
		inferenceModel:  inferenceModel,
		chatURL:         params.ChatURL,
		chatKey:         params.ChatKey,
		ChatClient:      newOpenAIClient(params.ChatURL, params.ChatKey),
	}
}

func newOpenAIClient(baseURL string, apiKey string) *openai.Client {
	opts := []option.RequestOption{}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	client := openai.NewClient(opts...)
	return &client
}

func (c *GraphOpenAIClient) modifyMetrics(delta ai.ModelMetrics) {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()

	c.metrics.InputTokens += delta.InputTokens
	c.metrics.OutputTokens += delta.OutputTokens
	c.metrics.TotalTokens += delta.TotalTokens
	c.metrics.DurationMs += delta.DurationMs
}

// ResetMetrics clears the accumulated usage metrics.
func (c *GraphOpenAIClient) ResetMetrics() {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	c.metrics = ai.ModelMetrics{}
}

// GetMetrics returns the accumulated usage metrics.
func (c *GraphOpenAIClient) GetMetrics() ai.ModelMetrics {
	c.metricsLock.Lock()
	defer c.metricsLock.Unlock()
	return c.metrics
}
