package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	defaultChatTimeout   = 120 * time.Second
	defaultOllamaBaseURL = "http://localhost:11434/v1"
	defaultOllamaModel   = "mistral"
	// Ollama ignores the key, but the SDK always sends one.
	ollamaPlaceholderKey = "ollama"
)

// Options configures an OpenAIClient.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIClient calls an OpenAI-compatible Chat Completions API.
type OpenAIClient struct {
	model   openai.ChatModel
	timeout time.Duration
	client  *openai.Client
}

// NewOpenAIClient builds a client against api.openai.com, or opts.BaseURL when set.
func NewOpenAIClient(opts Options) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if opts.Model == "" {
		opts.Model = string(openai.ChatModelGPT4oMini)
	}
	return newClient(opts), nil
}

// NewOllamaClient builds a client against a local Ollama server through its
// OpenAI-compatible endpoint.
func NewOllamaClient(opts Options) (*OpenAIClient, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultOllamaBaseURL
	}
	if opts.APIKey == "" {
		opts.APIKey = ollamaPlaceholderKey
	}
	if opts.Model == "" {
		opts.Model = defaultOllamaModel
	}
	return newClient(opts), nil
}

func newClient(opts Options) *OpenAIClient {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultChatTimeout
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		// Failures surface to the caller on the first attempt.
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	cli := openai.NewClient(reqOpts...)
	return &OpenAIClient{
		model:   openai.ChatModel(opts.Model),
		timeout: opts.Timeout,
		client:  &cli,
	}
}

// Model reports the configured model name.
func (c *OpenAIClient) Model() string {
	return string(c.model)
}

func (c *OpenAIClient) Invoke(ctx context.Context, messages []Message) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("nil openai client")
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("openai: no messages")
	}
	params, err := buildMessages(messages)
	if err != nil {
		return "", err
	}
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	resp, err := c.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: params,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildMessages(messages []Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(m.Content),
					},
				},
			})
		case RoleUser:
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(m.Content),
					},
				},
			})
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			return nil, fmt.Errorf("openai: unsupported message role %q", m.Role)
		}
	}
	return out, nil
}
