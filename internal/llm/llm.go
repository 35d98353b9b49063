package llm

import (
	"errors"
	"os"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/chemeconai/chemecon/internal/common"
	"github.com/chemeconai/chemecon/internal/llm/providers"
)

type Message = providers.Message

type ChatRequest = providers.ChatRequest

type Provider = providers.Provider

const (
	groqBaseURL      = "https://api.groq.com/openai/v1"
	groqDefaultModel = "llama3-8b-8192"
)

// NewProvider selects the chat backend from the environment. OPENAI_API_KEY
// wins; GROQ_API_KEY configures the same client against Groq's
// OpenAI-compatible endpoint. Without either key a deterministic local stub
// is used.
func NewProvider() Provider {
	logger := common.Logger()
	if apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); apiKey != "" {
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if endpoint := strings.TrimSpace(os.Getenv("OPENAI_ENDPOINT")); endpoint != "" {
			logger.Info("llm: using custom endpoint", "endpoint", endpoint)
			opts = append(opts, option.WithBaseURL(endpoint))
		}
		opts = appendTimeout(opts)
		client := openai.NewClient(opts...)
		logger.Info("llm: OpenAI provider selected")
		return providers.NewOpenAIProvider(client, os.Getenv("OPENAI_CHAT_MODEL"), "openai")
	}
	if apiKey := strings.TrimSpace(os.Getenv("GROQ_API_KEY")); apiKey != "" {
		opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithBaseURL(groqBaseURL)}
		opts = appendTimeout(opts)
		client := openai.NewClient(opts...)
		model := strings.TrimSpace(os.Getenv("GROQ_CHAT_MODEL"))
		if model == "" {
			model = groqDefaultModel
		}
		logger.Info("llm: Groq provider selected")
		return providers.NewOpenAIProvider(client, model, "groq")
	}
	logger.Warn("llm: no API key set; falling back to local provider")
	return providers.NewLocalProvider()
}

func appendTimeout(opts []option.RequestOption) []option.RequestOption {
	logger := common.Logger()
	timeoutStr := strings.TrimSpace(os.Getenv("OPENAI_HTTP_TIMEOUT"))
	if timeoutStr == "" {
		return opts
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		logger.Warn("llm: invalid OPENAI_HTTP_TIMEOUT, using default", "value", timeoutStr, "error", err)
		return opts
	}
	logger.Info("llm: using custom HTTP timeout", "timeout", timeout)
	return append(opts, option.WithRequestTimeout(timeout))
}

// NormalizeMessages lower-cases roles and rejects empty conversations.
func NormalizeMessages(messages []Message) ([]Message, error) {
	if len(messages) == 0 {
		return nil, errors.New("no messages provided")
	}
	for i := range messages {
		messages[i].Role = strings.ToLower(messages[i].Role)
	}
	return messages, nil
}
