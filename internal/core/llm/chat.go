package llm

import (
	"context"
	"errors"
	"strings"

	"docindex/config"
	"docindex/pkg/logger"
)

type chatMessage struct {
	Role string `json:"role"`
	// Content is either a plain string or a slice of contentPart for
	// multimodal messages.
	Content any `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete runs a single chat completion with a system and a user message
// and returns the generated text.
func Complete(ctx context.Context, systemMsg, userMsg string) (string, error) {
	return complete(ctx, []chatMessage{
		{Role: "system", Content: systemMsg},
		{Role: "user", Content: userMsg},
	})
}

func complete(ctx context.Context, messages []chatMessage) (string, error) {
	client, err := NewClient()
	if err != nil {
		return "", err
	}
	maxTokens := config.Cfg.Azure.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}
	req := chatRequest{
		Model:       ChatModel(),
		Temperature: config.Cfg.Azure.Temperature,
		MaxTokens:   maxTokens,
		Messages:    messages,
	}
	var out chatResponse
	if err := client.Post(ctx, "/chat/completions", req, &out); err != nil {
		logger.Error(err, "%v: chat completion failed", config.ModuleAzure)
		return "", err
	}
	if out.Error != nil {
		return "", errors.New(out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
