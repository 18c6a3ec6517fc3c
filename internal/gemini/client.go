// Package gemini adapts the Google Generative AI SDK to chat.Completer.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/batchsub/internal/apperrors"
	"github.com/oukeidos/batchsub/internal/chat"
	"github.com/oukeidos/batchsub/internal/httpclient"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.0-flash"

// Client handles communication with the Gemini API.
type Client struct {
	client *genai.Client
}

// NewClient creates a new Gemini client.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	// option.WithHTTPClient drops the API key header injection in genai, so
	// the timeout is enforced through the context in Complete instead.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, apperrors.New(apperrors.KindConfig, "Gemini client could not be created.", err)
	}
	return &Client{client: client}, nil
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	return c.client.Close()
}

var _ chat.Completer = (*Client)(nil)

// Complete sends one plain-text generation request. The model handle is built
// per call so concurrent callers never share a system instruction.
func (c *Client) Complete(ctx context.Context, req chat.Request) chat.Result {
	ctx, cancel := context.WithTimeout(ctx, httpclient.DefaultTimeout)
	defer cancel()

	model := c.client.GenerativeModel(req.Model)
	model.ResponseMIMEType = "text/plain"
	model.SetTemperature(req.Temperature)
	if strings.TrimSpace(req.System) != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		return chat.Failure(classifyGeminiError(err))
	}

	if resp.UsageMetadata != nil {
		slog.Debug("Gemini API Response",
			"prompt_tokens", resp.UsageMetadata.PromptTokenCount,
			"candidate_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"usage_total", resp.UsageMetadata.TotalTokenCount,
		)
	}

	text, err := extractResponseText(resp)
	if err != nil {
		return chat.Failure(apperrors.Validation(err))
	}
	return chat.Success(text)
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", fmt.Errorf("prompt blocked by Gemini: %s", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var b strings.Builder
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
		if b.Len() > 0 {
			return b.String(), nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}
