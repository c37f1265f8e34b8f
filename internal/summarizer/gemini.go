package summarizer

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/ngthtai/transcript-flow/internal/domain"
)

// callGemini sends one prompt to Gemini and returns the generated text.
// Quota errors rotate to the next API key before the pool retries.
func (s *implSummarizer) callGemini(ctx context.Context, model, prompt string) (string, error) {
	key := s.pickKey()
	if key == "" {
		return "", domain.NewError(domain.AUTH_ERROR, "no summarization API keys configured", nil)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", domain.NewError(domain.SERVER_ERROR, "create genai client", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		cerr := classifyGenerateError(err)
		if domain.CodeOf(cerr) == domain.RATE_LIMITED {
			s.rotateKey()
		}
		return "", cerr
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
		if text.Len() > 0 {
			return text.String(), nil
		}
	}

	return "", domain.NewError(domain.SERVER_ERROR, "empty response from model", nil)
}

// classifyGenerateError maps genai failures onto the pipeline taxonomy.
// The SDK surfaces HTTP details in the error text, so this is a string
// classification.
func classifyGenerateError(err error) error {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return domain.NewError(domain.RATE_LIMITED, "model quota exhausted", err)
	case strings.Contains(msg, "401"),
		strings.Contains(msg, "403"),
		strings.Contains(msg, "API key"):
		return domain.NewError(domain.AUTH_ERROR, "model rejected credentials", err)
	case strings.Contains(msg, "400"),
		strings.Contains(msg, "INVALID_ARGUMENT"):
		return domain.NewError(domain.INVALID_INPUT, "model rejected request", err)
	default:
		return domain.NewError(domain.SERVER_ERROR, "generate content failed", err)
	}
}

func (s *implSummarizer) pickKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.opts.APIKeys) == 0 {
		return ""
	}
	return s.opts.APIKeys[s.currentKey%len(s.opts.APIKeys)]
}

func (s *implSummarizer) rotateKey() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.opts.APIKeys) > 1 {
		s.currentKey = (s.currentKey + 1) % len(s.opts.APIKeys)
	}
}
