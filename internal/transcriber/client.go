package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ngthtai/transcript-flow/internal/domain"
)

type implClient struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

// Option configures the transcription client.
type Option func(*implClient)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *implClient) {
		c.httpClient = httpClient
	}
}

// New creates a Transcriber backed by an OpenAI-compatible
// audio/transcriptions endpoint.
func New(baseURL, model, apiKey string, opts ...Option) Transcriber {
	c := &implClient{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 5 * time.Minute}
	}

	return c
}

// transcribeResponse is the JSON body of a successful transcription call.
type transcribeResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the chunk as multipart form data and returns the
// recognized text. Failures carry the pipeline error taxonomy so the
// worker pool can decide whether to retry.
func (c *implClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if c.apiKey == "" {
		return "", domain.NewError(domain.AUTH_ERROR, "missing transcription API key", nil)
	}

	audio, err := os.Open(audioPath)
	if err != nil {
		return "", domain.NewError(domain.INVALID_INPUT, fmt.Sprintf("open chunk %s", audioPath), err)
	}
	defer audio.Close()

	body := &bytes.Buffer{}
	mp := multipart.NewWriter(body)

	field, err := mp.CreateFormField("model")
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	field.Write([]byte(c.model))

	if field, err = mp.CreateFormField("response_format"); err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	field.Write([]byte("json"))

	file, err := mp.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if _, err = io.Copy(file, audio); err != nil {
		return "", fmt.Errorf("read chunk: %w", err)
	}
	mp.Close()

	url := strings.TrimRight(c.baseURL, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mp.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.NewError(domain.SERVER_ERROR, "transcription request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", classifyStatus(resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var tr transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", domain.NewError(domain.SERVER_ERROR, "decode transcription response", err)
	}

	return tr.Text, nil
}

// classifyStatus maps an HTTP status to the pipeline error taxonomy.
// Rate limits and server faults are retryable; auth and payload problems
// are not.
func classifyStatus(code int, detail string) error {
	msg := fmt.Sprintf("transcription service returned HTTP %d: %s", code, detail)

	switch {
	case code == http.StatusTooManyRequests:
		return domain.NewError(domain.RATE_LIMITED, msg, nil)
	case code >= 500:
		return domain.NewError(domain.SERVER_ERROR, msg, nil)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return domain.NewError(domain.AUTH_ERROR, msg, nil)
	default:
		return domain.NewError(domain.INVALID_INPUT, msg, nil)
	}
}
