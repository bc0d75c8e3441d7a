// Package openai generates chunk and query embeddings through the
// OpenAI embeddings API. The adapter is optional: when no API key is
// configured the composition root passes a nil EmbeddingService and the
// pipeline runs in full-text-only mode.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nativz/cortex-sync/internal/core/domain"
	"github.com/nativz/cortex-sync/internal/core/ports/driven"
	"github.com/nativz/cortex-sync/internal/retry"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second
)

var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config holds the embedding adapter configuration.
type Config struct {
	// APIKey authenticates with the API (required).
	APIKey string

	// BaseURL overrides the endpoint, for Azure or compatible APIs.
	BaseURL string

	// Model selects the embedding model.
	Model string

	// Timeout bounds each request.
	Timeout time.Duration

	// Dimensions overrides the model's native vector size. Must match
	// the index store's vector column.
	Dimensions int
}

// EmbeddingService calls the OpenAI embeddings endpoint.
type EmbeddingService struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	dimensions int
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewEmbeddingService validates the config and builds the adapter.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w: API key missing", domain.ErrNotConfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	dimensions := cfg.Dimensions
	if dimensions == 0 {
		var ok bool
		if dimensions, ok = modelDimensions[cfg.Model]; !ok {
			dimensions = 1536
		}
	}

	return &EmbeddingService{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: dimensions,
	}, nil
}

// Embed generates one embedding.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 || embeddings[0] == nil {
		return nil, fmt.Errorf("openai: no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for several texts in one call,
// returned in input order. Transient API failures are retried with
// backoff.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := embeddingRequest{Model: s.model, Input: texts}
	// Only the text-embedding-3-* models accept a dimensions override.
	if s.model == "text-embedding-3-small" || s.model == "text-embedding-3-large" {
		reqBody.Dimensions = s.dimensions
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	var embeddings [][]float32
	err = retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embeddings", bytes.NewReader(jsonBody))
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.apiKey)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("calling embeddings API: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("embeddings: %w", domain.ErrUnauthorized)
		}
		if resp.StatusCode != http.StatusOK {
			message := string(body)
			var apiErr embeddingResponse
			if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != nil {
				message = apiErr.Error.Message
			}
			return &domain.UpstreamError{
				Service:    "openai",
				StatusCode: resp.StatusCode,
				Message:    message,
			}
		}

		var decoded embeddingResponse
		if err := json.Unmarshal(body, &decoded); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		if decoded.Error != nil {
			return fmt.Errorf("openai: %s", decoded.Error.Message)
		}

		embeddings = make([][]float32, len(texts))
		for _, data := range decoded.Data {
			if data.Index < 0 || data.Index >= len(texts) {
				return fmt.Errorf("openai: embedding index %d out of range", data.Index)
			}
			vec := make([]float32, len(data.Embedding))
			for i, v := range data.Embedding {
				vec[i] = float32(v)
			}
			embeddings[data.Index] = vec
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the configured model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}
