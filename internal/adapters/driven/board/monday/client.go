package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nativz/cortex-sync/internal/core/domain"
	"github.com/nativz/cortex-sync/internal/retry"
)

// DefaultAPIURL is the public monday.com GraphQL endpoint.
const DefaultAPIURL = "https://api.monday.com/v2"

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// apiVersion pins the monthly API release the queries are written for.
const apiVersion = "2024-10"

// Client is a thin typed wrapper over the GraphQL endpoint.
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
	log        zerolog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAPIURL points the client at a different endpoint.
func WithAPIURL(u string) ClientOption {
	return func(c *Client) {
		c.apiURL = u
	}
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient builds a GraphQL client authenticated with an API token.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		apiURL:     DefaultAPIURL,
		token:      token,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

// Query executes one GraphQL operation and decodes the data payload
// into out. Transient upstream failures are retried with backoff;
// GraphQL-level errors are terminal.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}

	return retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", c.token)
		req.Header.Set("API-Version", apiVersion)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("calling board API: %w", err)
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("board query: %w", domain.ErrUnauthorized)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &domain.UpstreamError{
				Service:    "monday",
				StatusCode: resp.StatusCode,
				Message:    truncateBody(payload),
			}
		}

		var gql graphqlResponse
		if err := json.Unmarshal(payload, &gql); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		if len(gql.Errors) > 0 {
			messages := make([]string, len(gql.Errors))
			for i, e := range gql.Errors {
				messages[i] = e.Message
			}
			return fmt.Errorf("board query: %s", strings.Join(messages, "; "))
		}

		if out != nil {
			if err := json.Unmarshal(gql.Data, out); err != nil {
				return fmt.Errorf("decoding data: %w", err)
			}
		}
		return nil
	})
}

func truncateBody(b []byte) string {
	const max = 512
	s := string(b)
	if len(s) > max {
		return s[:max]
	}
	return s
}
