package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

type httpProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTP creates a Provider backed by the retrieval service at baseURL.
func NewHTTP(cfg *Config) Provider {
	return &httpProvider{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
	}
}

type retrieveRequest struct {
	DocumentID    uuid.UUID `json:"document_id"`
	CriterionText string    `json:"criterion_text"`
	TopK          int       `json:"top_k"`
}

type retrieveResponse struct {
	Chunks []Chunk `json:"chunks"`
}

func (p *httpProvider) Retrieve(ctx context.Context, documentID uuid.UUID, criterionText string, topK int) ([]Chunk, error) {
	body, err := json.Marshal(retrieveRequest{
		DocumentID:    documentID,
		CriterionText: criterionText,
		TopK:          topK,
	})
	if err != nil {
		return nil, wrap(err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/retrieve",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, wrap(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, wrap(fmt.Errorf("provider returned %d", resp.StatusCode))
	}

	var parsed retrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, wrap(err)
	}

	return parsed.Chunks, nil
}

// Config holds context provider connection parameters.
type Config struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
	TopK    int    `toml:"top_k"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL string
	Timeout string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.TopK != 0 {
		c.TopK = overlay.TopK
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.TopK == 0 {
		c.TopK = 5
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.BaseURL != "" {
		if v := os.Getenv(env.BaseURL); v != "" {
			c.BaseURL = v
		}
	}
	if env.Timeout != "" {
		if v := os.Getenv(env.Timeout); v != "" {
			c.Timeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be positive")
	}
	return nil
}
