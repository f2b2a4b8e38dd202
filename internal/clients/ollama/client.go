package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/novinresanehco/lifeos-backend/internal/pkg/envutil"
	"github.com/novinresanehco/lifeos-backend/internal/pkg/logger"
	"github.com/novinresanehco/lifeos-backend/internal/platform/apierr"
)

const (
	defaultBaseURL    = "http://localhost:11434"
	discoveryTimeout  = 3 * time.Second
	generationTimeout = 30 * time.Second
)

type Client interface {
	// ListModels returns the names of the models the inference server
	// currently serves. Bounded by the discovery timeout.
	ListModels(ctx context.Context) ([]string, error)
	// Generate produces one completion for one prompt on one named model.
	// Bounded by the generation timeout.
	Generate(ctx context.Context, model, prompt string, params map[string]any) (string, error)
	BaseURL() string
}

type client struct {
	httpClient *http.Client
	log        *logger.Logger
	baseURL    string
}

func NewClient(log *logger.Logger) Client {
	return NewClientWithBaseURL(log, envutil.Str("OLLAMA_BASE_URL", defaultBaseURL))
}

func NewClientWithBaseURL(log *logger.Logger, baseURL string) Client {
	return &client{
		httpClient: &http.Client{},
		log:        log.With("client", "OllamaClient"),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *client) BaseURL() string { return c.baseURL }

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (c *client) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, discoveryTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, apierr.Network(err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apierr.Upstream(fmt.Errorf("ollama tags: %s", resp.Status))
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, apierr.Upstream(fmt.Errorf("decode tags response: %w", err))
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (c *client) Generate(ctx context.Context, model, prompt string, params map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	body := map[string]any{
		"model":  model,
		"prompt": prompt,
	}
	for k, v := range params {
		body[k] = v
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return "", apierr.Validation(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(encoded))
	if err != nil {
		return "", apierr.Network(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apierr.Upstream(fmt.Errorf("ollama generate: %s", resp.Status))
	}

	text, chunkErrs := assembleStream(resp.Body)
	for _, chunkErr := range chunkErrs {
		c.log.Warn("Skipping malformed stream chunk", "model", model, "error", chunkErr)
	}
	if err := ctx.Err(); err != nil {
		return "", apierr.Timeout(err)
	}
	return text, nil
}

type generateChunk struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// assembleStream folds a newline-delimited JSON stream into the final text.
// Malformed lines contribute nothing to the result and are collected as a
// side channel; a single corrupt chunk never aborts the whole completion.
func assembleStream(r io.Reader) (string, []error) {
	var (
		builder   strings.Builder
		chunkErrs []error
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var chunk generateChunk
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			chunkErrs = append(chunkErrs, fmt.Errorf("chunk %q: %w", truncate(line, 80), err))
			continue
		}
		builder.WriteString(chunk.Response)
	}
	if err := scanner.Err(); err != nil {
		chunkErrs = append(chunkErrs, err)
	}
	return builder.String(), chunkErrs
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "deadline exceeded") {
		return apierr.Timeout(err)
	}
	return apierr.Network(err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
