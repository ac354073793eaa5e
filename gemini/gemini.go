// Package gemini is a minimal client for the Google Generative Language API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
)

const DefaultHost = "https://generativelanguage.googleapis.com"

// RequestTimeout bounds a single generation call.
const RequestTimeout = 30 * time.Second

type Client struct {
	host   string
	apiKey string
	model  string
	client *http.Client
}

func NewClient(host string, apiKey string, model string) *Client {
	return &Client{
		host:   host,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: RequestTimeout},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate submits a prompt to the configured model and returns its text
// response. The response may be empty; callers decide how to handle that.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.host, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call model %s: %w", c.model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Surface the response body so quota and auth errors are diagnosable
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Errorf("generation request rejected: %s", snippet)
		return "", fmt.Errorf("model %s returned status %d", c.model, resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return "", fmt.Errorf("model %s returned no candidates", c.model)
	}

	var texts []string
	for _, p := range decoded.Candidates[0].Content.Parts {
		if p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.TrimSpace(strings.Join(texts, "")), nil
}
