package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DocumentClient asks the headless renderer to turn the final HTML into a
// document. It never mutates lifecycle state.
type DocumentClient struct {
	baseURL string
	client  *http.Client
}

func NewDocumentClient(baseURL string, client *http.Client) *DocumentClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" || client == nil {
		return nil
	}
	return &DocumentClient{baseURL: baseURL, client: client}
}

func (c *DocumentClient) Render(ctx context.Context, html string) ([]byte, error) {
	if c == nil {
		return nil, ErrUnavailable
	}

	body, err := json.Marshal(map[string]string{"html": html})
	if err != nil {
		return nil, fmt.Errorf("encode render request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("render: unexpected status %d", resp.StatusCode)
	}

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read render response: %w", err)
	}
	return out, nil
}
