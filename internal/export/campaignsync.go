package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// CampaignSyncClient pushes contract status changes back to the campaign
// service. Callers fire and forget; a failed sync is logged, never surfaced.
type CampaignSyncClient struct {
	baseURL string
	client  *http.Client
}

func NewCampaignSyncClient(baseURL string, client *http.Client) *CampaignSyncClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" || client == nil {
		return nil
	}
	return &CampaignSyncClient{baseURL: baseURL, client: client}
}

func (c *CampaignSyncClient) SetCampaignContractStatus(ctx context.Context, campaignID, status string) error {
	if c == nil {
		return nil
	}
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil
	}

	body, err := json.Marshal(map[string]string{"contract_status": status})
	if err != nil {
		return fmt.Errorf("encode sync request: %w", err)
	}
	endpoint := c.baseURL + "/campaigns/" + url.PathEscape(campaignID) + "/contract-status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("campaign sync: unexpected status %d", resp.StatusCode)
	}
	return nil
}
