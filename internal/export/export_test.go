package export

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDocumentClientRender(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/render" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-fake"))
	}))
	defer server.Close()

	client := NewDocumentClient(server.URL, server.Client())
	out, err := client.Render(context.Background(), "<html>doc</html>")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != "%PDF-fake" {
		t.Fatalf("unexpected body %q", out)
	}
	if gotBody["html"] != "<html>doc</html>" {
		t.Fatalf("request body %v", gotBody)
	}
}

func TestDocumentClientServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewDocumentClient(server.URL, server.Client())
	_, err := client.Render(context.Background(), "x")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNilDocumentClientIsUnavailable(t *testing.T) {
	var client *DocumentClient
	_, err := client.Render(context.Background(), "x")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCampaignSyncClient(t *testing.T) {
	var gotPath string
	var gotStatus string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotStatus = body["contract_status"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewCampaignSyncClient(server.URL, server.Client())
	if err := client.SetCampaignContractStatus(context.Background(), "cmp-1", "locked"); err != nil {
		t.Fatalf("SetCampaignContractStatus: %v", err)
	}
	if gotPath != "/campaigns/cmp-1/contract-status" {
		t.Fatalf("path=%q", gotPath)
	}
	if gotStatus != "locked" {
		t.Fatalf("status=%q", gotStatus)
	}
}

func TestNilCampaignSyncClientIsNoop(t *testing.T) {
	var client *CampaignSyncClient
	if err := client.SetCampaignContractStatus(context.Background(), "cmp-1", "sent"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Timeout: 10 * time.Second}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	cfg.TokenURL = "https://issuer/token"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing client id error")
	}
	cfg.ClientID = "cf"
	cfg.ClientSecret = "secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
