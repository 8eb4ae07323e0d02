package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/collabglam/contractflow/internal/domain"
)

func sampleContract() domain.Contract {
	goLive := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	goLiveEnd := goLive.AddDate(0, 0, 14)
	effective := time.Date(2026, time.May, 4, 18, 30, 0, 0, time.UTC)
	draftDue := time.Date(2026, time.June, 4, 0, 0, 0, 0, time.UTC)

	return domain.Contract{
		ID:           "ct-1",
		BrandID:      "br-1",
		InfluencerID: "inf-1",
		Status:       domain.StatusSent,
		Brand: domain.BrandTerms{
			CampaignTitle: "Summer Launch",
			Platforms:     []string{"instagram", "tiktok"},
			GoLiveStart:   &goLive,
			GoLiveEnd:     &goLiveEnd,
			FeeMinorUnits: 1234550,
			Currency:      "usd",
			Usage: domain.UsageBundle{
				Scope:       "Organic social",
				TermMonths:  6,
				Exclusivity: true,
				PaidAds:     false,
			},
			Deliverables: []domain.Deliverable{
				{
					Type:          "reel",
					Quantity:      2,
					Format:        "9:16 video",
					DraftRequired: true,
					DraftDueDate:  &draftDue,
					MaxRevisions:  1,
					Handles:       []string{"@maia"},
				},
				{Type: "story", Quantity: 3, MaxRevisions: 1},
			},
		},
		Influencer: domain.InfluencerAcceptance{
			LegalName: "Maia Ortiz",
			Email:     "maia@example.com",
		},
		Other: domain.ProfileSnapshots{
			InfluencerProfile: domain.InfluencerProfile{
				DisplayName: "maia.creates",
				Handle:      "@maia",
				Email:       "old@example.com",
				Address:     "12 Legacy Lane, Lisbon",
			},
			BrandProfile: domain.BrandProfile{CompanyName: "Glow Co"},
		},
		Admin: domain.AdminSettings{
			Timezone:             "Europe/Berlin",
			Jurisdiction:         "Germany",
			LegalTemplateVersion: 3,
			FeePolicy:            domain.FeePolicy{PlatformFeeBps: 1250, PaymentTermsDays: 30},
		},
		EffectiveDate: &effective,
	}
}

func TestBuildTimezonePrecedence(t *testing.T) {
	c := sampleContract()

	m := Build(c, "America/New_York")
	if got := m["Contract.EffectiveTimezone"]; got != "Europe/Berlin" {
		t.Fatalf("admin timezone should win, got %q", got)
	}

	c.Admin.Timezone = ""
	m = Build(c, "America/New_York")
	if got := m["Contract.EffectiveTimezone"]; got != "America/New_York" {
		t.Fatalf("requested timezone should win, got %q", got)
	}

	c.EffectiveDateTimezone = "Asia/Tokyo"
	m = Build(c, "")
	if got := m["Contract.EffectiveTimezone"]; got != "Asia/Tokyo" {
		t.Fatalf("contract timezone should win, got %q", got)
	}

	c.EffectiveDateTimezone = "Not/AZone"
	m = Build(c, "")
	if got := m["Contract.EffectiveTimezone"]; got != "UTC" {
		t.Fatalf("expected UTC fallback, got %q", got)
	}
}

func TestBuildIdentityFallbacks(t *testing.T) {
	c := sampleContract()

	m := Build(c, "")
	if got := m["Influencer.LegalName"]; got != "Maia Ortiz" {
		t.Fatalf("acceptance payload should win, got %q", got)
	}
	if got := m["Influencer.Email"]; got != "maia@example.com" {
		t.Fatalf("acceptance email should win, got %q", got)
	}
	if got := m["Influencer.Address"]; got != "12 Legacy Lane, Lisbon" {
		t.Fatalf("legacy address fallback expected, got %q", got)
	}

	c.Influencer = domain.InfluencerAcceptance{
		AddressLine1: "Hauptstr. 1",
		City:         "Berlin",
		PostalCode:   "10115",
		Country:      "Germany",
	}
	m = Build(c, "")
	if got := m["Influencer.LegalName"]; got != "maia.creates" {
		t.Fatalf("profile display name fallback expected, got %q", got)
	}
	if got := m["Influencer.Address"]; got != "Hauptstr. 1, Berlin, 10115, Germany" {
		t.Fatalf("structured address expected, got %q", got)
	}
}

func TestBuildFormatting(t *testing.T) {
	m := Build(sampleContract(), "")

	if got := m["Fee.Amount"]; got != "12,345.50 USD" {
		t.Fatalf("money formatting: got %q", got)
	}
	if got := m["Fee.PlatformPercent"]; got != "12.50%" {
		t.Fatalf("bps formatting: got %q", got)
	}
	if got := m["Usage.Exclusivity"]; got != "Yes" {
		t.Fatalf("bool formatting: got %q", got)
	}
	if got := m["Usage.PaidAds"]; got != "No" {
		t.Fatalf("bool formatting: got %q", got)
	}
	if got := m["Deliverables.Count"]; got != "2" {
		t.Fatalf("deliverable count: got %q", got)
	}
	if got := m["Deliverables.Total"]; got != "5" {
		t.Fatalf("deliverable total: got %q", got)
	}
}

func TestBuildDeliverableAliases(t *testing.T) {
	m := Build(sampleContract(), "")

	if m["Deliverables[0].Type"] != "reel" || m["Deliverables.1.Type"] != "reel" {
		t.Fatalf("first deliverable addressing broken: %q / %q",
			m["Deliverables[0].Type"], m["Deliverables.1.Type"])
	}
	if m["Deliverables[1].Type"] != "story" || m["Deliverables.2.Type"] != "story" {
		t.Fatalf("second deliverable addressing broken: %q / %q",
			m["Deliverables[1].Type"], m["Deliverables.2.Type"])
	}
	for name := range m {
		if strings.HasPrefix(name, "Deliverables[2]") || strings.HasPrefix(name, "Deliverables.3.") {
			t.Fatalf("unexpected token %q beyond deliverable count", name)
		}
	}
}

func TestBuildTableBlobs(t *testing.T) {
	c := sampleContract()
	c.Brand.Deliverables[0].Type = "reel <script>"
	m := Build(c, "")

	table := m[TokenDeliverablesTable]
	if !strings.Contains(table, "reel &lt;script&gt;") {
		t.Fatalf("cell values must be escaped: %s", table)
	}
	if !strings.HasPrefix(table, `<table class="deliverables">`) {
		t.Fatalf("unexpected table markup: %s", table)
	}
	if !strings.Contains(m[TokenUsageTable], "6 months") {
		t.Fatalf("usage term missing: %s", m[TokenUsageTable])
	}
	if !strings.Contains(m[TokenAcceptanceTable], "Maia Ortiz") {
		t.Fatalf("acceptance table missing legal name: %s", m[TokenAcceptanceTable])
	}
}

func TestBuildSignatureTimestamps(t *testing.T) {
	c := sampleContract()
	c.Admin.Timezone = ""
	signedAt := time.Date(2026, time.May, 4, 18, 30, 0, 0, time.UTC)
	lockedAt := time.Date(2026, time.May, 4, 20, 0, 0, 0, time.UTC)
	c.Signatures.Brand = domain.Signature{Signed: true, At: &signedAt}
	c.LockedAt = &lockedAt

	m := Build(c, "")
	if got := m["Signatures.Brand.SignedAt"]; got != "May 4, 2026 at 6:30 PM UTC" {
		t.Fatalf("signed-at formatting: got %q", got)
	}
	if got := m["Signatures.Influencer.SignedAt"]; got != "" {
		t.Fatalf("unsigned slot must render empty, got %q", got)
	}
	if got := m["Contract.LockedAt"]; got != "May 4, 2026 at 8:00 PM UTC" {
		t.Fatalf("locked-at formatting: got %q", got)
	}
}

func TestBuildDeterministic(t *testing.T) {
	c := sampleContract()
	first := Build(c, "")
	for i := 0; i < 5; i++ {
		next := Build(c, "")
		if len(next) != len(first) {
			t.Fatalf("token map size changed between builds: %d vs %d", len(next), len(first))
		}
		for name, value := range first {
			if next[name] != value {
				t.Fatalf("token %q changed between builds: %q vs %q", name, value, next[name])
			}
		}
	}
}
