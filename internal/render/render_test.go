package render

import (
	"strings"
	"testing"
	"time"

	"github.com/collabglam/contractflow/internal/domain"
	"github.com/collabglam/contractflow/internal/tokens"
)

func TestSubstituteTokens(t *testing.T) {
	tm := map[string]string{
		"Campaign.Title": "Summer Launch",
		"Fee.Amount":     "1,000.00 USD",
	}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "plain token",
			template: "Campaign: {{Campaign.Title}}",
			want:     "Campaign: Summer Launch",
		},
		{
			name:     "parenthetical hint is stripped before lookup",
			template: "Fee: {{Fee.Amount (gross, before platform fee)}}",
			want:     "Fee: 1,000.00 USD",
		},
		{
			name:     "unknown token becomes empty",
			template: "X{{Not.A.Token}}Y",
			want:     "XY",
		},
		{
			name:     "whitespace inside braces",
			template: "{{ Campaign.Title }}",
			want:     "Summer Launch",
		},
	}

	for _, tc := range tests {
		if got := SubstituteTokens(tc.template, tm); got != tc.want {
			t.Fatalf("%s: expected %q got %q", tc.name, tc.want, got)
		}
	}
}

func TestSubstituteNeverEmitsUnescapedUserHTML(t *testing.T) {
	tm := map[string]string{"Campaign.Title": `<img src=x onerror=alert(1)>`}
	out := LegalTextToHTML(SubstituteTokens("Title: {{Campaign.Title}}", tm))
	if strings.Contains(out, "<img") {
		t.Fatalf("user value leaked unescaped markup: %s", out)
	}
	if !strings.Contains(out, "&lt;img") {
		t.Fatalf("expected escaped value in output: %s", out)
	}
}

func TestLegalTextToHTMLStructure(t *testing.T) {
	text := strings.Join([]string{
		"Influencer Collaboration Agreement for Summer Launch",
		"",
		"This document sets out the terms.",
		"Second line of the same paragraph.",
		"",
		"1. Engagement",
		"a. First sub-item.",
		"b) Second sub-item.",
		"- first bullet",
		"- second bullet",
		"",
		"Schedule A – Deliverables",
		"Schedule C – Acceptance Details",
		"Schedule D – Extra Annex",
		"Signatures",
	}, "\n")

	out := LegalTextToHTML(text)

	if !strings.Contains(out, `<h1 class="agreement-title">Influencer Collaboration Agreement for Summer Launch</h1>`) {
		t.Fatalf("missing title: %s", out)
	}
	if strings.Count(out, `<h1 class="agreement-title">`) != 1 {
		t.Fatalf("title must appear exactly once: %s", out)
	}
	if !strings.Contains(out, "This document sets out the terms.<br>Second line of the same paragraph.") {
		t.Fatalf("paragraph accumulation broken: %s", out)
	}
	if !strings.Contains(out, `<h2 class="section"><span class="section-no">1.</span> Engagement</h2>`) {
		t.Fatalf("missing numbered section: %s", out)
	}
	if !strings.Contains(out, `<span class="sub-no">a.</span> First sub-item.`) {
		t.Fatalf("missing lettered sub-item: %s", out)
	}
	if !strings.Contains(out, "<li>first bullet</li>") || !strings.Contains(out, "<li>second bullet</li>") {
		t.Fatalf("missing bullets: %s", out)
	}
	if !strings.Contains(out, `<h2 class="schedule">Schedule A – Deliverables</h2>`) {
		t.Fatalf("missing schedule header: %s", out)
	}
	if !strings.Contains(out, `<div class="signatures">[[Signatures.Panel]]</div>`) {
		t.Fatalf("missing signatures placeholder: %s", out)
	}
}

func TestScheduleAnnexWrapper(t *testing.T) {
	text := strings.Join([]string{
		"Schedule A – Main Body",
		"Schedule C – First Annex",
		"Schedule D – Second Annex",
	}, "\n")
	out := LegalTextToHTML(text)

	// One wrapper opens at Schedule C and spans through document end.
	if strings.Count(out, `<div class="schedule-annex">`) != 1 {
		t.Fatalf("expected one annex wrapper: %s", out)
	}
	openAt := strings.Index(out, `<div class="schedule-annex">`)
	scheduleA := strings.Index(out, "Schedule A")
	if scheduleA > openAt {
		t.Fatalf("annex wrapper must not include Schedule A: %s", out)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</div>") {
		t.Fatalf("annex wrapper must close at document end: %s", out)
	}

	// A later non-qualifying schedule closes the wrapper.
	text = strings.Join([]string{
		"Schedule C – Annex",
		"Schedule B – Back To Main",
	}, "\n")
	out = LegalTextToHTML(text)
	closeAt := strings.Index(out, "</div>")
	scheduleB := strings.Index(out, "Schedule B")
	if closeAt == -1 || scheduleB < closeAt {
		t.Fatalf("annex wrapper must close before Schedule B: %s", out)
	}
}

func TestInjectTrustedFragments(t *testing.T) {
	body := `<p>[[Tables.Deliverables]]</p><div class="signatures">[[Signatures.Panel]]</div><p>x [[Unknown.Marker]]</p>`
	out := InjectTrustedFragments(body, map[string]string{
		"Tables.Deliverables": `<table class="deliverables"></table>`,
		"Signatures.Panel":    `<div class="signature-panel"></div>`,
	})

	if !strings.Contains(out, `<table class="deliverables"></table>`) {
		t.Fatalf("paragraph-wrapped marker not replaced: %s", out)
	}
	if strings.Contains(out, "<p><table") {
		t.Fatalf("paragraph wrapper should be removed with the marker: %s", out)
	}
	if !strings.Contains(out, `<div class="signature-panel"></div>`) {
		t.Fatalf("inline marker not replaced: %s", out)
	}
	if strings.Contains(out, "[[") {
		t.Fatalf("unresolved markers must not leak: %s", out)
	}
}

func TestSignaturePanel(t *testing.T) {
	at := time.Date(2026, time.May, 4, 10, 30, 0, 0, time.UTC)
	c := domain.Contract{
		Signatures: domain.Signatures{
			Brand: domain.Signature{
				Signed:       true,
				Name:         "Ana <Admin>",
				Email:        "ana@glow.example",
				At:           &at,
				ImageDataURL: "data:image/png;base64,AAAA",
			},
		},
	}

	out := SignaturePanel(c)
	if !strings.Contains(out, "Ana &lt;Admin&gt;") {
		t.Fatalf("signer name must be escaped: %s", out)
	}
	if !strings.Contains(out, `src="data:image/png;base64,AAAA"`) {
		t.Fatalf("signature image missing: %s", out)
	}
	if strings.Count(out, "Signature pending") != 2 {
		t.Fatalf("expected two pending blocks: %s", out)
	}
}

func TestDocumentDeterministic(t *testing.T) {
	c := renderableContract()
	tm := tokens.Build(c, "")

	first := Document(c, tm)
	for i := 0; i < 5; i++ {
		if got := Document(c, tokens.Build(c, "")); got != first {
			t.Fatalf("render is not byte-identical across passes")
		}
	}
	if strings.Contains(first, "{{") || strings.Contains(first, "[[") {
		t.Fatalf("unresolved placeholders in document: %s", first)
	}
	if !strings.Contains(first, `<table class="deliverables">`) {
		t.Fatalf("deliverables table not spliced: %s", first)
	}
}

func TestDefaultTemplateValidates(t *testing.T) {
	if err := ValidateTemplate(DefaultTemplateText); err != nil {
		t.Fatalf("default template must validate against the registry: %v", err)
	}
	if err := ValidateTemplate("{{Totally.Unknown}}"); err == nil {
		t.Fatalf("unknown token must fail validation")
	}
}

func renderableContract() domain.Contract {
	goLive := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	return domain.Contract{
		ID:           "ct-1",
		BrandID:      "br-1",
		InfluencerID: "inf-1",
		Status:       domain.StatusSent,
		Brand: domain.BrandTerms{
			CampaignTitle: "Summer Launch",
			Platforms:     []string{"instagram"},
			GoLiveStart:   &goLive,
			FeeMinorUnits: 250000,
			Currency:      "USD",
			Deliverables:  []domain.Deliverable{{Type: "reel", Quantity: 1, MaxRevisions: 1}},
		},
		Other: domain.ProfileSnapshots{
			BrandProfile:      domain.BrandProfile{CompanyName: "Glow Co", LegalAddress: "1 Brand Way"},
			InfluencerProfile: domain.InfluencerProfile{DisplayName: "maia.creates", Handle: "@maia"},
		},
		Admin: domain.AdminSettings{
			Jurisdiction:         "Germany",
			LegalTemplateText:    DefaultTemplateText,
			LegalTemplateVersion: DefaultTemplateVersion,
		},
	}
}
