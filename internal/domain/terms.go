package domain

import "time"

// BrandTerms holds the negotiable commercial terms proposed by the brand.
type BrandTerms struct {
	CampaignTitle string      `json:"campaign_title"`
	Platforms     []string    `json:"platforms,omitempty"`
	GoLiveStart   *time.Time  `json:"go_live_start,omitempty"`
	GoLiveEnd     *time.Time  `json:"go_live_end,omitempty"`
	FeeMinorUnits int64       `json:"fee_minor_units"`
	Currency      string      `json:"currency"`
	Usage         UsageBundle `json:"usage"`

	// Deliverables is the expanded per-deliverable breakdown. Created and
	// defaulted at initiate, mutable only through brand-scoped edits
	// pre-lock, frozen at lock.
	Deliverables []Deliverable `json:"deliverables_expanded,omitempty"`
}

// UsageBundle captures the content-usage rights attached to the deal.
type UsageBundle struct {
	Scope               string   `json:"scope,omitempty"`
	TermMonths          int      `json:"term_months"`
	Territories         []string `json:"territories,omitempty"`
	Exclusivity         bool     `json:"exclusivity"`
	ExclusivityCategory string   `json:"exclusivity_category,omitempty"`
	PaidAds             bool     `json:"paid_ads"`
	Whitelisting        bool     `json:"whitelisting"`
}

// Deliverable is one unit of contracted content.
type Deliverable struct {
	Type               string     `json:"type"`
	Quantity           int        `json:"quantity"`
	Format             string     `json:"format,omitempty"`
	DurationSeconds    int        `json:"duration_seconds,omitempty"`
	PostingWindowStart *time.Time `json:"posting_window_start,omitempty"`
	PostingWindowEnd   *time.Time `json:"posting_window_end,omitempty"`
	DraftRequired      bool       `json:"draft_required"`
	DraftDueDate       *time.Time `json:"draft_due_date,omitempty"`
	MaxRevisions       int        `json:"max_revisions"`
	RetentionMonths    int        `json:"retention_months"`
	Tags               []string   `json:"tags,omitempty"`
	Handles            []string   `json:"handles,omitempty"`
	Disclosures        []string   `json:"disclosures,omitempty"`
	Whitelisting       bool       `json:"whitelisting"`
}

// InfluencerAcceptance is the acceptance payload the influencer supplies when
// confirming: legal identity, tax and contact details.
type InfluencerAcceptance struct {
	LegalName    string `json:"legal_name,omitempty"`
	TaxID        string `json:"tax_id,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"`
	Region       string `json:"region,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Handle       string `json:"handle,omitempty"`
}

// BrandProfile is the read-only brand snapshot taken at initiate.
type BrandProfile struct {
	CompanyName  string `json:"company_name,omitempty"`
	LegalAddress string `json:"legal_address,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	Country      string `json:"country,omitempty"`
}

// InfluencerProfile is the read-only influencer snapshot taken at initiate.
// Address is the legacy single-field form kept for older profiles.
type InfluencerProfile struct {
	DisplayName string `json:"display_name,omitempty"`
	Handle      string `json:"handle,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
	Country     string `json:"country,omitempty"`
}

// CampaignSnapshot is the read-only campaign record consumed at initiate.
type CampaignSnapshot struct {
	ID          string     `json:"id"`
	Title       string     `json:"title,omitempty"`
	Platforms   []string   `json:"platforms,omitempty"`
	GoLiveStart *time.Time `json:"go_live_start,omitempty"`
	GoLiveEnd   *time.Time `json:"go_live_end,omitempty"`
}

// AutoCalcs holds values derived once at initiate from the seeded terms.
type AutoCalcs struct {
	TotalDeliverables int `json:"total_deliverables"`
	PlatformCount     int `json:"platform_count"`
}

// ProfileSnapshots is the read-only "other" section: profile snapshots plus
// computed figures. Lifecycle operations never edit it after initiate.
type ProfileSnapshots struct {
	BrandProfile      BrandProfile      `json:"brand_profile"`
	InfluencerProfile InfluencerProfile `json:"influencer_profile"`
	AutoCalcs         AutoCalcs         `json:"auto_calcs"`
}

// FeePolicy is the platform-controlled payout policy.
type FeePolicy struct {
	PlatformFeeBps   int `json:"platform_fee_bps"`
	PaymentTermsDays int `json:"payment_terms_days"`
}

// TemplateRevision is one entry in the legal-template history.
type TemplateRevision struct {
	Version   int       `json:"version"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// AdminSettings is the platform-controlled section of the contract. The legal
// template travels on the contract itself so an in-flight negotiation is never
// affected by later template releases.
type AdminSettings struct {
	Timezone             string             `json:"timezone,omitempty"`
	Jurisdiction         string             `json:"jurisdiction,omitempty"`
	LegalTemplateText    string             `json:"legal_template_text"`
	LegalTemplateVersion int                `json:"legal_template_version"`
	LegalTemplateHistory []TemplateRevision `json:"legal_template_history,omitempty"`
	FeePolicy            FeePolicy          `json:"fee_policy"`
}
