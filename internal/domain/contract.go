package domain

import (
	"errors"
	"strings"
	"time"
)

// Role identifies an acting party on a contract.
type Role string

const (
	RoleBrand      Role = "brand"
	RoleInfluencer Role = "influencer"
	RoleCollabglam Role = "collabglam"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBrand, RoleInfluencer, RoleCollabglam, RoleAdmin:
		return true
	}
	return false
}

// SignerRole reports whether r may hold a signature slot.
func (r Role) SignerRole() bool {
	return r == RoleBrand || r == RoleInfluencer || r == RoleCollabglam
}

// Metadata is an unstructured payload container for audit details.
type Metadata map[string]any

func (m Metadata) Clone() Metadata {
	if m == nil {
		return Metadata{}
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Confirmation is a one-way latch recording that a party accepted the current
// terms. Once Confirmed is true no operation may reset it.
type Confirmation struct {
	Confirmed bool       `json:"confirmed"`
	ByUserID  string     `json:"by_user_id,omitempty"`
	At        *time.Time `json:"at,omitempty"`
}

// Confirmations holds the per-party confirmation latches.
type Confirmations struct {
	Brand      Confirmation `json:"brand"`
	Influencer Confirmation `json:"influencer"`
}

// Signature is a recorded attestation. Signatures are not verified against a
// PKI; the image, if present, is stored as a data URL.
type Signature struct {
	Signed       bool       `json:"signed"`
	ByUserID     string     `json:"by_user_id,omitempty"`
	Name         string     `json:"name,omitempty"`
	Email        string     `json:"email,omitempty"`
	At           *time.Time `json:"at,omitempty"`
	ImageDataURL string     `json:"sig_image_data_url,omitempty"`
}

// Signatures holds the three signature slots.
type Signatures struct {
	Brand      Signature `json:"brand"`
	Influencer Signature `json:"influencer"`
	Collabglam Signature `json:"collabglam"`
}

// EditSummary describes the most recent mutation. It is overwritten on every
// edit; the full history lives in Audit.
type EditSummary struct {
	Role     Role      `json:"role"`
	ByUserID string    `json:"by_user_id,omitempty"`
	At       time.Time `json:"at"`
	Fields   []string  `json:"fields"`
}

// AuditEntry is one immutable event in the contract history. Entries are only
// ever appended; existing entries are never rewritten.
type AuditEntry struct {
	Type    string    `json:"type"`
	Role    Role      `json:"role,omitempty"`
	Details Metadata  `json:"details,omitempty"`
	At      time.Time `json:"at"`
}

// Audit event types. Existing names are wire-compatible history and must never
// be renamed; new types may be added.
const (
	EventInitiated           = "INITIATED"
	EventViewed              = "VIEWED"
	EventBrandConfirmed      = "BRAND_CONFIRMED"
	EventInfluencerConfirmed = "INFLUENCER_CONFIRMED"
	EventBrandEdited         = "BRAND_EDITED"
	EventInfluencerEdited    = "INFLUENCER_EDITED"
	EventAdminUpdated        = "ADMIN_UPDATED"
	EventFinalized           = "FINALIZED"
	EventSigned              = "SIGNED"
	EventLocked              = "LOCKED"
	EventRejected            = "REJECTED"
	EventResent              = "RESENT"
	EventResentChildCreated  = "RESENT_CHILD_CREATED"
)

// Contract is the tri-party negotiation aggregate. It is owned exclusively by
// the lifecycle operations; nothing outside the contracts service mutates it.
type Contract struct {
	ID           string `json:"id"`
	BrandID      string `json:"brand_id"`
	InfluencerID string `json:"influencer_id"`
	CampaignID   string `json:"campaign_id,omitempty"`

	// Lineage for resent contracts.
	ResendOf        string     `json:"resend_of,omitempty"`
	SupersededBy    string     `json:"superseded_by,omitempty"`
	ResendIteration int        `json:"resend_iteration"`
	ResentAt        *time.Time `json:"resent_at,omitempty"`

	Status Status `json:"status"`

	Brand      BrandTerms           `json:"brand"`
	Influencer InfluencerAcceptance `json:"influencer"`
	Other      ProfileSnapshots     `json:"other"`
	Admin      AdminSettings        `json:"admin"`

	Confirmations Confirmations `json:"confirmations"`
	Signatures    Signatures    `json:"signatures"`

	IsEdit       bool         `json:"is_edit"`
	IsEditBy     Role         `json:"is_edit_by,omitempty"`
	EditedFields []string     `json:"edited_fields,omitempty"`
	LastEdit     *EditSummary `json:"last_edit,omitempty"`

	Audit []AuditEntry `json:"audit"`

	EffectiveDate         *time.Time `json:"effective_date,omitempty"`
	EffectiveDateOverride *time.Time `json:"effective_date_override,omitempty"`
	EffectiveDateTimezone string     `json:"effective_date_timezone,omitempty"`

	// Frozen at lock time. Together they are the legally final artifact.
	TemplateVersion        int               `json:"template_version"`
	TemplateTokensSnapshot map[string]string `json:"template_tokens_snapshot,omitempty"`
	RenderedTextSnapshot   string            `json:"rendered_text_snapshot,omitempty"`

	LockedAt  *time.Time `json:"locked_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Version is the optimistic-concurrency token managed by the repository.
	Version int64 `json:"-"`
}

func (c Contract) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("contract id is required")
	}
	if strings.TrimSpace(c.BrandID) == "" {
		return errors.New("brand id is required")
	}
	if strings.TrimSpace(c.InfluencerID) == "" {
		return errors.New("influencer id is required")
	}
	if !c.Status.Valid() {
		return errors.New("status is invalid")
	}
	if c.ResendIteration < 0 {
		return errors.New("resend iteration must be >= 0")
	}
	if (c.LockedAt != nil) != (c.Status == StatusLocked) {
		return errors.New("locked_at must be set exactly when status is locked")
	}
	if c.Status == StatusLocked && !c.AllSigned() {
		return errors.New("locked contract requires all three signatures")
	}
	return nil
}

// Locked reports whether the contract has reached its terminal immutable state.
func (c Contract) Locked() bool {
	return c.Status == StatusLocked || c.LockedAt != nil
}

// BothSigned reports whether brand and influencer have both signed. This is
// the edit gate: once both counterparties signed, terms are frozen even if the
// platform countersignature is still outstanding.
func (c Contract) BothSigned() bool {
	return c.Signatures.Brand.Signed && c.Signatures.Influencer.Signed
}

// AllSigned reports whether all three signatures are present. Lock eligibility
// requires the platform countersignature as well.
func (c Contract) AllSigned() bool {
	return c.BothSigned() && c.Signatures.Collabglam.Signed
}

// SignatureFor returns the signature slot for a signer role.
func (c *Contract) SignatureFor(role Role) *Signature {
	switch role {
	case RoleBrand:
		return &c.Signatures.Brand
	case RoleInfluencer:
		return &c.Signatures.Influencer
	case RoleCollabglam:
		return &c.Signatures.Collabglam
	default:
		return nil
	}
}

// Clone returns a deep copy sharing no backing arrays with the receiver.
// Lifecycle operations clone before mutating so a pre-edit snapshot, or a
// resend child seeded from a parent, can never alias the stored aggregate.
func (c Contract) Clone() Contract {
	out := c

	out.Brand.Platforms = append([]string(nil), c.Brand.Platforms...)
	out.Brand.GoLiveStart = cloneTime(c.Brand.GoLiveStart)
	out.Brand.GoLiveEnd = cloneTime(c.Brand.GoLiveEnd)
	out.Brand.Usage.Territories = append([]string(nil), c.Brand.Usage.Territories...)
	out.Brand.Deliverables = cloneDeliverables(c.Brand.Deliverables)

	out.Admin.LegalTemplateHistory = append([]TemplateRevision(nil), c.Admin.LegalTemplateHistory...)

	out.Confirmations.Brand.At = cloneTime(c.Confirmations.Brand.At)
	out.Confirmations.Influencer.At = cloneTime(c.Confirmations.Influencer.At)
	out.Signatures.Brand.At = cloneTime(c.Signatures.Brand.At)
	out.Signatures.Influencer.At = cloneTime(c.Signatures.Influencer.At)
	out.Signatures.Collabglam.At = cloneTime(c.Signatures.Collabglam.At)

	out.EditedFields = append([]string(nil), c.EditedFields...)
	if c.LastEdit != nil {
		le := *c.LastEdit
		le.Fields = append([]string(nil), c.LastEdit.Fields...)
		out.LastEdit = &le
	}

	if c.Audit != nil {
		out.Audit = make([]AuditEntry, len(c.Audit))
		for i, e := range c.Audit {
			if e.Details != nil {
				e.Details = e.Details.Clone()
			}
			out.Audit[i] = e
		}
	}

	out.ResentAt = cloneTime(c.ResentAt)
	out.EffectiveDate = cloneTime(c.EffectiveDate)
	out.EffectiveDateOverride = cloneTime(c.EffectiveDateOverride)
	out.LockedAt = cloneTime(c.LockedAt)

	if c.TemplateTokensSnapshot != nil {
		snap := make(map[string]string, len(c.TemplateTokensSnapshot))
		for k, v := range c.TemplateTokensSnapshot {
			snap[k] = v
		}
		out.TemplateTokensSnapshot = snap
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// AppendAudit appends one event to the contract history. The history is
// append-only; this is the only way it grows.
func (c *Contract) AppendAudit(eventType string, role Role, details Metadata, at time.Time) {
	c.Audit = append(c.Audit, AuditEntry{
		Type:    eventType,
		Role:    role,
		Details: details.Clone(),
		At:      at.UTC(),
	})
}

// MarkEdit overwrites the most-recent-mutation summary.
func (c *Contract) MarkEdit(role Role, byUserID string, fields []string, at time.Time) {
	c.IsEdit = true
	c.IsEditBy = role
	c.EditedFields = append([]string(nil), fields...)
	c.LastEdit = &EditSummary{
		Role:     role,
		ByUserID: byUserID,
		At:       at.UTC(),
		Fields:   append([]string(nil), fields...),
	}
}
