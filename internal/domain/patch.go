package domain

import (
	"time"

	"github.com/collabglam/contractflow/internal/calendar"
)

// Patches are explicit per-actor allow-lists. Each field is optional, validated
// and copied individually; lifecycle operations never merge free-form maps
// into the aggregate.

// BrandPatch covers the brand-editable negotiable terms.
type BrandPatch struct {
	CampaignTitle *string
	Platforms     []string
	GoLiveStart   *time.Time
	GoLiveEnd     *time.Time
	FeeMinorUnits *int64
	Currency      *string
	Usage         *UsageBundle
	Deliverables  []Deliverable
}

// Empty reports whether the patch carries no fields.
func (p BrandPatch) Empty() bool {
	return p.CampaignTitle == nil && p.Platforms == nil && p.GoLiveStart == nil &&
		p.GoLiveEnd == nil && p.FeeMinorUnits == nil && p.Currency == nil &&
		p.Usage == nil && p.Deliverables == nil
}

func (p BrandPatch) Validate() error {
	if p.FeeMinorUnits != nil && *p.FeeMinorUnits < 0 {
		return ValidationFailed("fee must be >= 0")
	}
	if p.GoLiveStart != nil && p.GoLiveEnd != nil && p.GoLiveEnd.Before(*p.GoLiveStart) {
		return ValidationFailed("go-live end precedes go-live start")
	}
	for i, d := range p.Deliverables {
		if d.Quantity < 0 {
			return ValidationFailed("deliverable %d: quantity must be >= 0", i)
		}
		if d.MaxRevisions < 0 {
			return ValidationFailed("deliverable %d: max revisions must be >= 0", i)
		}
	}
	return nil
}

// Apply copies the provided fields onto the brand terms.
func (p BrandPatch) Apply(t *BrandTerms) {
	if p.CampaignTitle != nil {
		t.CampaignTitle = *p.CampaignTitle
	}
	if p.Platforms != nil {
		t.Platforms = append([]string(nil), p.Platforms...)
	}
	if p.GoLiveStart != nil {
		v := *p.GoLiveStart
		t.GoLiveStart = &v
	}
	if p.GoLiveEnd != nil {
		v := *p.GoLiveEnd
		t.GoLiveEnd = &v
	}
	if p.FeeMinorUnits != nil {
		t.FeeMinorUnits = *p.FeeMinorUnits
	}
	if p.Currency != nil {
		t.Currency = *p.Currency
	}
	if p.Usage != nil {
		t.Usage = *p.Usage
	}
	if p.Deliverables != nil {
		t.Deliverables = cloneDeliverables(p.Deliverables)
	}
}

// InfluencerPatch covers the influencer-editable acceptance payload.
type InfluencerPatch struct {
	LegalName    *string
	TaxID        *string
	AddressLine1 *string
	AddressLine2 *string
	City         *string
	Region       *string
	PostalCode   *string
	Country      *string
	Email        *string
	Phone        *string
	Handle       *string
}

func (p InfluencerPatch) Empty() bool {
	return p.LegalName == nil && p.TaxID == nil && p.AddressLine1 == nil &&
		p.AddressLine2 == nil && p.City == nil && p.Region == nil &&
		p.PostalCode == nil && p.Country == nil && p.Email == nil &&
		p.Phone == nil && p.Handle == nil
}

// Apply copies the provided fields onto the acceptance payload.
func (p InfluencerPatch) Apply(a *InfluencerAcceptance) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&a.LegalName, p.LegalName)
	set(&a.TaxID, p.TaxID)
	set(&a.AddressLine1, p.AddressLine1)
	set(&a.AddressLine2, p.AddressLine2)
	set(&a.City, p.City)
	set(&a.Region, p.Region)
	set(&a.PostalCode, p.PostalCode)
	set(&a.Country, p.Country)
	set(&a.Email, p.Email)
	set(&a.Phone, p.Phone)
	set(&a.Handle, p.Handle)
}

// AdminPatch covers the platform-controlled settings. A non-nil
// LegalTemplateText bumps the template version; the service owns that bump.
type AdminPatch struct {
	Timezone              *string
	Jurisdiction          *string
	LegalTemplateText     *string
	FeePolicy             *FeePolicy
	EffectiveDateTimezone *string
}

func (p AdminPatch) Empty() bool {
	return p.Timezone == nil && p.Jurisdiction == nil && p.LegalTemplateText == nil &&
		p.FeePolicy == nil && p.EffectiveDateTimezone == nil
}

// Apply copies the provided settings except the legal template text, which the
// service applies together with its version bump and history entry.
func (p AdminPatch) Apply(s *AdminSettings) {
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.Jurisdiction != nil {
		s.Jurisdiction = *p.Jurisdiction
	}
	if p.FeePolicy != nil {
		s.FeePolicy = *p.FeePolicy
	}
}

// ApplyDeliverableDefaults recomputes per-deliverable defaults from the current
// terms: draft due dates from the go-live anchor, handles from the influencer's
// current handle, and the revision floor. Called at initiate and after every
// brand edit.
func ApplyDeliverableDefaults(c *Contract, now time.Time) {
	handle := c.Influencer.Handle
	if handle == "" {
		handle = c.Other.InfluencerProfile.Handle
	}
	for i := range c.Brand.Deliverables {
		d := &c.Brand.Deliverables[i]
		if d.Quantity == 0 {
			d.Quantity = 1
		}
		if d.MaxRevisions == 0 {
			d.MaxRevisions = 1
		}
		if handle != "" && len(d.Handles) == 0 {
			d.Handles = []string{handle}
		}
		if d.DraftRequired && c.Brand.GoLiveStart != nil {
			due := calendar.ClampDraftDue(*c.Brand.GoLiveStart, now)
			d.DraftDueDate = &due
		}
	}
	c.Other.AutoCalcs = AutoCalcs{
		TotalDeliverables: totalDeliverables(c.Brand.Deliverables),
		PlatformCount:     len(c.Brand.Platforms),
	}
}

func totalDeliverables(ds []Deliverable) int {
	total := 0
	for _, d := range ds {
		total += d.Quantity
	}
	return total
}

func cloneDeliverables(ds []Deliverable) []Deliverable {
	if ds == nil {
		return nil
	}
	out := make([]Deliverable, len(ds))
	for i, d := range ds {
		out[i] = d
		out[i].Tags = append([]string(nil), d.Tags...)
		out[i].Handles = append([]string(nil), d.Handles...)
		out[i].Disclosures = append([]string(nil), d.Disclosures...)
		if d.PostingWindowStart != nil {
			v := *d.PostingWindowStart
			out[i].PostingWindowStart = &v
		}
		if d.PostingWindowEnd != nil {
			v := *d.PostingWindowEnd
			out[i].PostingWindowEnd = &v
		}
		if d.DraftDueDate != nil {
			v := *d.DraftDueDate
			out[i].DraftDueDate = &v
		}
	}
	return out
}
