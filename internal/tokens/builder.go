// Package tokens turns a contract snapshot into the flat dictionary of named
// placeholders the legal template substitutes. Building is pure: the same
// snapshot always yields the same map, which is what makes a locked render
// reproducible for audit.
package tokens

import (
	"fmt"
	"strconv"
	"time"

	"github.com/collabglam/contractflow/internal/domain"
)

// Map is the flat token dictionary keyed by template token name.
type Map map[string]string

// Trusted HTML blob tokens. These are the only values that may carry markup;
// the renderer splices them in after escaping, never through plain
// substitution.
const (
	TokenDeliverablesTable = "Tables.Deliverables"
	TokenUsageTable        = "Tables.Usage"
	TokenAcceptanceTable   = "Tables.InfluencerAcceptance"
	TokenSignaturePanel    = "Signatures.Panel"
)

// TrustedHTMLTokens lists the token names whose values are pre-built HTML.
func TrustedHTMLTokens() []string {
	return []string{
		TokenDeliverablesTable,
		TokenUsageTable,
		TokenAcceptanceTable,
		TokenSignaturePanel,
	}
}

// Build produces the token map for a contract snapshot. requestedTZ is the
// caller's preferred effective timezone and sits second in the precedence
// chain, after the admin timezone.
func Build(c domain.Contract, requestedTZ string) Map {
	loc := ResolveLocation(c.Admin.Timezone, requestedTZ, c.EffectiveDateTimezone)

	m := Map{}

	m["Contract.ID"] = c.ID
	m["Contract.EffectiveDate"] = formatDate(c.EffectiveDate, loc)
	m["Contract.EffectiveTimezone"] = loc.String()
	m["Contract.Jurisdiction"] = c.Admin.Jurisdiction
	m["Contract.TemplateVersion"] = strconv.Itoa(c.Admin.LegalTemplateVersion)
	m["Contract.LockedAt"] = formatDateTime(c.LockedAt, loc)

	m["Signatures.Brand.SignedAt"] = formatDateTime(c.Signatures.Brand.At, loc)
	m["Signatures.Influencer.SignedAt"] = formatDateTime(c.Signatures.Influencer.At, loc)
	m["Signatures.Collabglam.SignedAt"] = formatDateTime(c.Signatures.Collabglam.At, loc)

	m["Brand.CompanyName"] = c.Other.BrandProfile.CompanyName
	m["Brand.LegalAddress"] = c.Other.BrandProfile.LegalAddress
	m["Brand.ContactName"] = c.Other.BrandProfile.ContactName
	m["Brand.ContactEmail"] = c.Other.BrandProfile.ContactEmail
	m["Brand.Country"] = c.Other.BrandProfile.Country

	m["Influencer.LegalName"] = firstNonEmpty(c.Influencer.LegalName, c.Other.InfluencerProfile.DisplayName)
	m["Influencer.TaxID"] = c.Influencer.TaxID
	m["Influencer.Address"] = influencerAddress(c)
	m["Influencer.Email"] = firstNonEmpty(c.Influencer.Email, c.Other.InfluencerProfile.Email)
	m["Influencer.Phone"] = c.Influencer.Phone
	m["Influencer.Handle"] = firstNonEmpty(c.Influencer.Handle, c.Other.InfluencerProfile.Handle)
	m["Influencer.Country"] = firstNonEmpty(c.Influencer.Country, c.Other.InfluencerProfile.Country)

	m["Campaign.Title"] = c.Brand.CampaignTitle
	m["Campaign.Platforms"] = formatList(c.Brand.Platforms)
	m["Campaign.GoLiveStart"] = formatDate(c.Brand.GoLiveStart, loc)
	m["Campaign.GoLiveEnd"] = formatDate(c.Brand.GoLiveEnd, loc)
	m["Campaign.GoLiveWindow"] = formatDateRange(c.Brand.GoLiveStart, c.Brand.GoLiveEnd, loc)

	m["Fee.Amount"] = formatMoney(c.Brand.FeeMinorUnits, c.Brand.Currency)
	m["Fee.Currency"] = c.Brand.Currency
	m["Fee.PlatformPercent"] = formatBps(c.Admin.FeePolicy.PlatformFeeBps)
	m["Fee.PaymentTermsDays"] = formatInt(c.Admin.FeePolicy.PaymentTermsDays)

	m["Usage.Scope"] = c.Brand.Usage.Scope
	m["Usage.TermMonths"] = formatInt(c.Brand.Usage.TermMonths)
	m["Usage.Territories"] = formatList(c.Brand.Usage.Territories)
	m["Usage.Exclusivity"] = formatBool(c.Brand.Usage.Exclusivity)
	m["Usage.PaidAds"] = formatBool(c.Brand.Usage.PaidAds)
	m["Usage.Whitelisting"] = formatBool(c.Brand.Usage.Whitelisting)

	m["Deliverables.Count"] = formatInt(len(c.Brand.Deliverables))
	m["Deliverables.Total"] = formatInt(totalQuantity(c.Brand.Deliverables))

	for i, d := range c.Brand.Deliverables {
		addDeliverableTokens(m, i, d, loc)
	}

	m[TokenDeliverablesTable] = deliverablesTable(c.Brand.Deliverables, loc)
	m[TokenUsageTable] = usageTable(c.Brand.Usage)
	m[TokenAcceptanceTable] = acceptanceTable(c)

	return m
}

// addDeliverableTokens emits both addressing forms for template-author
// convenience: the zero-based array form Deliverables[0].Type and the
// one-indexed dotted alias Deliverables.1.Type.
func addDeliverableTokens(m Map, i int, d domain.Deliverable, loc *time.Location) {
	fields := map[string]string{
		"Type":          d.Type,
		"Quantity":      formatInt(d.Quantity),
		"Format":        d.Format,
		"Duration":      formatDuration(d.DurationSeconds),
		"PostingWindow": formatDateRange(d.PostingWindowStart, d.PostingWindowEnd, loc),
		"DraftRequired": formatBool(d.DraftRequired),
		"DraftDue":      formatDate(d.DraftDueDate, loc),
		"MaxRevisions":  formatInt(d.MaxRevisions),
		"Retention":     retentionText(d.RetentionMonths),
		"Tags":          formatList(d.Tags),
		"Handles":       formatList(d.Handles),
		"Disclosures":   formatList(d.Disclosures),
		"Whitelisting":  formatBool(d.Whitelisting),
	}
	for name, value := range fields {
		m[fmt.Sprintf("Deliverables[%d].%s", i, name)] = value
		m[fmt.Sprintf("Deliverables.%d.%s", i+1, name)] = value
	}
}

func influencerAddress(c domain.Contract) string {
	structured := formatList([]string{
		c.Influencer.AddressLine1,
		c.Influencer.AddressLine2,
		c.Influencer.City,
		c.Influencer.Region,
		c.Influencer.PostalCode,
		c.Influencer.Country,
	})
	// Legacy profiles carry a single free-form address field.
	return firstNonEmpty(structured, c.Other.InfluencerProfile.Address)
}

func retentionText(months int) string {
	if months <= 0 {
		return "None"
	}
	if months == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", months)
}

func formatBps(bps int) string {
	whole := bps / 100
	frac := bps % 100
	if frac == 0 {
		return fmt.Sprintf("%d%%", whole)
	}
	return fmt.Sprintf("%d.%02d%%", whole, frac)
}

func totalQuantity(ds []domain.Deliverable) int {
	total := 0
	for _, d := range ds {
		total += d.Quantity
	}
	return total
}
