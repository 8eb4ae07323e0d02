package tokens

import (
	"html"
	"strings"
	"time"

	"github.com/collabglam/contractflow/internal/domain"
)

// The table blobs are the trusted HTML fragments spliced into the rendered
// document after escaping. Cell values are escaped here, so the only raw
// markup in a fragment is the markup this package wrote itself.

func deliverablesTable(ds []domain.Deliverable, loc *time.Location) string {
	var b strings.Builder
	b.WriteString(`<table class="deliverables"><thead><tr>`)
	for _, h := range []string{"#", "Type", "Qty", "Format", "Posting Window", "Draft Due", "Revisions", "Retention", "Disclosures"} {
		writeCell(&b, "th", h)
	}
	b.WriteString(`</tr></thead><tbody>`)
	for i, d := range ds {
		b.WriteString(`<tr>`)
		writeCell(&b, "td", formatInt(i+1))
		writeCell(&b, "td", d.Type)
		writeCell(&b, "td", formatInt(d.Quantity))
		writeCell(&b, "td", d.Format)
		writeCell(&b, "td", formatDateRange(d.PostingWindowStart, d.PostingWindowEnd, loc))
		writeCell(&b, "td", draftDueText(d, loc))
		writeCell(&b, "td", formatInt(d.MaxRevisions))
		writeCell(&b, "td", retentionText(d.RetentionMonths))
		writeCell(&b, "td", formatList(d.Disclosures))
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

func draftDueText(d domain.Deliverable, loc *time.Location) string {
	if !d.DraftRequired {
		return "Not required"
	}
	if due := formatDate(d.DraftDueDate, loc); due != "" {
		return due
	}
	return "Required"
}

func usageTable(u domain.UsageBundle) string {
	rows := []struct {
		label string
		value string
	}{
		{"Scope", u.Scope},
		{"Term", termText(u.TermMonths)},
		{"Territories", territoriesText(u.Territories)},
		{"Exclusivity", exclusivityText(u)},
		{"Paid Advertising", formatBool(u.PaidAds)},
		{"Whitelisting", formatBool(u.Whitelisting)},
	}

	var b strings.Builder
	b.WriteString(`<table class="usage-bundle"><tbody>`)
	for _, row := range rows {
		b.WriteString(`<tr>`)
		writeCell(&b, "th", row.label)
		writeCell(&b, "td", row.value)
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

func termText(months int) string {
	if months <= 0 {
		return "In perpetuity"
	}
	if months == 1 {
		return "1 month"
	}
	return formatInt(months) + " months"
}

func territoriesText(territories []string) string {
	if s := formatList(territories); s != "" {
		return s
	}
	return "Worldwide"
}

func exclusivityText(u domain.UsageBundle) string {
	if !u.Exclusivity {
		return "No"
	}
	if cat := strings.TrimSpace(u.ExclusivityCategory); cat != "" {
		return "Yes, " + cat
	}
	return "Yes"
}

func acceptanceTable(c domain.Contract) string {
	rows := []struct {
		label string
		value string
	}{
		{"Legal Name", firstNonEmpty(c.Influencer.LegalName, c.Other.InfluencerProfile.DisplayName)},
		{"Tax ID", c.Influencer.TaxID},
		{"Address", influencerAddress(c)},
		{"Email", firstNonEmpty(c.Influencer.Email, c.Other.InfluencerProfile.Email)},
		{"Phone", c.Influencer.Phone},
		{"Handle", firstNonEmpty(c.Influencer.Handle, c.Other.InfluencerProfile.Handle)},
	}

	var b strings.Builder
	b.WriteString(`<table class="influencer-acceptance"><tbody>`)
	for _, row := range rows {
		b.WriteString(`<tr>`)
		writeCell(&b, "th", row.label)
		writeCell(&b, "td", row.value)
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

func writeCell(b *strings.Builder, tag, value string) {
	b.WriteString("<")
	b.WriteString(tag)
	b.WriteString(">")
	b.WriteString(html.EscapeString(value))
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
}
