package render

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/collabglam/contractflow/internal/domain"
	"github.com/collabglam/contractflow/internal/tokens"
)

var fragmentPattern = regexp.MustCompile(`\[\[\s*([A-Za-z0-9_.\[\]]+)\s*\]\]`)

const signedAtLayout = "January 2, 2006 15:04 MST"

// InjectTrustedFragments is phase three: literal replacement of [[Name]]
// markers, and of their single-paragraph-wrapped form, with pre-built trusted
// HTML. This phase exists so large structured fragments (tables, the signature
// panel) never pass through phase-one escaping.
func InjectTrustedFragments(body string, fragments map[string]string) string {
	for name, fragment := range fragments {
		marker := "[[" + name + "]]"
		body = strings.ReplaceAll(body, "<p>"+marker+"</p>", fragment)
		body = strings.ReplaceAll(body, marker, fragment)
	}
	// Unresolved markers render as nothing rather than leaking syntax.
	return fragmentPattern.ReplaceAllString(body, "")
}

// SignaturePanel builds the per-role signature block: signer name, email,
// timestamp and signature image when signed, or a pending marker.
func SignaturePanel(c domain.Contract) string {
	roles := []struct {
		label string
		sig   domain.Signature
	}{
		{"Brand", c.Signatures.Brand},
		{"Influencer", c.Signatures.Influencer},
		{"CollabGlam", c.Signatures.Collabglam},
	}

	var b strings.Builder
	b.WriteString(`<div class="signature-panel">`)
	for _, role := range roles {
		b.WriteString(`<div class="signature-block">`)
		b.WriteString(`<h3>` + html.EscapeString(role.label) + `</h3>`)
		if role.sig.Signed {
			writeSignedBlock(&b, role.sig)
		} else {
			b.WriteString(`<div class="signature-pending">Signature pending</div>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func writeSignedBlock(b *strings.Builder, sig domain.Signature) {
	if strings.HasPrefix(sig.ImageDataURL, "data:image/") {
		b.WriteString(`<img class="signature-image" src="`)
		b.WriteString(html.EscapeString(sig.ImageDataURL))
		b.WriteString(`" alt="signature">`)
	}
	b.WriteString(`<div class="signer-name">` + html.EscapeString(sig.Name) + `</div>`)
	if sig.Email != "" {
		b.WriteString(`<div class="signer-email">` + html.EscapeString(sig.Email) + `</div>`)
	}
	if sig.At != nil {
		b.WriteString(`<div class="signed-at">Signed ` + sig.At.UTC().Format(signedAtLayout) + `</div>`)
	}
}

// Document renders the full contract document from a snapshot and its token
// map: substitute, structure, then splice trusted fragments.
func Document(c domain.Contract, tm tokens.Map) string {
	body := LegalTextToHTML(SubstituteTokens(c.Admin.LegalTemplateText, tm))

	fragments := map[string]string{
		tokens.TokenSignaturePanel: SignaturePanel(c),
	}
	for _, name := range tokens.TrustedHTMLTokens() {
		if fragment, ok := tm[name]; ok {
			fragments[name] = fragment
		}
	}

	return InjectTrustedFragments(body, fragments)
}

// PlainText renders the minimal fallback document used when the export service
// is unavailable: phase-one substitution only, with fragment markers removed.
func PlainText(c domain.Contract, tm tokens.Map) string {
	text := SubstituteTokens(c.Admin.LegalTemplateText, tm)
	text = fragmentPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text) + "\n\nRendered " + renderStamp(c)
}

func renderStamp(c domain.Contract) string {
	if c.LockedAt != nil {
		return "from locked snapshot " + c.LockedAt.UTC().Format(time.RFC3339)
	}
	return "as preview (not locked)"
}
