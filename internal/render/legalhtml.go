package render

import (
	"html"
	"regexp"
	"strings"
)

var (
	sectionPattern  = regexp.MustCompile(`^(\d+)\.\s+(.+)$`)
	subItemPattern  = regexp.MustCompile(`^\(?([a-z])[.)]\s+(.+)$`)
	schedulePattern = regexp.MustCompile(`^Schedule\s+([A-Z])\s*[–—-]\s*(.+)$`)
	bulletPattern   = regexp.MustCompile(`^[-•*]\s+(.+)$`)
)

// signaturesMarker is the literal line in the legal text that the signature
// panel replaces.
const signaturesMarker = "Signatures"

// annexScheduleLetter is the first schedule letter that opens a distinguishing
// annex wrapper. Schedules A and B are part of the main body; C onward are
// annex material.
const annexScheduleLetter = 'C'

// LegalTextToHTML is phase two: it parses substituted plain text line by line
// into semantic document markup. Paragraph text is HTML-escaped here; the only
// unescaped output is the markup this function emits itself.
func LegalTextToHTML(text string) string {
	var (
		out       strings.Builder
		paragraph []string
		bullets   []string
		titleSeen bool
		annexOpen bool
	)

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		escaped := make([]string, len(paragraph))
		for i, line := range paragraph {
			escaped[i] = html.EscapeString(line)
		}
		out.WriteString("<p>")
		out.WriteString(strings.Join(escaped, "<br>"))
		out.WriteString("</p>\n")
		paragraph = paragraph[:0]
	}
	flushBullets := func() {
		if len(bullets) == 0 {
			return
		}
		out.WriteString("<ul>\n")
		for _, item := range bullets {
			out.WriteString("<li>")
			out.WriteString(html.EscapeString(item))
			out.WriteString("</li>\n")
		}
		out.WriteString("</ul>\n")
		bullets = bullets[:0]
	}
	flushAll := func() {
		flushParagraph()
		flushBullets()
	}
	closeAnnex := func() {
		if annexOpen {
			out.WriteString("</div>\n")
			annexOpen = false
		}
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimRight(rawLine, "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flushAll()
			continue
		}

		if trimmed == signaturesMarker {
			flushAll()
			out.WriteString(`<div class="signatures">[[` + "Signatures.Panel" + `]]</div>` + "\n")
			continue
		}

		if groups := schedulePattern.FindStringSubmatch(trimmed); groups != nil {
			flushAll()
			letter := groups[1][0]
			if letter >= annexScheduleLetter {
				if !annexOpen {
					out.WriteString(`<div class="schedule-annex">` + "\n")
					annexOpen = true
				}
			} else {
				closeAnnex()
			}
			out.WriteString(`<h2 class="schedule">Schedule `)
			out.WriteString(html.EscapeString(groups[1]))
			out.WriteString(" – ")
			out.WriteString(html.EscapeString(groups[2]))
			out.WriteString("</h2>\n")
			continue
		}

		if groups := sectionPattern.FindStringSubmatch(trimmed); groups != nil {
			flushAll()
			out.WriteString(`<h2 class="section"><span class="section-no">`)
			out.WriteString(groups[1])
			out.WriteString(".</span> ")
			out.WriteString(html.EscapeString(groups[2]))
			out.WriteString("</h2>\n")
			continue
		}

		if groups := subItemPattern.FindStringSubmatch(trimmed); groups != nil {
			flushAll()
			out.WriteString(`<div class="sub-item"><span class="sub-no">`)
			out.WriteString(groups[1])
			out.WriteString(".</span> ")
			out.WriteString(html.EscapeString(groups[2]))
			out.WriteString("</div>\n")
			continue
		}

		if groups := bulletPattern.FindStringSubmatch(trimmed); groups != nil {
			flushParagraph()
			bullets = append(bullets, groups[1])
			continue
		}

		if !titleSeen && len(trimmed) > 30 && strings.Contains(trimmed, "Agreement") {
			flushAll()
			titleSeen = true
			out.WriteString(`<h1 class="agreement-title">`)
			out.WriteString(html.EscapeString(trimmed))
			out.WriteString("</h1>\n")
			continue
		}

		flushBullets()
		paragraph = append(paragraph, trimmed)
	}

	flushAll()
	closeAnnex()
	return out.String()
}
