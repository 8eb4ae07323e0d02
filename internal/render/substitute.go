// Package render turns a token map and legal-text template into the canonical
// contract document. Rendering is split into three phases on purpose: plain
// token substitution, semantic HTML structuring with escaping, and a final
// splice of pre-built trusted fragments that must never pass through escaping.
// All phases are referentially pure so a locked snapshot can be reproduced
// byte for byte.
package render

import (
	"regexp"
	"strings"
)

// tokenPattern matches {{Token.Name}} with an optional parenthetical hint for
// template authors, e.g. {{Fee.Amount (gross, incl. platform fee)}}. The hint
// is stripped before lookup.
var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\[\]]+)(?:\s*\([^)}]*\))?\s*\}\}`)

// SubstituteTokens is phase one: it replaces every {{Token.Name}} placeholder
// with the corresponding token value, defaulting to the empty string for
// unknown tokens. Values substituted here are plain text; the structuring
// phase escapes them. Trusted HTML enters only through phase three.
func SubstituteTokens(template string, tokens map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := tokenPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return ""
		}
		return tokens[strings.TrimSpace(groups[1])]
	})
}

// ReferencedTokens lists every token name a template mentions, both the
// {{...}} substitution form and the [[...]] trusted-fragment form, in order of
// first appearance.
func ReferencedTokens(template string) []string {
	seen := map[string]bool{}
	var names []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, groups := range tokenPattern.FindAllStringSubmatch(template, -1) {
		add(groups[1])
	}
	for _, groups := range fragmentPattern.FindAllStringSubmatch(template, -1) {
		add(groups[1])
	}
	return names
}
