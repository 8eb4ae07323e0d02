package tokens

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// All value formatting for the legal document is centralized here so a token
// renders identically in every pass, preview and final alike.

const (
	dateLayout     = "January 2, 2006"
	dateTimeLayout = "January 2, 2006 at 3:04 PM MST"
	fallbackTZ     = "UTC"
)

// ResolveLocation applies the timezone precedence chain: admin timezone, then
// the requested effective timezone, then the contract's effective timezone,
// then the fixed fallback. Unknown names fall through to the next candidate so
// a stale zone string can never fail a render.
func ResolveLocation(adminTZ, requestedTZ, contractTZ string) *time.Location {
	for _, name := range []string{adminTZ, requestedTZ, contractTZ, fallbackTZ} {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}

func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}

func formatDateTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dateTimeLayout)
}

func formatDateRange(start, end *time.Time, loc *time.Location) string {
	from := formatDate(start, loc)
	to := formatDate(end, loc)
	switch {
	case from == "" && to == "":
		return ""
	case to == "":
		return from
	case from == "":
		return to
	default:
		return from + " to " + to
	}
}

// formatMoney renders minor units with thousands grouping, e.g. "1,234.50 USD".
func formatMoney(minorUnits int64, currency string) string {
	negative := minorUnits < 0
	if negative {
		minorUnits = -minorUnits
	}
	whole := minorUnits / 100
	cents := minorUnits % 100

	digits := strconv.FormatInt(whole, 10)
	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	out := fmt.Sprintf("%s.%02d", grouped.String(), cents)
	if negative {
		out = "-" + out
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return out
	}
	return out + " " + currency
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatList(items []string) string {
	var kept []string
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, ", ")
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds%60 == 0 {
		return fmt.Sprintf("%dm", seconds/60)
	}
	return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
}

// firstNonEmpty implements the graceful multi-source fallback used for
// identity fields: acceptance payload, then profile snapshot, then legacy.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
