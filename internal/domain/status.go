package domain

import "strings"

// Status represents the negotiation state of a contract.
type Status string

const (
	StatusDraft       Status = "draft"
	StatusSent        Status = "sent"
	StatusViewed      Status = "viewed"
	StatusNegotiation Status = "negotiation"
	StatusFinalize    Status = "finalize"
	StatusSigning     Status = "signing"
	StatusLocked      Status = "locked"
	StatusRejected    Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusViewed, StatusNegotiation,
		StatusFinalize, StatusSigning, StatusLocked, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusLocked || s == StatusRejected
}

// NormalizeStatus maps free-form status values to canonical ones.
func NormalizeStatus(value string) Status {
	s := Status(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s
	}
	return ""
}

// statusRank orders the forward-only progression. Rejected sits outside the
// progression and ranks zero.
func statusRank(s Status) int {
	switch s {
	case StatusDraft:
		return 1
	case StatusSent:
		return 2
	case StatusViewed:
		return 3
	case StatusNegotiation:
		return 4
	case StatusFinalize:
		return 5
	case StatusSigning:
		return 6
	case StatusLocked:
		return 7
	default:
		return 0
	}
}

// AtLeast reports whether s has reached other in the forward progression.
func (s Status) AtLeast(other Status) bool {
	return statusRank(s) >= statusRank(other)
}
