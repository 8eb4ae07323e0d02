package auditlog

import (
	"testing"
	"time"
)

func TestEventValidate(t *testing.T) {
	base := Event{
		OccurredAt:   time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC),
		Actor:        "user-1",
		Action:       "contract.signed",
		ResourceType: "contract",
		ResourceID:   "ct-1",
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Event)
	}{
		{"missing actor", func(e *Event) { e.Actor = " " }},
		{"missing action", func(e *Event) { e.Action = "" }},
		{"missing resource type", func(e *Event) { e.ResourceType = "" }},
		{"missing resource id", func(e *Event) { e.ResourceID = "" }},
		{"missing time", func(e *Event) { e.OccurredAt = time.Time{} }},
	}
	for _, tc := range cases {
		e := base
		tc.mutate(&e)
		if err := e.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestComputeIntegritySHA256Stable(t *testing.T) {
	event := Event{
		OccurredAt:   time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC),
		Actor:        "user-1",
		Action:       "contract.locked",
		ResourceType: "contract",
		ResourceID:   "ct-1",
		RequestID:    "req-1",
	}
	payload := []byte(`{"role":"collabglam"}`)

	a, err := ComputeIntegritySHA256(event, payload)
	if err != nil {
		t.Fatalf("ComputeIntegritySHA256: %v", err)
	}
	b, err := ComputeIntegritySHA256(event, payload)
	if err != nil {
		t.Fatalf("ComputeIntegritySHA256: %v", err)
	}
	if a != b {
		t.Fatalf("integrity hash not stable: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %q", a)
	}

	event.Action = "contract.signed"
	c, err := ComputeIntegritySHA256(event, payload)
	if err != nil {
		t.Fatalf("ComputeIntegritySHA256: %v", err)
	}
	if c == a {
		t.Fatal("different events must not collide")
	}
}
