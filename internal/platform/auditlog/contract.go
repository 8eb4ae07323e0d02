package auditlog

import (
	"context"
	"strings"
	"time"

	"github.com/collabglam/contractflow/internal/domain"
)

// InsertContractEvent mirrors one aggregate audit entry into the durable
// audit_events table. The aggregate's embedded history stays authoritative;
// this row exists for cross-contract queries and integrity checks.
func InsertContractEvent(ctx context.Context, q QueryRower, contractID, actor, requestID string, entry domain.AuditEntry) (int64, error) {
	occurredAt := entry.At
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	if strings.TrimSpace(actor) == "" {
		actor = string(entry.Role)
	}
	if strings.TrimSpace(actor) == "" {
		actor = "system"
	}
	return Insert(ctx, q, Event{
		OccurredAt:   occurredAt,
		Actor:        actor,
		Action:       "contract." + strings.ToLower(strings.TrimSpace(entry.Type)),
		ResourceType: "contract",
		ResourceID:   contractID,
		RequestID:    requestID,
		Payload: map[string]any{
			"role":    string(entry.Role),
			"details": entry.Details,
		},
	})
}
