package messages

import (
	"encoding/json"
	"time"

	"github.com/BearBump/ClaimBox/internal/models"
	"github.com/google/uuid"
)

const ClaimRequestedType = "claim.requested"

// ClaimEvent is emitted after every persisted claim mutation. Notification and
// refund services consume it; the engine never acts on it.
type ClaimEvent struct {
	EventID    string             `json:"event_id"`
	Type       string             `json:"type"`
	ClaimID    uint64             `json:"claim_id"`
	FromStatus models.ClaimStatus `json:"from_status,omitempty"`
	ToStatus   models.ClaimStatus `json:"to_status"`
	Actor      string             `json:"actor"`
	OccurredAt time.Time          `json:"occurred_at"`
	Claim      json.RawMessage    `json:"claim"`
}

// NewClaimEvent renders snapshot into an event of type "claim.<action>".
func NewClaimEvent(eventType string, from models.ClaimStatus, snapshot models.Claim, actor string, at time.Time) (ClaimEvent, error) {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return ClaimEvent{}, err
	}
	return ClaimEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		ClaimID:    snapshot.ID,
		FromStatus: from,
		ToStatus:   snapshot.Status,
		Actor:      actor,
		OccurredAt: at.UTC(),
		Claim:      body,
	}, nil
}

func ClaimEventType(action models.Action) string {
	return "claim." + string(action)
}
