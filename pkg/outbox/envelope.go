package outbox

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

// EnvelopeVersion is the payload layout Emit writes.
const EnvelopeVersion = 1

// ErrEmptyPayload is returned when an envelope carries no event data.
var ErrEmptyPayload = errors.New("outbox envelope has no data")

// ActorRole says which side of the marketplace triggered an event.
type ActorRole string

const (
	ActorBuyer  ActorRole = "buyer"
	ActorSeller ActorRole = "seller"
)

// ActorRef identifies the marketplace user behind an event.
type ActorRef struct {
	UserID uuid.UUID `json:"userId"`
	Role   ActorRole `json:"role"`
}

// PayloadEnvelope is the JSON stored in outbox_events.payload and published
// as the Pub/Sub message body. It names the event and its aggregate so a
// consumer can route on the body alone.
type PayloadEnvelope struct {
	Version       int                       `json:"version"`
	EventID       string                    `json:"eventId"`
	EventType     enums.OutboxEventType     `json:"eventType,omitempty"`
	AggregateType enums.OutboxAggregateType `json:"aggregateType,omitempty"`
	AggregateID   uuid.UUID                 `json:"aggregateId"`
	OccurredAt    time.Time                 `json:"occurredAt"`
	Actor         *ActorRef                 `json:"actor,omitempty"`
	Data          json.RawMessage           `json:"data"`
}

// DecodeData unmarshals the event data into v.
func (e PayloadEnvelope) DecodeData(v any) error {
	trimmed := bytes.TrimSpace(e.Data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ErrEmptyPayload
	}
	return json.Unmarshal(trimmed, v)
}
