package changefeed

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Entity names used on the feed.
const (
	EntityCustomer  = "customer"
	EntitySupplier  = "supplier"
	EntityRecord    = "record"
	EntityOrder     = "order"
	EntityInventory = "inventory"
)

// Event describes one committed write. Data holds the row after the write,
// or the removed row for deletes.
type Event struct {
	ID         string          `json:"id"`
	Entity     string          `json:"entity"`
	Action     Action          `json:"action"`
	EntityID   int64           `json:"entity_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func NewEvent(entity string, action Action, entityID int64, data any) (Event, error) {
	ev := Event{
		ID:         uuid.NewString(),
		Entity:     entity,
		Action:     action,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Event{}, fmt.Errorf("marshal %s %d: %w", entity, entityID, err)
		}
		ev.Data = raw
	}
	return ev, nil
}

func (e Event) String() string {
	return fmt.Sprintf("%s.%s#%d", e.Entity, e.Action, e.EntityID)
}
