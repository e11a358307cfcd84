package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// TransactionEvent is a lightweight notification that a transaction was
// created or deleted. It carries only identifiers; consumers fetch the full
// record from the store when they need it.
type TransactionEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(id, userID, action string) *TransactionEvent {
	return &TransactionEvent{
		ID:        id,
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}

func (e *TransactionEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event missing transaction id")
	}
	if e.UserID == "" {
		return fmt.Errorf("event missing user id")
	}
	if e.Action != ActionCreated && e.Action != ActionDeleted {
		return fmt.Errorf("unknown event action %q", e.Action)
	}
	return nil
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
