package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Ledger actions carried by LedgerChangedMessage.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// LedgerChangedMessage announces that a user's income or expense ledger was
// written. It carries identifiers only; consumers reload what they need.
type LedgerChangedMessage struct {
	UserID        string    `json:"userId"`
	Kind          string    `json:"kind"`
	Action        string    `json:"action"`
	TransactionID string    `json:"transactionId"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(userID, kind, action, transactionID string, at time.Time) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		UserID:        userID,
		Kind:          kind,
		Action:        action,
		TransactionID: transactionID,
		Timestamp:     at,
	}
}

func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON decodes a message and rejects one without a
// user id, since there is nothing a consumer could do with it.
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID == "" {
		return nil, errors.New("ledger changed message without user id")
	}
	return &msg, nil
}
