package amqp

import (
	"encoding/json"
	"time"
)

// LedgerChangedMessage announces that the stored ledger was replaced.
// It carries no records: consumers reload from their own source.
type LedgerChangedMessage struct {
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerChangedMessage creates a notification stamped with the current time
func NewLedgerChangedMessage(source string, rows int) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		Source:    source,
		Rows:      rows,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON decodes a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
