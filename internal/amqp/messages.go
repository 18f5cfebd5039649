package amqp

import (
	"encoding/json"
	"time"
)

// Actions carried by an export message.
const (
	ActionExport = "export"
	ActionDelete = "delete"
)

// EntryExportMessage is a lightweight notification that an entry needs to be
// exported (or removed). It carries only the entry ID, the worker fetches the
// full record from the database.
type EntryExportMessage struct {
	EntryID   string    `json:"entryId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntryExportMessage creates an export notification for an entry
func NewEntryExportMessage(entryID, action string) *EntryExportMessage {
	return &EntryExportMessage{
		EntryID:   entryID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryExportMessageFromJSON creates a message from JSON bytes
func EntryExportMessageFromJSON(data []byte) (*EntryExportMessage, error) {
	var msg EntryExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
