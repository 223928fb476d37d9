package amqp

import (
	"encoding/json"
	"time"
)

// RecordSyncMessage tells the export worker that a financial record
// landed. It carries only the collection and id; the worker reads the
// full record from its own store.
type RecordSyncMessage struct {
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewRecordSyncMessage(collection, id string) *RecordSyncMessage {
	return &RecordSyncMessage{
		Collection: collection,
		ID:         id,
		Timestamp:  time.Now(),
	}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
