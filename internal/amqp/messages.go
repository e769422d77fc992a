package amqp

import (
	"encoding/json"
	"time"
)

// Operations reported in change messages.
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpReplace = "replace"
)

// CollectionChangeMessage announces that a stored collection was rewritten.
// It carries identifiers only; consumers re-read the collection for data.
type CollectionChangeMessage struct {
	Collection string    `json:"collection"`
	Operation  string    `json:"operation"`
	RecordID   string    `json:"recordId,omitempty"`
	Count      int       `json:"count"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewCollectionChangeMessage stamps a change with the current time. count is
// the collection size after the change.
func NewCollectionChangeMessage(collection, operation, recordID string, count int) *CollectionChangeMessage {
	return &CollectionChangeMessage{
		Collection: collection,
		Operation:  operation,
		RecordID:   recordID,
		Count:      count,
		Timestamp:  time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *CollectionChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CollectionChangeMessageFromJSON decodes a message body.
func CollectionChangeMessageFromJSON(data []byte) (*CollectionChangeMessage, error) {
	var msg CollectionChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RoutingKey is the key a message is published under: the queue name
// followed by the collection, e.g. "collection_changes.transactions".
func (m *CollectionChangeMessage) RoutingKey(queue string) string {
	return queue + "." + m.Collection
}
