package amqp

import (
	"testing"
	"time"
)

func TestCollectionChangeMessageJSON(t *testing.T) {
	msg := NewCollectionChangeMessage("transactions", OpCreate, "t1", 4)
	if time.Since(msg.Timestamp) > time.Minute {
		t.Fatalf("timestamp not set: %v", msg.Timestamp)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := CollectionChangeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Collection != "transactions" || got.Operation != OpCreate || got.RecordID != "t1" || got.Count != 4 {
		t.Fatalf("unexpected message %+v", got)
	}
	if !got.Timestamp.Equal(msg.Timestamp) {
		t.Fatalf("timestamp changed: %v vs %v", got.Timestamp, msg.Timestamp)
	}
}

func TestCollectionChangeMessageFromJSONRejectsGarbage(t *testing.T) {
	if _, err := CollectionChangeMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRoutingKey(t *testing.T) {
	msg := NewCollectionChangeMessage("creditCards", OpDelete, "c1", 0)
	if got := msg.RoutingKey("collection_changes"); got != "collection_changes.creditCards" {
		t.Fatalf("routing key = %s", got)
	}
}
