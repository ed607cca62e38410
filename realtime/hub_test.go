package realtime

import (
	"testing"
	"time"
)

func recvOne(t *testing.T, sub *Subscription) ChangeEvent {
	t.Helper()
	select {
	case ev, ok := <-sub.C:
		if !ok {
			t.Fatal("subscription channel closed unexpectedly")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
	}
	return ChangeEvent{}
}

func TestHubFanout(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	a := hub.Subscribe(CollectionOrders, Filter{})
	b := hub.Subscribe(CollectionOrders, Filter{})
	defer a.Close()
	defer b.Close()

	hub.Publish(ChangeEvent{Event: EventUpdate, Collection: CollectionOrders, RowID: 7})

	for _, sub := range []*Subscription{a, b} {
		ev := recvOne(t, sub)
		if ev.RowID != 7 || ev.Event != EventUpdate {
			t.Errorf("got %+v, want update on row 7", ev)
		}
	}
}

func TestHubCollectionIsolation(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	tables := hub.Subscribe(CollectionTables, Filter{})
	defer tables.Close()

	hub.Publish(ChangeEvent{Event: EventInsert, Collection: CollectionOrders, RowID: 1})

	select {
	case ev := <-tables.C:
		t.Errorf("tables subscriber received foreign event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRecipientFilter(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	alice, bob := uint(1), uint(2)
	sub := hub.Subscribe(CollectionNotifications, Filter{Recipient: &alice})
	defer sub.Close()

	// Addressed to bob: filtered out.
	hub.Publish(ChangeEvent{Event: EventInsert, Collection: CollectionNotifications, RowID: 10, Recipient: &bob})
	// Broadcast: delivered.
	hub.Publish(ChangeEvent{Event: EventInsert, Collection: CollectionNotifications, RowID: 11})
	// Addressed to alice: delivered.
	hub.Publish(ChangeEvent{Event: EventInsert, Collection: CollectionNotifications, RowID: 12, Recipient: &alice})

	if ev := recvOne(t, sub); ev.RowID != 11 {
		t.Errorf("first delivery: got row %d, want 11", ev.RowID)
	}
	if ev := recvOne(t, sub); ev.RowID != 12 {
		t.Errorf("second delivery: got row %d, want 12", ev.RowID)
	}
}

func TestHubTeardown(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	sub := hub.Subscribe(CollectionOrders, Filter{})
	if got := hub.SubscriberCount(CollectionOrders); got != 1 {
		t.Fatalf("SubscriberCount: got %d, want 1", got)
	}
	sub.Close()
	if got := hub.SubscriberCount(CollectionOrders); got != 0 {
		t.Errorf("SubscriberCount after close: got %d, want 0", got)
	}
	// Double close must not panic.
	sub.Close()
	// Channel is closed after teardown.
	if _, ok := <-sub.C; ok {
		t.Error("expected closed channel after Close")
	}
}

func TestHubDropsWhenSubscriberLags(t *testing.T) {
	t.Parallel()
	hub := NewHub()
	sub := hub.Subscribe(CollectionOrders, Filter{})
	defer sub.Close()

	// Publish past the buffer without consuming. Must not block.
	for i := 0; i < subscriptionBuffer*2; i++ {
		hub.Publish(ChangeEvent{Event: EventUpdate, Collection: CollectionOrders, RowID: uint(i)})
	}

	drained := 0
	for {
		select {
		case <-sub.C:
			drained++
			continue
		default:
		}
		break
	}
	if drained != subscriptionBuffer {
		t.Errorf("drained %d events, want exactly the buffer size %d", drained, subscriptionBuffer)
	}
}
