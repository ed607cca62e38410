package realtime

import "sync"

// subscriptionBuffer bounds how far a slow consumer may lag. Events past
// the buffer are dropped: convergence comes from the next event or a
// manual refresh, not from history replay.
const subscriptionBuffer = 16

// Subscription is one client's view of a collection's change stream.
// Close it on teardown; the channel is closed exactly once.
type Subscription struct {
	C chan ChangeEvent

	collection Collection
	filter     Filter
	hub        *Hub
	once       sync.Once
}

// Close tears the subscription down and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		if s.hub != nil {
			s.hub.remove(s)
		}
		close(s.C)
	})
}

// Hub is the in-process Bus: fan-out over buffered channels. Delivery is
// best-effort per subscriber; a full buffer drops the event rather than
// blocking the publisher.
type Hub struct {
	mu   sync.Mutex
	subs map[Collection]map[*Subscription]bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[Collection]map[*Subscription]bool)}
}

func (h *Hub) Subscribe(collection Collection, filter Filter) *Subscription {
	sub := &Subscription{
		C:          make(chan ChangeEvent, subscriptionBuffer),
		collection: collection,
		filter:     filter,
		hub:        h,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[collection] == nil {
		h.subs[collection] = make(map[*Subscription]bool)
	}
	h.subs[collection][sub] = true
	return sub
}

func (h *Hub) Publish(ev ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[ev.Collection] {
		if !sub.filter.matches(ev) {
			continue
		}
		select {
		case sub.C <- ev:
		default:
			// Subscriber is not keeping up. Dropping is safe: the client
			// refetches whole aggregates, so any later event triggers the
			// same invalidation.
		}
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs[sub.collection], sub)
}

// SubscriberCount reports how many subscriptions a collection has.
func (h *Hub) SubscriberCount(collection Collection) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[collection])
}
