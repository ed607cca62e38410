package realtime

// Collection identifies one watched entity set. Clients subscribe per
// collection and invalidate their cached view of the affected aggregate
// when any event for it arrives.
type Collection string

const (
	CollectionTables        Collection = "tables"
	CollectionOrders        Collection = "orders"
	CollectionOrderItems    Collection = "order_items"
	CollectionVoidRequests  Collection = "void_requests"
	CollectionNotifications Collection = "notifications"
)

// Collections lists every valid collection, for subscription validation.
var Collections = []Collection{
	CollectionTables,
	CollectionOrders,
	CollectionOrderItems,
	CollectionVoidRequests,
	CollectionNotifications,
}

// Event kinds.
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

// ChangeEvent tells a client that a row changed. It deliberately carries
// no row body: the contract is invalidate-and-refetch, never a client-side
// patch of server-computed aggregates.
type ChangeEvent struct {
	Event      string     `json:"event"` // insert, update, delete
	Collection Collection `json:"collection"`
	// RowID is the changed row's primary key within its own collection:
	// order_items events carry the item id, never the parent order id.
	RowID uint `json:"row_id"`
	// Recipient scopes notification events to one employee; nil means
	// every subscriber of the collection sees it.
	Recipient *uint `json:"recipient,omitempty"`
}

// Filter narrows a subscription. The zero value matches everything.
type Filter struct {
	// Recipient keeps only events addressed to this employee or to nobody
	// in particular (broadcast).
	Recipient *uint
}

func (f Filter) matches(ev ChangeEvent) bool {
	if f.Recipient == nil || ev.Recipient == nil {
		return true
	}
	return *ev.Recipient == *f.Recipient
}

// Bus is the change-notification primitive the engine publishes into and
// clients consume from. Implementations: the in-process Hub and the
// RabbitMQ-backed AMQPBus for multi-process deployments.
type Bus interface {
	Subscribe(collection Collection, filter Filter) *Subscription
	Publish(ev ChangeEvent)
}
