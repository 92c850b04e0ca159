package event

// Event is a real-time message pushed to subscribed clients.
type Event struct {
	Topic string      // e.g. "order:ord-123", "user:usr-abc"
	Type  string      // delivery_update, order_update
	Data  interface{} // payload, depends on the event type
}

const (
	EventTypeDeliveryUpdate = "delivery_update" // delivery status / driver / location changed
	EventTypeOrderUpdate    = "order_update"    // marketplace order status changed
)

// OrderTopic and UserTopic name the subscriber channels events are keyed by.
func OrderTopic(orderID string) string { return "order:" + orderID }
func UserTopic(userID string) string   { return "user:" + userID }

// EventSender is the interface for the server pushing events to clients.
type EventSender interface {
	Register(topic string, client chan Event)
	Unregister(topic string, client chan Event)
	Broadcast(event Event)
	Run()
}
