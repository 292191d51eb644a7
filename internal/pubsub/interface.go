package pubsub

// PubSubClient publishes fire-and-forget domain events and decodes inbound
// push payloads. Messages are msgpack-encoded.
type PubSubClient interface {
	SendMessage(topic string, data any) error
	ProcessMessage(data []byte, returnValue any) error
}
