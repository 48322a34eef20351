// Package service holds the application logic behind the HTTP routes. Handlers
// decode requests and call a service; services validate and hand work to the
// event bus or the stores.
package service

// EventPublisher is the interface for publishing application events.
// eventbus.EventBus satisfies it.
type EventPublisher interface {
	Publish(eventType string, payload map[string]string)
}
