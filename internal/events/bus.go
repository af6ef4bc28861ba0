package events

import (
	"sync"
	"time"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventEntityCreated  EventType = "ENTITY_CREATED"
	EventEntityUpdated  EventType = "ENTITY_UPDATED"
	EventEntityDeleted  EventType = "ENTITY_DELETED"
	EventLicenseRevoked EventType = "LICENSE_REVOKED"
	EventMessageSent    EventType = "MESSAGE_SENT"
	EventAPIKeyMinted   EventType = "API_KEY_MINTED"
	EventCollectionSeed EventType = "COLLECTION_SEEDED"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Subscriber is a function that handles events
type Subscriber func(Event)

// EventBus manages event publishing and subscriptions
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Subscriber
	allSubs     []Subscriber // Subscribers to all events
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[EventType][]Subscriber),
		allSubs:     make([]Subscriber, 0),
	}
}

// Subscribe registers a subscriber for a specific event type
func (eb *EventBus) Subscribe(eventType EventType, subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
}

// SubscribeAll registers a subscriber for all events
func (eb *EventBus) SubscribeAll(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.allSubs = append(eb.allSubs, subscriber)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	// Set timestamp if not provided
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Notify specific subscribers
	if subs, ok := eb.subscribers[event.Type]; ok {
		for _, sub := range subs {
			go sub(event) // Run in goroutine to avoid blocking
		}
	}

	// Notify all-event subscribers
	for _, sub := range eb.allSubs {
		go sub(event)
	}
}

// PublishEntityCreated publishes a record creation event
func (eb *EventBus) PublishEntityCreated(collection, id string) {
	eb.Publish(Event{
		Type: EventEntityCreated,
		Data: map[string]interface{}{
			"collection": collection,
			"id":         id,
		},
	})
}

// PublishEntityDeleted publishes a deletion event covering one or more ids
func (eb *EventBus) PublishEntityDeleted(collection string, ids []string, deleted int) {
	eb.Publish(Event{
		Type: EventEntityDeleted,
		Data: map[string]interface{}{
			"collection":    collection,
			"ids":           ids,
			"deleted_count": deleted,
		},
	})
}

// PublishLicenseRevoked publishes a license revocation event
func (eb *EventBus) PublishLicenseRevoked(id string) {
	eb.Publish(Event{
		Type: EventLicenseRevoked,
		Data: map[string]interface{}{
			"collection": "licenses",
			"id":         id,
		},
	})
}

// PublishMessageSent publishes a chat message event
func (eb *EventBus) PublishMessageSent(chatID, messageID, userID string) {
	eb.Publish(Event{
		Type: EventMessageSent,
		Data: map[string]interface{}{
			"chat_id":    chatID,
			"message_id": messageID,
			"user_id":    userID,
		},
	})
}

// PublishAPIKeyMinted publishes an API key creation event
func (eb *EventBus) PublishAPIKeyMinted(id string) {
	eb.Publish(Event{
		Type: EventAPIKeyMinted,
		Data: map[string]interface{}{
			"id": id,
		},
	})
}

// PublishCollectionSeeded publishes a seed event with the batch size
func (eb *EventBus) PublishCollectionSeeded(collection string, count int) {
	eb.Publish(Event{
		Type: EventCollectionSeed,
		Data: map[string]interface{}{
			"collection": collection,
			"count":      count,
		},
	})
}
