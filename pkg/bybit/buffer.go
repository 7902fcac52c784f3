package bybit

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultBufferSize is the rolling window kept for event-style topics.
const DefaultBufferSize = 50

// DefaultEventTopics are topic names whose messages are individual events rather than
// state snapshots. Their buffers accumulate instead of being replaced.
var DefaultEventTopics = []string{
	"trade",
	"execution",
	"order",
	"stop_order",
	"liquidation",
	"insurance",
	"tradeV1",
	"tradeV2",
	"executionReport",
	"ticketInfo",
}

// Message is one buffered frame.
type Message struct {
	Topic string
	// Type is the frame's "type" field ("snapshot", "delta") when present.
	Type       string
	Data       json.RawMessage
	ReceivedAt time.Time
}

// TopicBuffer stores the most recent messages per topic. The receive loop is the
// only writer; readers get copies.
type TopicBuffer struct {
	mu     sync.RWMutex
	size   int
	events map[string]struct{}
	topics map[string][]Message
}

// NewTopicBuffer creates a buffer keeping size messages for event-style topics.
func NewTopicBuffer(size int, eventTopics []string) *TopicBuffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	events := make(map[string]struct{}, len(eventTopics))
	for _, t := range eventTopics {
		events[t] = struct{}{}
	}
	return &TopicBuffer{
		size:   size,
		events: events,
		topics: make(map[string][]Message),
	}
}

// IsEventTopic reports whether topic accumulates. Only the name before the first dot counts,
// so "trade.BTCUSD" is an event topic.
func (b *TopicBuffer) IsEventTopic(topic string) bool {
	name, _, _ := strings.Cut(topic, ".")
	_, ok := b.events[name]
	return ok
}

// Store records msg. A snapshot frame resets the topic, a delta frame or an event topic
// appends to the rolling window, anything else replaces the previous message.
func (b *TopicBuffer) Store(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case msg.Type == "snapshot":
		b.topics[msg.Topic] = []Message{msg}
	case msg.Type == "delta" || b.IsEventTopic(msg.Topic):
		msgs := b.topics[msg.Topic]
		if len(msgs) >= b.size {
			copy(msgs, msgs[len(msgs)-b.size+1:])
			msgs = msgs[:b.size-1]
		}
		b.topics[msg.Topic] = append(msgs, msg)
	default:
		b.topics[msg.Topic] = []Message{msg}
	}
}

// Fetch returns a copy of the messages buffered for topic, oldest first.
// A topic with no messages yields an empty, non-nil slice.
func (b *TopicBuffer) Fetch(topic string) []Message {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msgs := b.topics[topic]
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}

// Latest returns the newest message for topic.
func (b *TopicBuffer) Latest(topic string) (Message, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msgs := b.topics[topic]
	if len(msgs) == 0 {
		return Message{}, false
	}
	return msgs[len(msgs)-1], true
}

// Topics lists the topics that have buffered messages, sorted.
func (b *TopicBuffer) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Sorted(maps.Keys(b.topics))
}

// Clear drops everything buffered for topic.
func (b *TopicBuffer) Clear(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.topics, topic)
}
