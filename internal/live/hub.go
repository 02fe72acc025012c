// Package live provides push subscriptions over the store: a topic hub
// signalled after every committed write, observable state, live queries
// that re-run on signal, and switch-to-latest composition.
//
// Every goroutine started here is bound to the caller's context. Cancelling
// the context removes the subscription and closes the output channel.
package live

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Topic names a family of rows whose change should re-run dependent queries.
type Topic string

const (
	TopicTasks   Topic = "tasks"
	TopicHabits  Topic = "habits"
	TopicRatings Topic = "ratings"
	TopicMoods   Topic = "moods"
)

// AllTopics lists every topic, used when a change cannot be attributed.
var AllTopics = []Topic{TopicTasks, TopicHabits, TopicRatings, TopicMoods}

type subscription struct {
	topics []Topic
	signal chan struct{}
}

// Hub fans out change signals to subscribers keyed by topic.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]*subscription
	topics map[Topic]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs:   make(map[string]*subscription),
		topics: make(map[Topic]map[string]struct{}),
	}
}

// Subscribe returns a signal channel that receives a value after any
// Publish touching one of topics. Signals coalesce: a subscriber that is
// slow to drain sees one pending signal, not one per write.
func (h *Hub) Subscribe(ctx context.Context, topics ...Topic) <-chan struct{} {
	token := uuid.NewString()
	sub := &subscription{
		topics: topics,
		signal: make(chan struct{}, 1),
	}

	h.mu.Lock()
	h.subs[token] = sub
	for _, t := range topics {
		if h.topics[t] == nil {
			h.topics[t] = make(map[string]struct{})
		}
		h.topics[t][token] = struct{}{}
	}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.unsubscribe(token)
	}()

	return sub.signal
}

func (h *Hub) unsubscribe(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.subs[token]
	if !ok {
		return
	}
	delete(h.subs, token)
	for _, t := range sub.topics {
		delete(h.topics[t], token)
		if len(h.topics[t]) == 0 {
			delete(h.topics, t)
		}
	}
}

// Publish signals every subscriber of any of topics.
func (h *Hub) Publish(topics ...Topic) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, t := range topics {
		for token := range h.topics[t] {
			select {
			case h.subs[token].signal <- struct{}{}:
			default:
			}
		}
	}
}

// Len returns the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
