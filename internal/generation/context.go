package generation

import (
	"sync"
	"time"

	"github.com/jonathan/portfolio-generator/internal/llm"
)

// Conversation context retention.
const (
	contextTTL      = time.Hour
	contextSweepInt = time.Minute
)

// conversation is the message history of one refinement session.
type conversation struct {
	messages []llm.Message
	touched  time.Time
}

// ContextStore keeps per-session conversation history so follow-up refinement
// requests carry prior turns. Entries expire an hour after last use.
type ContextStore struct {
	mu    sync.Mutex
	items map[string]*conversation

	ticker *time.Ticker
	stop   chan struct{}
	now    func() time.Time
}

// NewContextStore creates the store and starts its expiry sweep.
func NewContextStore() *ContextStore {
	s := &ContextStore{
		items:  make(map[string]*conversation),
		ticker: time.NewTicker(contextSweepInt),
		stop:   make(chan struct{}),
		now:    time.Now,
	}
	go s.sweep()
	return s
}

// Append adds messages to the session's history and refreshes its TTL.
func (s *ContextStore) Append(session string, messages ...llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.items[session]
	if !ok {
		conv = &conversation{}
		s.items[session] = conv
	}
	conv.messages = append(conv.messages, messages...)
	conv.touched = s.now()
}

// Messages returns a copy of the session's history and refreshes its TTL.
func (s *ContextStore) Messages(session string) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.items[session]
	if !ok {
		return nil
	}
	conv.touched = s.now()
	out := make([]llm.Message, len(conv.messages))
	copy(out, conv.messages)
	return out
}

// Drop removes a session's history.
func (s *ContextStore) Drop(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, session)
}

// Stop halts the expiry sweep.
func (s *ContextStore) Stop() {
	s.ticker.Stop()
	close(s.stop)
}

func (s *ContextStore) sweep() {
	for {
		select {
		case <-s.ticker.C:
			s.expire()
		case <-s.stop:
			return
		}
	}
}

// expire drops sessions idle for longer than the TTL.
func (s *ContextStore) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-contextTTL)
	for session, conv := range s.items {
		if conv.touched.Before(cutoff) {
			delete(s.items, session)
		}
	}
}
