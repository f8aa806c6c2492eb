// Package ratelimit tracks per-provider request and token usage over a
// sliding 60-second window and gates whether a provider may be dispatched to.
package ratelimit

import (
	"sync"
	"time"
)

// Window is the sliding interval usage is measured over.
const Window = 60 * time.Second

// bucket aggregates usage at one instant. Token usage is stored as
// (timestamp, count) pairs rather than one entry per token.
type bucket struct {
	at    time.Time
	count int
}

// providerState holds the trailing-window usage for one provider.
type providerState struct {
	requests []bucket
	tokens   []bucket
}

// Limits are the per-provider thresholds enforced by the limiter.
type Limits struct {
	RequestsPerMinute int
	TokensPerMinute   int
}

// Snapshot is the current consumption view for one provider.
type Snapshot struct {
	RequestsUsed int       `json:"requestsUsed"`
	RequestLimit int       `json:"requestLimit"`
	TokensUsed   int       `json:"tokensUsed"`
	TokenLimit   int       `json:"tokenLimit"`
	ResetsAt     time.Time `json:"resetsAt"`
}

// Limiter gates providers by their configured per-minute request and token
// thresholds. Safe for concurrent use.
type Limiter struct {
	mu     sync.Mutex
	limits map[string]Limits
	state  map[string]*providerState

	sweepTicker *time.Ticker
	sweepStop   chan struct{}

	now func() time.Time // overridable in tests
}

// NewLimiter creates a limiter for the given per-provider limits and starts
// the periodic sweep that prunes stale buckets.
func NewLimiter(limits map[string]Limits) *Limiter {
	l := &Limiter{
		limits: limits,
		state:  make(map[string]*providerState),
		now:    time.Now,
	}

	l.sweepTicker = time.NewTicker(Window)
	l.sweepStop = make(chan struct{})
	go l.sweep()

	return l
}

// Check reports whether the provider may serve a request that is estimated
// to consume estimatedTokens. Usage is pruned to the trailing window first.
func (l *Limiter) Check(provider string, estimatedTokens int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	limits, ok := l.limits[provider]
	if !ok {
		return false
	}

	st := l.provider(provider)
	cutoff := l.now().Add(-Window)
	st.requests = prune(st.requests, cutoff)
	st.tokens = prune(st.tokens, cutoff)

	return sum(st.requests) < limits.RequestsPerMinute &&
		sum(st.tokens)+estimatedTokens < limits.TokensPerMinute
}

// Record charges one request and the given token count to the provider.
func (l *Limiter) Record(provider string, tokens int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st := l.provider(provider)
	now := l.now()
	st.requests = append(st.requests, bucket{at: now, count: 1})
	st.tokens = append(st.tokens, bucket{at: now, count: tokens})
}

// SnapshotFor returns the provider's current window consumption.
func (l *Limiter) SnapshotFor(provider string) Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	limits := l.limits[provider]
	st := l.provider(provider)
	now := l.now()
	cutoff := now.Add(-Window)
	st.requests = prune(st.requests, cutoff)
	st.tokens = prune(st.tokens, cutoff)

	resetsAt := now
	if len(st.requests) > 0 {
		resetsAt = st.requests[0].at.Add(Window)
	}

	return Snapshot{
		RequestsUsed: sum(st.requests),
		RequestLimit: limits.RequestsPerMinute,
		TokensUsed:   sum(st.tokens),
		TokenLimit:   limits.TokensPerMinute,
		ResetsAt:     resetsAt,
	}
}

// Stop halts the sweep goroutine.
func (l *Limiter) Stop() {
	if l.sweepTicker != nil {
		l.sweepTicker.Stop()
	}
	if l.sweepStop != nil {
		close(l.sweepStop)
	}
}

// sweep prunes stale buckets for all providers on every tick.
func (l *Limiter) sweep() {
	for {
		select {
		case <-l.sweepTicker.C:
			l.mu.Lock()
			cutoff := l.now().Add(-Window)
			for _, st := range l.state {
				st.requests = prune(st.requests, cutoff)
				st.tokens = prune(st.tokens, cutoff)
			}
			l.mu.Unlock()
		case <-l.sweepStop:
			return
		}
	}
}

// provider returns the state for a provider, creating it if needed.
// Caller must hold l.mu.
func (l *Limiter) provider(name string) *providerState {
	st, ok := l.state[name]
	if !ok {
		st = &providerState{}
		l.state[name] = st
	}
	return st
}

// prune drops buckets at or before the cutoff. Buckets are appended in time
// order, so the survivors are a suffix.
func prune(buckets []bucket, cutoff time.Time) []bucket {
	i := 0
	for i < len(buckets) && !buckets[i].at.After(cutoff) {
		i++
	}
	return buckets[i:]
}

func sum(buckets []bucket) int {
	total := 0
	for _, b := range buckets {
		total += b.count
	}
	return total
}
