package generation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/portfolio-generator/internal/types"
)

// historyCap bounds the in-memory history. The oldest record is evicted when
// the cap is exceeded.
const historyCap = 100

// Record is one completed generation kept for listing and regeneration. The
// stored form data and options are enough to replay the request.
type Record struct {
	ID          string               `json:"id"`
	CreatedAt   time.Time            `json:"createdAt"`
	Provider    string               `json:"provider"`
	Model       string               `json:"model"`
	Style       string               `json:"style"`
	Name        string               `json:"name"`
	TokensUsed  int                  `json:"tokensUsed"`
	Quality     types.QualityScores  `json:"quality"`
	ArchivePath string               `json:"archivePath,omitempty"`
	Data        *types.PortfolioData `json:"-"`
}

// History is a bounded FIFO of generation records with lookup by ID.
type History struct {
	mu      sync.Mutex
	order   []string
	records map[string]*Record
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{records: make(map[string]*Record)}
}

// Add stores a record, assigns it an ID and evicts the oldest entry if the
// history is full. Returns the assigned ID.
func (h *History) Add(rec *Record) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	rec.ID = uuid.New().String()
	h.order = append(h.order, rec.ID)
	h.records[rec.ID] = rec

	if len(h.order) > historyCap {
		evicted := h.order[0]
		h.order = h.order[1:]
		delete(h.records, evicted)
	}
	return rec.ID
}

// Get returns the record with the given ID.
func (h *History) Get(id string) (*Record, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rec, ok := h.records[id]
	return rec, ok
}

// List returns all records, newest first.
func (h *History) List() []*Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*Record, 0, len(h.order))
	for i := len(h.order) - 1; i >= 0; i-- {
		out = append(out, h.records[h.order[i]])
	}
	return out
}

// Len returns the number of stored records.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.order)
}
