package generation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_AddAndGet(t *testing.T) {
	h := NewHistory()

	id := h.Add(&Record{Name: "Ada", Provider: "openai"})
	require.NotEmpty(t, id)

	rec, ok := h.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Ada", rec.Name)
}

func TestHistory_ListNewestFirst(t *testing.T) {
	h := NewHistory()
	h.Add(&Record{Name: "first"})
	h.Add(&Record{Name: "second"})
	h.Add(&Record{Name: "third"})

	records := h.List()
	require.Len(t, records, 3)
	assert.Equal(t, "third", records[0].Name)
	assert.Equal(t, "first", records[2].Name)
}

func TestHistory_EvictsOldestPastCap(t *testing.T) {
	h := NewHistory()

	var firstID string
	for i := 0; i < historyCap+1; i++ {
		id := h.Add(&Record{Name: fmt.Sprintf("run-%d", i)})
		if i == 0 {
			firstID = id
		}
	}

	assert.Equal(t, historyCap, h.Len())
	_, ok := h.Get(firstID)
	assert.False(t, ok, "oldest record should be evicted")

	records := h.List()
	assert.Equal(t, fmt.Sprintf("run-%d", historyCap), records[0].Name)
	assert.Equal(t, "run-1", records[len(records)-1].Name)
}

func TestHistory_GetUnknownID(t *testing.T) {
	h := NewHistory()
	_, ok := h.Get("nope")
	assert.False(t, ok)
}
