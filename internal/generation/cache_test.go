package generation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-generator/internal/types"
)

func cachePortfolio(name string) *types.GeneratedPortfolio {
	return &types.GeneratedPortfolio{HTML: "<html>" + name + "</html>"}
}

func TestCache_HitAndMiss(t *testing.T) {
	c := NewCache(4)

	_, ok := c.Get(1)
	assert.False(t, ok)

	c.Put(1, cachePortfolio("a"))
	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "<html>a</html>", got.HTML)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)

	c.Put(1, cachePortfolio("a"))
	c.Put(2, cachePortfolio("b"))

	// Touch 1 so 2 becomes the eviction candidate.
	_, ok := c.Get(1)
	require.True(t, ok)

	c.Put(3, cachePortfolio("c"))

	_, ok = c.Get(2)
	assert.False(t, ok)
	_, ok = c.Get(1)
	assert.True(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(4)
	c.Put(1, cachePortfolio("a"))
	c.Get(1)

	c.Clear()

	stats := c.Stats()
	assert.Zero(t, stats.Size)
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
}

func TestCacheKeyIgnoresProjectText(t *testing.T) {
	// The key is deliberately coarse: it covers the project count but not
	// project contents, so edits inside a project reuse the cached bundle.
	base := &types.PortfolioData{
		PersonalInfo: types.PersonalInfo{Name: "Ada", Email: "ada@example.com"},
		AboutMe:      "about",
		Projects:     []types.Project{{Name: "Engine", Description: "v1"}},
	}
	edited := &types.PortfolioData{
		PersonalInfo: types.PersonalInfo{Name: "Ada", Email: "ada@example.com"},
		AboutMe:      "about",
		Projects:     []types.Project{{Name: "Engine", Description: "v2 rewritten"}},
	}

	assert.Equal(t,
		CacheKey(base, "openai", "minimal", "gpt-4"),
		CacheKey(edited, "openai", "minimal", "gpt-4"))
}

func TestCacheKeyVariesByIdentityFields(t *testing.T) {
	data := &types.PortfolioData{
		PersonalInfo: types.PersonalInfo{Name: "Ada", Email: "ada@example.com"},
		AboutMe:      "about",
	}

	base := CacheKey(data, "openai", "minimal", "gpt-4")
	assert.NotEqual(t, base, CacheKey(data, "gemini", "minimal", "gpt-4"))
	assert.NotEqual(t, base, CacheKey(data, "openai", "dark", "gpt-4"))
	assert.NotEqual(t, base, CacheKey(data, "openai", "minimal", "gpt-4-turbo"))

	withProject := *data
	withProject.Projects = []types.Project{{Name: "Engine"}}
	assert.NotEqual(t, base, CacheKey(&withProject, "openai", "minimal", "gpt-4"))
}

func TestCache_UpdateExistingKey(t *testing.T) {
	c := NewCache(2)
	c.Put(1, cachePortfolio("old"))
	c.Put(1, cachePortfolio("new"))

	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "<html>new</html>", got.HTML)
	assert.Equal(t, 1, c.Stats().Size)
}

func TestCache_FillToCapacity(t *testing.T) {
	c := NewCache(8)
	for i := 0; i < 20; i++ {
		c.Put(uint64(i), cachePortfolio(fmt.Sprintf("p%d", i)))
	}
	assert.Equal(t, 8, c.Stats().Size)
}
