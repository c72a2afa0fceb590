package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineCacheReusesEntryForSameKey(t *testing.T) {
	created := 0
	cache := NewPipelineCache(func(k PipelineKey) *Pipeline {
		created++
		return &Pipeline{Key: k}
	})

	key := RegularPipelineKey(0, 0, true, 1, DefaultPassConfig())
	p1 := cache.GetOrCreate(key)
	p2 := cache.GetOrCreate(key)

	assert.Same(t, p1, p2)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, cache.Len())
}

func TestPipelineCacheDistinguishesVariants(t *testing.T) {
	cache := NewPipelineCache(func(k PipelineKey) *Pipeline { return &Pipeline{Key: k} })

	regular := cache.GetOrCreate(RegularPipelineKey(0, 0, true, 1, DefaultPassConfig()))
	quad := cache.GetOrCreate(QuadPipelineKey(true, DefaultPassConfig(), false))
	sky := cache.GetOrCreate(SkyPipelineKey(DefaultPassConfig()))

	assert.NotEqual(t, regular.Key, quad.Key)
	assert.NotEqual(t, quad.Key, sky.Key)
	assert.Equal(t, 3, cache.Len())
}

func TestPassConfigHashDiffersOnDepthClear(t *testing.T) {
	a := DefaultPassConfig()
	b := DefaultPassConfig()
	b.DepthClear = true

	assert.NotEqual(t, passConfigHash(a), passConfigHash(b))
}

func TestResolveRenderModeFallsBackWithoutNormals(t *testing.T) {
	// render mode 2 (PBR) requires a normal-bearing vertex format.
	assert.Equal(t, uint8(0), resolveRenderMode(2, 0x0))
	assert.Equal(t, uint8(2), resolveRenderMode(2, 0x4))
}

func TestResolveRenderModeRejectsOutOfRange(t *testing.T) {
	assert.Equal(t, uint8(0), resolveRenderMode(7, 0x4))
}
