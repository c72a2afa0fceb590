package runtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nethercore/internal/guest"
	"nethercore/internal/guest/testguest"
	"nethercore/internal/rollback"
)

func TestDefaultRuntimeConfig(t *testing.T) {
	c := DefaultRuntimeConfig()
	assert.Equal(t, uint32(60), c.TickRate)
	assert.Equal(t, 100*time.Millisecond, c.MaxDelta)
	assert.Equal(t, 4*time.Millisecond, c.CPUBudget)
}

func TestFrameWithoutSessionRunsDirectUpdates(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	rt := NewRuntime(DefaultRuntimeConfig(), g, nil)

	start := time.Now()
	ticks, alpha, err := rt.Frame(start)
	assert.NoError(t, err)
	assert.Equal(t, 0, ticks, "first frame has no elapsed delta to consume")
	assert.Equal(t, float32(0), alpha)

	// Advance wall clock by exactly one tick duration.
	ticks, alpha, err = rt.Frame(start.Add(rt.TickDuration()))
	assert.NoError(t, err)
	assert.Equal(t, 1, ticks)
	assert.InDelta(t, 0.0, alpha, 0.01)
}

func TestFrameClampsMaxDelta(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	config := DefaultRuntimeConfig()
	config.MaxDelta = 2 * config.MaxDelta / 100 // 2ms, smaller than one tick (~16.6ms)
	rt := NewRuntime(config, g, nil)

	start := time.Now()
	rt.Frame(start)
	ticks, _, err := rt.Frame(start.Add(time.Second)) // huge stall, should clamp
	assert.NoError(t, err)
	assert.Equal(t, 0, ticks, "clamped delta (2ms) is smaller than one tick, so no tick should run")
}

func TestFrameWithSessionAdvancesAtMostOncePerCall(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	rt := NewRuntime(DefaultRuntimeConfig(), g, nil)
	session := rollback.NewLocalSession(1, 8, g)
	rt.SetSession(session)

	start := time.Now()
	rt.Frame(start)
	assert.NoError(t, session.AddLocalInput(0, guest.RawInput{}))

	// Advance wall clock by three tick durations' worth of time.
	ticks, _, err := rt.Frame(start.Add(3 * rt.TickDuration()))
	assert.NoError(t, err)
	assert.Equal(t, 1, ticks, "a session-driven runtime advances at most once per Frame call")
}

func TestFrameNonRunningSessionDoesNotAdvance(t *testing.T) {
	g := testguest.New()
	assert.NoError(t, g.Init())
	rt := NewRuntime(DefaultRuntimeConfig(), g, nil)
	session := rollback.NewLocalSession(1, 8, g)
	session.Disconnect() // force a non-Running state
	rt.SetSession(session)

	start := time.Now()
	rt.Frame(start)
	ticks, alpha, err := rt.Frame(start.Add(3 * rt.TickDuration()))
	assert.NoError(t, err)
	assert.Equal(t, 0, ticks)
	assert.Equal(t, float32(0), alpha)
}
