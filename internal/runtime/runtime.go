// Package runtime implements the fixed-timestep accumulator game loop: a
// variable-rate caller (the render loop) feeds wall-clock time in via
// Frame, and the runtime advances the guest in fixed ticks, gated by an
// optional rollback session.
package runtime

import (
	"fmt"
	"time"

	"nethercore/internal/debug"
	"nethercore/internal/guest"
	"nethercore/internal/rollback"
)

// RuntimeConfig controls tick rate and the loop's failure-mode guards.
type RuntimeConfig struct {
	// TickRate is the fixed simulation rate in Hz.
	TickRate uint32
	// MaxDelta clamps a single Frame call's wall-clock delta, preventing a
	// spiral of death after a long stall (e.g. a debugger breakpoint).
	MaxDelta time.Duration
	// CPUBudget is the per-tick time budget; exceeding it only logs a
	// warning, it never throttles or skips work.
	CPUBudget time.Duration
}

// DefaultRuntimeConfig matches the reference engine's defaults: 60Hz,
// 100ms max delta, 4ms cpu budget (about a quarter of one 60Hz tick).
func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		TickRate:  60,
		MaxDelta:  100 * time.Millisecond,
		CPUBudget: 4 * time.Millisecond,
	}
}

// Runtime is the composition root tying a guest.Program, an optional
// rollback.Session, and the fixed-timestep accumulator together.
type Runtime struct {
	config       RuntimeConfig
	tickDuration time.Duration
	program      guest.Program
	session      *rollback.Session
	logger       *debug.Logger

	accumulator   time.Duration
	lastUpdate    time.Time
	hasLastUpdate bool
}

// NewRuntime returns a runtime driving program, configured per config.
// logger may be nil to disable logging entirely.
func NewRuntime(config RuntimeConfig, program guest.Program, logger *debug.Logger) *Runtime {
	return &Runtime{
		config:       config,
		tickDuration: time.Duration(float64(time.Second) / float64(config.TickRate)),
		program:      program,
		logger:       logger,
	}
}

// SetSession attaches a rollback session; ticks will advance via the
// session's Save/Advance protocol instead of calling Update directly.
func (r *Runtime) SetSession(session *rollback.Session) {
	r.session = session
}

// TickDuration returns the fixed per-tick wall-clock duration.
func (r *Runtime) TickDuration() time.Duration {
	return r.tickDuration
}

// Frame runs one render-loop iteration at normal speed. See
// FrameWithTimeScale for the time-scaled variant.
func (r *Runtime) Frame(now time.Time) (ticksExecuted int, alpha float32, err error) {
	return r.FrameWithTimeScale(now, 1.0)
}

// FrameWithTimeScale runs zero or more fixed ticks to catch up to now,
// scaling wall-clock delta by timeScale (0.5 = slow motion, 2.0 = fast
// forward), and returns the number of ticks executed plus the
// interpolation factor for rendering between the last two states.
func (r *Runtime) FrameWithTimeScale(now time.Time, timeScale float32) (ticksExecuted int, alpha float32, err error) {
	// The first call has no previous timestamp, so it contributes no delta.
	var delta time.Duration
	if r.hasLastUpdate {
		d := now.Sub(r.lastUpdate)
		if d > r.config.MaxDelta {
			d = r.config.MaxDelta
		}
		delta = d
	}
	r.lastUpdate = now
	r.hasLastUpdate = true

	if timeScale < 0 {
		timeScale = 0
	}
	r.accumulator += time.Duration(float64(delta) * float64(timeScale))

	ticks := 0

	if r.session != nil {
		if r.session.State() != rollback.StateRunning {
			// Not running yet: don't advance, and reset the
			// accumulator so the session doesn't catch up in a burst once
			// it starts running.
			r.accumulator = 0
			return 0, 0, nil
		}

		for r.accumulator >= r.tickDuration {
			tickStart := time.Now()

			if _, err := r.session.Advance(float32(r.tickDuration.Seconds())); err != nil {
				return ticks, 0, fmt.Errorf("runtime: session advance: %w", err)
			}
			ticks++
			r.accumulator -= r.tickDuration

			r.checkBudget(tickStart)

			// Only one Advance per render frame, matching input cadence
			// (a session receives exactly one local input per Frame call).
			if r.accumulator > r.tickDuration {
				r.accumulator = r.tickDuration
			}
			break
		}
	} else {
		for r.accumulator >= r.tickDuration {
			tickStart := time.Now()

			if err := r.program.Update(float32(r.tickDuration.Seconds())); err != nil {
				return ticks, 0, fmt.Errorf("runtime: update: %w", err)
			}
			ticks++
			r.accumulator -= r.tickDuration

			r.checkBudget(tickStart)
		}
	}

	alpha = float32(r.accumulator) / float32(r.tickDuration)
	return ticks, alpha, nil
}

func (r *Runtime) checkBudget(tickStart time.Time) {
	elapsed := time.Since(tickStart)
	if elapsed > r.config.CPUBudget && r.logger != nil {
		r.logger.LogRuntimef(debug.LogLevelWarning, "tick took %v, exceeds budget of %v", elapsed, r.config.CPUBudget)
	}
}

// Program returns the runtime's guest program.
func (r *Runtime) Program() guest.Program {
	return r.program
}

// Session returns the runtime's rollback session, or nil if running
// without rollback.
func (r *Runtime) Session() *rollback.Session {
	return r.session
}
