package audio

// Snapshot is the data handed from the main goroutine to the audio
// generation goroutine after each confirmed tick: a self-contained clone so
// the generator never touches live rollback-zone memory the main loop may
// already be advancing past.
type Snapshot struct {
	State      PlaybackState
	Tracker    TrackerState
	Sounds     Sounds // shared, read-only once the ROM is loaded
	SampleRate int
	TickRate   int
}

// ThreadedGenerator runs GenerateFrame on a dedicated goroutine, fed by a
// bounded channel of confirmed-frame snapshots. If the channel is full when
// a new snapshot arrives, the oldest queued snapshot is dropped in favor of
// the newer one — newer rollback state is always more correct than stale
// state, so an audible glitch from a dropped frame beats stalling the main
// loop on a slow mixer.
type ThreadedGenerator struct {
	engine  TrackerEngine
	input   chan Snapshot
	output  chan []float32
	done    chan struct{}
}

// NewThreadedGenerator starts the generation goroutine. Call Stop to shut it down.
func NewThreadedGenerator(engine TrackerEngine, queueDepth int) *ThreadedGenerator {
	g := &ThreadedGenerator{
		engine: engine,
		input:  make(chan Snapshot, queueDepth),
		output: make(chan []float32, queueDepth),
		done:   make(chan struct{}),
	}
	go g.run()
	return g
}

// Push enqueues a confirmed-frame snapshot, dropping the oldest queued
// snapshot if the channel is already full.
func (g *ThreadedGenerator) Push(snap Snapshot) {
	select {
	case g.input <- snap:
		return
	default:
	}
	select {
	case <-g.input:
	default:
	}
	select {
	case g.input <- snap:
	default:
	}
}

// Samples returns the channel of generated stereo sample buffers, in the
// order their snapshots were processed. A snapshot dropped by Push yields no
// buffer, and a buffer is dropped if the channel is full when it is ready.
func (g *ThreadedGenerator) Samples() <-chan []float32 {
	return g.output
}

func (g *ThreadedGenerator) run() {
	var buf []float32
	for {
		select {
		case snap := <-g.input:
			GenerateFrame(&snap.State, &snap.Tracker, g.engine, snap.Sounds, snap.SampleRate, snap.TickRate, &buf)
			out := make([]float32, len(buf))
			copy(out, buf)
			select {
			case g.output <- out:
			default:
				// Output channel is full: drop rather than block the
				// generator on a slow consumer.
			}
		case <-g.done:
			return
		}
	}
}

// Stop terminates the generation goroutine.
func (g *ThreadedGenerator) Stop() {
	close(g.done)
}
