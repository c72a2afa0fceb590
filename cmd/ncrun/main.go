// Command ncrun is the console-side runtime driver: it owns the fixed-
// timestep accumulator loop, a local (non-networked) rollback session, and
// keyboard/gamepad input, and drives the bundled reference guest through
// them. There is no windowed presentation here — adapting the Fyne/SDL2
// render surface to the new render.FrameState pipeline is a separate piece
// of work; this binary exercises everything up to (not including) pixels
// on screen, printing periodic state to stdout instead.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"nethercore/internal/audio"
	"nethercore/internal/debug"
	"nethercore/internal/guest"
	"nethercore/internal/guest/testguest"
	"nethercore/internal/input"
	"nethercore/internal/rollback"
	"nethercore/internal/rom"
	"nethercore/internal/runtime"
)

// silentTracker is the TrackerEngine used when a ROM carries no module
// music; testguest never activates the tracker, so its methods are never
// actually called.
type silentTracker struct{}

func (silentTracker) SyncToState(*audio.TrackerState, audio.Sounds) {}
func (silentTracker) RenderSampleAndAdvance() (float32, float32)    { return 0, 0 }

func main() {
	romPath := flag.String("rom", "", "Optional ROM container to load metadata and sound assets from")
	frameLimit := flag.Uint64("frames", 0, "Stop after this many confirmed ticks (0 = run until interrupted)")
	statusEvery := flag.Uint64("status-every", 60, "Print a status line every N confirmed ticks")
	enableLogging := flag.Bool("log", false, "Enable logging for every component (disabled by default)")
	tickRate := flag.Uint("tickrate", 60, "Fixed simulation rate in Hz")
	flag.Parse()

	var logger *debug.Logger
	if *enableLogging {
		logger = debug.NewLogger(10000)
		logger.SetComponentEnabled(debug.ComponentRuntime, true)
		logger.SetComponentEnabled(debug.ComponentRollback, true)
		logger.SetComponentEnabled(debug.ComponentRender, true)
		logger.SetComponentEnabled(debug.ComponentAudio, true)
		logger.SetComponentEnabled(debug.ComponentInput, true)
		logger.SetComponentEnabled(debug.ComponentROM, true)
		logger.SetMinLevel(debug.LogLevelDebug)
	}

	sounds := audio.Sounds{nil}
	if *romPath != "" {
		r, err := rom.DecodeFile(*romPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading ROM file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("ROM: %s (%s) by %s, render mode %d\n", r.Metadata.Title, r.Metadata.Version, r.Metadata.Author, r.Metadata.RenderMode)
		sounds = make(audio.Sounds, len(r.Pack.Sounds)+1)
		for i := range r.Pack.Sounds {
			sounds[i+1] = r.Pack.Sounds[i].Data
		}
		if logger != nil {
			logger.LogROMf(debug.LogLevelInfo, "loaded %d packed sounds from %s", len(r.Pack.Sounds), *romPath)
		}
	}

	game := testguest.New()
	if err := game.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing guest: %v\n", err)
		os.Exit(1)
	}

	session := rollback.NewLocalSession(guest.MaxPlayers, 128, game)

	config := runtime.DefaultRuntimeConfig()
	config.TickRate = uint32(*tickRate)
	rt := runtime.NewRuntime(config, game, logger)
	rt.SetSession(session)

	if err := sdl.Init(sdl.INIT_GAMECONTROLLER | sdl.INIT_EVENTS); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing SDL input subsystem: %v\n", err)
		os.Exit(1)
	}
	defer sdl.Quit()

	inputMgr := input.NewManager(input.DefaultConfig())
	defer inputMgr.Close()

	fmt.Println("nethercore runtime driver")
	fmt.Printf("Tick rate: %dHz\n", *tickRate)
	fmt.Println("Player 0 reads the keyboard unless a gamepad claims the slot; players 1-3 are gamepads in connection order.")
	if *frameLimit == 0 {
		fmt.Println("Running until interrupted (Ctrl+C)...")
	} else {
		fmt.Printf("Running for %d confirmed ticks...\n", *frameLimit)
	}

	var audioBuf []float32
	var totalConfirmed uint64
	quit := false

	for !quit && (*frameLimit == 0 || totalConfirmed < *frameLimit) {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			if _, ok := event.(*sdl.QuitEvent); ok {
				quit = true
				break
			}
			inputMgr.HandleEvent(event)
		}

		inputMgr.Poll()
		for player := 0; player < guest.MaxPlayers; player++ {
			if err := session.AddLocalInput(player, inputMgr.GetPlayerInput(player)); err != nil {
				fmt.Fprintf(os.Stderr, "Error queuing input for player %d: %v\n", player, err)
				os.Exit(1)
			}
		}

		ticks, _, err := rt.Frame(time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
			os.Exit(1)
		}

		for i := 0; i < ticks; i++ {
			totalConfirmed++

			playback, tracker := game.AudioState()
			audio.GenerateFrame(&playback, &tracker, silentTracker{}, sounds, audio.OutputSampleRate, int(*tickRate), &audioBuf)

			if *statusEvery > 0 && totalConfirmed%*statusEvery == 0 {
				fmt.Printf("tick %d  p0=(%.1f)  p1=(%.1f)  samples=%d\n",
					game.Tick(), game.Position(0), game.Position(1), len(audioBuf)/2)
			}
		}

		time.Sleep(rt.TickDuration() / 4)
	}

	fmt.Printf("Stopped after %d confirmed ticks.\n", totalConfirmed)
	if logger != nil {
		logger.Shutdown()
	}
}
