package devkit

import (
	"path/filepath"
	"testing"
	"time"

	"nethercore/internal/rom"
)

func writeTestROM(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "test.rom")
	r := &rom.ROM{
		Metadata: rom.Metadata{ID: "test", Title: "Test ROM", Version: "0.1.0"},
		Pack: rom.DataPack{
			Sounds: []rom.PackedSound{{ID: "beep", Data: []int16{100, 200, -100, -200}}},
		},
	}
	if err := rom.EncodeToFile(path, r); err != nil {
		t.Fatalf("encode test rom: %v", err)
	}
	return path
}

func TestServiceLoadROMStartsRunningSession(t *testing.T) {
	tmpDir := t.TempDir()
	svc := NewService(tmpDir)
	defer svc.Shutdown()

	romPath := writeTestROM(t, tmpDir)
	decoded, err := svc.LoadROM(romPath)
	if err != nil {
		t.Fatalf("load rom: %v", err)
	}
	if decoded.Metadata.Title != "Test ROM" {
		t.Fatalf("unexpected decoded title: %q", decoded.Metadata.Title)
	}

	snap := svc.Snapshot()
	if !snap.Loaded || !snap.Running {
		t.Fatalf("expected loaded/running snapshot, got %+v", snap)
	}
	if snap.Paused {
		t.Fatalf("expected not paused initially")
	}
	if snap.TickRate != 60 {
		t.Fatalf("expected default tick rate 60, got %d", snap.TickRate)
	}
}

func TestServiceRunFrameAdvancesAndMixesAudio(t *testing.T) {
	tmpDir := t.TempDir()
	svc := NewService(tmpDir)
	defer svc.Shutdown()

	romPath := writeTestROM(t, tmpDir)
	if _, err := svc.LoadROM(romPath); err != nil {
		t.Fatalf("load rom: %v", err)
	}

	if err := svc.SetInputButtons(0, 0x1); err != nil {
		t.Fatalf("set input: %v", err)
	}
	if err := svc.RunFrame(); err != nil {
		t.Fatalf("run frame: %v", err)
	}
	if len(svc.lastAudio) != 1 || len(svc.lastAudio[0]) == 0 {
		t.Fatalf("expected one mixed audio buffer after RunFrame, got %d", len(svc.lastAudio))
	}
	snap := svc.Snapshot()
	if snap.FrameCount != 1 {
		t.Fatalf("expected frame count 1, got %d", snap.FrameCount)
	}

	dv := svc.DebugValues()
	tick, ok := dv["tick"]
	if !ok {
		t.Fatalf("expected tick debug value")
	}
	if tick.AsF64() != 1 {
		t.Fatalf("expected tick == 1, got %v", tick.AsF64())
	}
}

func TestServiceStepFrameAdvancesMultipleTicks(t *testing.T) {
	tmpDir := t.TempDir()
	svc := NewService(tmpDir)
	defer svc.Shutdown()

	romPath := writeTestROM(t, tmpDir)
	if _, err := svc.LoadROM(romPath); err != nil {
		t.Fatalf("load rom: %v", err)
	}

	if err := svc.StepFrame(5); err != nil {
		t.Fatalf("step frame: %v", err)
	}
	snap := svc.Snapshot()
	if snap.FrameCount != 5 {
		t.Fatalf("expected frame count 5, got %d", snap.FrameCount)
	}
}

func TestServiceTogglePauseStopsTick(t *testing.T) {
	tmpDir := t.TempDir()
	svc := NewService(tmpDir)
	defer svc.Shutdown()

	romPath := writeTestROM(t, tmpDir)
	if _, err := svc.LoadROM(romPath); err != nil {
		t.Fatalf("load rom: %v", err)
	}

	paused, err := svc.TogglePause()
	if err != nil {
		t.Fatalf("toggle pause: %v", err)
	}
	if !paused {
		t.Fatalf("expected paused=true on first toggle")
	}

	result, err := svc.Tick(time.Second)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.FramesStepped != 0 {
		t.Fatalf("expected no frames stepped while paused, got %d", result.FramesStepped)
	}
	if !result.Snapshot.Paused {
		t.Fatalf("expected paused snapshot")
	}

	paused, err = svc.TogglePause()
	if err != nil {
		t.Fatalf("toggle pause (resume): %v", err)
	}
	if paused {
		t.Fatalf("expected paused=false on second toggle")
	}
}

func TestServiceTickCatchesUpWithinCeiling(t *testing.T) {
	tmpDir := t.TempDir()
	svc := NewService(tmpDir)
	defer svc.Shutdown()

	romPath := writeTestROM(t, tmpDir)
	if _, err := svc.LoadROM(romPath); err != nil {
		t.Fatalf("load rom: %v", err)
	}

	result, err := svc.Tick(time.Second)
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.FramesStepped != 4 {
		t.Fatalf("expected tick to cap catch-up at 4 frames, got %d", result.FramesStepped)
	}
	if len(result.AudioSamples) != result.FramesStepped {
		t.Fatalf("expected one audio buffer per stepped frame, got %d for %d frames", len(result.AudioSamples), result.FramesStepped)
	}
	for i, buf := range result.AudioSamples {
		if len(buf) == 0 {
			t.Fatalf("expected non-empty audio buffer at index %d", i)
		}
	}
}

func TestServiceResetSessionRestartsFrameCount(t *testing.T) {
	tmpDir := t.TempDir()
	svc := NewService(tmpDir)
	defer svc.Shutdown()

	romPath := writeTestROM(t, tmpDir)
	if _, err := svc.LoadROM(romPath); err != nil {
		t.Fatalf("load rom: %v", err)
	}
	if err := svc.StepFrame(3); err != nil {
		t.Fatalf("step frame: %v", err)
	}
	if err := svc.ResetSession(); err != nil {
		t.Fatalf("reset session: %v", err)
	}
	snap := svc.Snapshot()
	if snap.FrameCount != 0 {
		t.Fatalf("expected frame count reset to 0, got %d", snap.FrameCount)
	}
}

func TestServiceLoadROMMissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	svc := NewService(tmpDir)
	defer svc.Shutdown()

	if _, err := svc.LoadROM(filepath.Join(tmpDir, "does-not-exist.rom")); err == nil {
		t.Fatalf("expected error loading missing rom")
	}
}

func TestServiceShutdownClearsSnapshot(t *testing.T) {
	tmpDir := t.TempDir()
	svc := NewService(tmpDir)

	romPath := writeTestROM(t, tmpDir)
	if _, err := svc.LoadROM(romPath); err != nil {
		t.Fatalf("load rom: %v", err)
	}
	svc.Shutdown()
	snap := svc.Snapshot()
	if snap.Loaded {
		t.Fatalf("expected unloaded snapshot after shutdown, got %+v", snap)
	}
}
