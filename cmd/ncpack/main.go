// Command ncpack builds and inspects nethercore ROM containers: a metadata
// header, an opaque guest bytecode blob, and an optional data pack of
// sound/data assets. It replaces the teacher's rombuilder, which hand-wrote
// bytecode for a CPU this console doesn't have; building the bytecode blob
// itself is left to whatever guest toolchain targets this console (out of
// scope here — the container format is all this tool owns).
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nethercore/internal/rom"
)

func main() {
	inspectPath := flag.String("inspect", "", "Decode and print a ROM container's metadata instead of building one")
	outPath := flag.String("out", "", "Output path for the built ROM container")
	bytecodePath := flag.String("bytecode", "", "Path to the opaque guest bytecode blob (optional)")
	id := flag.String("id", "", "ROM ID")
	title := flag.String("title", "untitled", "ROM title")
	author := flag.String("author", "", "ROM author")
	version := flag.String("version", "0.1.0", "ROM version")
	desc := flag.String("desc", "", "ROM description")
	tags := flag.String("tags", "", "Comma-separated tags")
	renderMode := flag.Uint("rendermode", 0, "Render mode: 0=lambert 1=matcap 2=pbr 3=unlit")
	soundsDir := flag.String("sounds", "", "Directory of raw mono 16-bit 22050Hz PCM files (*.pcm), one sound per file, ID = filename without extension")
	dataDir := flag.String("data", "", "Directory of opaque asset files to pack as PackedData, ID = filename without extension")
	flag.Parse()

	if *inspectPath != "" {
		if err := inspect(*inspectPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error inspecting ROM: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *outPath == "" {
		fmt.Println("Usage: ncpack -out <output.rom> [options]")
		fmt.Println("       ncpack -inspect <rom-file>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	r := &rom.ROM{
		Metadata: rom.Metadata{
			ID:          *id,
			Title:       *title,
			Author:      *author,
			Version:     *version,
			Description: *desc,
			RenderMode:  rom.RenderMode(*renderMode),
			CreatedAt:   time.Now(),
		},
	}
	if *tags != "" {
		r.Metadata.Tags = strings.Split(*tags, ",")
	}

	if *bytecodePath != "" {
		data, err := os.ReadFile(*bytecodePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading bytecode blob: %v\n", err)
			os.Exit(1)
		}
		r.Bytecode = data
	}

	if *soundsDir != "" {
		sounds, err := loadSounds(*soundsDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading sounds: %v\n", err)
			os.Exit(1)
		}
		r.Pack.Sounds = sounds
	}

	if *dataDir != "" {
		data, err := loadData(*dataDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading data assets: %v\n", err)
			os.Exit(1)
		}
		r.Pack.Data = data
	}

	if err := rom.EncodeToFile(*outPath, r); err != nil {
		fmt.Fprintf(os.Stderr, "Error building ROM: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ROM built: %s\n", *outPath)
	fmt.Printf("  bytecode: %d bytes\n", len(r.Bytecode))
	fmt.Printf("  sounds:   %d\n", len(r.Pack.Sounds))
	fmt.Printf("  data:     %d\n", len(r.Pack.Data))
}

func inspect(path string) error {
	r, err := rom.DecodeFile(path)
	if err != nil {
		return err
	}
	m := r.Metadata
	fmt.Printf("ID:          %s\n", m.ID)
	fmt.Printf("Title:       %s\n", m.Title)
	fmt.Printf("Author:      %s\n", m.Author)
	fmt.Printf("Version:     %s\n", m.Version)
	fmt.Printf("Description: %s\n", m.Description)
	fmt.Printf("Tags:        %s\n", strings.Join(m.Tags, ", "))
	fmt.Printf("Created:     %s\n", m.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Render mode: %d\n", m.RenderMode)
	fmt.Printf("Bytecode:    %d bytes\n", len(r.Bytecode))
	fmt.Printf("Asset pack:  %d assets (%d textures, %d meshes, %d sounds, %d data)\n",
		r.Pack.AssetCount(), len(r.Pack.Textures), len(r.Pack.Meshes), len(r.Pack.Sounds), len(r.Pack.Data))
	return nil
}

// loadSounds reads every *.pcm file in dir as little-endian mono int16 PCM
// at 22,050Hz, using the filename (minus extension) as the sound's ID.
func loadSounds(dir string) ([]rom.PackedSound, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var sounds []rom.PackedSound
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".pcm" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if len(raw)%2 != 0 {
			return nil, fmt.Errorf("%s: odd byte length %d, not valid 16-bit PCM", entry.Name(), len(raw))
		}
		samples := make([]int16, len(raw)/2)
		for i := range samples {
			samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
		}
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		sounds = append(sounds, rom.PackedSound{ID: id, Data: samples})
	}
	return sounds, nil
}

// loadData reads every regular file in dir as an opaque PackedData asset,
// using the filename (minus extension) as the asset's ID.
func loadData(dir string) ([]rom.PackedData, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var data []rom.PackedData
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		data = append(data, rom.PackedData{ID: id, Data: raw})
	}
	return data, nil
}
