package rom

import (
	"bytes"
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := &ROM{
		Metadata: Metadata{
			ID:          "demo.paddle",
			Title:       "Paddle",
			Author:      "nethercore",
			Version:     "0.1.0",
			Description: "a minimal two-player paddle game",
			Tags:        []string{"demo", "2p"},
			CreatedAt:   time.Unix(1700000000, 0).UTC(),
			RenderMode:  RenderModeLambert,
			FPSHint:     60,
		},
		Bytecode: []byte{0x00, 0x01, 0x02, 0x03, 0xFF},
		Pack: DataPack{
			Textures: []PackedTexture{
				{ID: "paddle", Width: 2, Height: 2, Format: TextureRGBA8, Data: make([]byte, 16)},
			},
			Sounds: []PackedSound{
				{ID: "bounce", Data: []int16{0, 100, -100, 32767, -32768}},
			},
		},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, r); err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.Metadata.ID != r.Metadata.ID || got.Metadata.Title != r.Metadata.Title {
		t.Fatalf("metadata mismatch: %+v", got.Metadata)
	}
	if len(got.Metadata.Tags) != 2 || got.Metadata.Tags[0] != "demo" {
		t.Fatalf("tags mismatch: %+v", got.Metadata.Tags)
	}
	if !bytes.Equal(got.Bytecode, r.Bytecode) {
		t.Fatalf("bytecode mismatch: %v != %v", got.Bytecode, r.Bytecode)
	}
	if got.Pack.AssetCount() != 2 {
		t.Fatalf("expected 2 assets, got %d", got.Pack.AssetCount())
	}
	snd := got.Pack.FindSound("bounce")
	if snd == nil {
		t.Fatalf("expected to find sound %q", "bounce")
	}
	if snd.Data[3] != 32767 || snd.Data[4] != -32768 {
		t.Fatalf("sound sample round-trip mismatch: %v", snd.Data)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0, 0, 0, 0, 1, 0, 0, 0}))
	if err != ErrBadMagic {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestDecodeRejectsChecksumMismatch(t *testing.T) {
	r := &ROM{
		Metadata: Metadata{ID: "x", CreatedAt: time.Unix(0, 0).UTC()},
		Bytecode: []byte{1, 2, 3, 4},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, r); err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Flip a byte inside the bytecode blob without touching its stored checksum.
	raw := buf.Bytes()
	for i, b := range raw {
		if b == 2 && i > 8 {
			raw[i] = 9
			break
		}
	}

	_, err := Decode(bytes.NewReader(raw))
	if err != ErrChecksumMismatch {
		t.Fatalf("expected ErrChecksumMismatch, got %v", err)
	}
}

func TestPackedMeshStride(t *testing.T) {
	cases := []struct {
		format uint8
		want   int
	}{
		{0, 8},
		{MeshFlagUV, 12},
		{MeshFlagColor, 12},
		{MeshFlagNormal, 12},
		{MeshFlagSkinned, 16},
		{MeshFlagUV | MeshFlagColor | MeshFlagNormal, 20},
		{MeshFlagUV | MeshFlagColor | MeshFlagNormal | MeshFlagSkinned, 28},
	}
	for _, c := range cases {
		if got := PackedStride(c.format); got != c.want {
			t.Errorf("PackedStride(%#x) = %d, want %d", c.format, got, c.want)
		}
	}
}

func TestPackedTextureValidate(t *testing.T) {
	rgba := PackedTexture{Width: 4, Height: 4, Format: TextureRGBA8, Data: make([]byte, 64)}
	if !rgba.Validate() {
		t.Fatalf("expected valid RGBA8 texture")
	}
	bc7 := PackedTexture{Width: 5, Height: 5, Format: TextureBC7, Data: make([]byte, 64)}
	if !bc7.Validate() {
		t.Fatalf("expected valid BC7 texture: blocks 2x2 * 16B = 64, got ExpectedSize=%d", bc7.ExpectedSize())
	}
}
