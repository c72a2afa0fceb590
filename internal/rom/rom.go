// Package rom decodes and encodes the fantasy-console ROM container: a
// magic-tagged header, a metadata block, an opaque guest bytecode blob, an
// optional data pack of GPU-ready assets, and optional thumbnail/screenshot
// image blobs.
package rom

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// Magic identifies a nethercore ROM file: "NCRM" little-endian.
const Magic uint32 = 0x4D52434E

// FormatVersion is the current on-disk container version.
const FormatVersion uint16 = 1

// RenderMode selects the shader permutation family a ROM's pipelines use.
type RenderMode uint8

const (
	RenderModeLambert RenderMode = iota // mode 0: baseline, no normal-bearing formats required
	RenderModeMatcap
	RenderModePBR
	RenderModeUnlit
)

// Metadata is the self-describing header block every ROM carries.
type Metadata struct {
	ID          string
	Title       string
	Author      string
	Version     string
	Description string
	Tags        []string
	CreatedAt   time.Time
	RenderMode  RenderMode

	// Resolution and FPS hints are optional; zero means "unspecified, use
	// console defaults."
	ResolutionWidth  uint16
	ResolutionHeight uint16
	FPSHint          uint16
}

// ROM is a fully decoded ROM container.
type ROM struct {
	Metadata    Metadata
	Bytecode    []byte // opaque to the runtime; validated by length + checksum only
	Pack        DataPack
	Thumbnail   []byte // optional image blob
	Screenshots [][]byte
}

// ErrBadMagic is returned when a byte stream does not begin with the ROM magic word.
var ErrBadMagic = fmt.Errorf("rom: bad magic word")

// ErrChecksumMismatch is returned when the bytecode blob fails its integrity checksum.
var ErrChecksumMismatch = fmt.Errorf("rom: bytecode checksum mismatch")

// checksum is a simple additive Fletcher-32-like running checksum over the
// bytecode blob — enough to catch truncation/corruption, which is all the
// container format is responsible for (the guest validates its own bytecode
// semantics at load time).
func checksum(b []byte) uint32 {
	var sum1, sum2 uint32 = 1, 0
	for _, v := range b {
		sum1 = (sum1 + uint32(v)) % 65521
		sum2 = (sum2 + sum1) % 65521
	}
	return (sum2 << 16) | sum1
}

// Encode serializes a ROM to its on-disk container layout.
func Encode(w io.Writer, r *ROM) error {
	var body bytes.Buffer

	if err := writeMetadata(&body, &r.Metadata); err != nil {
		return fmt.Errorf("rom: encode metadata: %w", err)
	}

	if err := writeUint32(&body, uint32(len(r.Bytecode))); err != nil {
		return err
	}
	if err := writeUint32(&body, checksum(r.Bytecode)); err != nil {
		return err
	}
	if _, err := body.Write(r.Bytecode); err != nil {
		return err
	}

	packBytes, err := EncodeDataPack(&r.Pack)
	if err != nil {
		return fmt.Errorf("rom: encode data pack: %w", err)
	}
	if err := writeUint32(&body, uint32(len(packBytes))); err != nil {
		return err
	}
	if _, err := body.Write(packBytes); err != nil {
		return err
	}

	if err := writeBlob(&body, r.Thumbnail); err != nil {
		return err
	}
	if err := writeUint32(&body, uint32(len(r.Screenshots))); err != nil {
		return err
	}
	for _, shot := range r.Screenshots {
		if err := writeBlob(&body, shot); err != nil {
			return err
		}
	}

	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], Magic)
	binary.LittleEndian.PutUint16(header[4:6], FormatVersion)
	binary.LittleEndian.PutUint16(header[6:8], 0) // reserved

	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err = w.Write(body.Bytes())
	return err
}

// EncodeToFile writes a ROM container to the given path.
func EncodeToFile(path string, r *ROM) error {
	var buf bytes.Buffer
	if err := Encode(&buf, r); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Decode parses a ROM container from a byte stream.
func Decode(r io.Reader) (*ROM, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("rom: read header: %w", err)
	}
	magic := binary.LittleEndian.Uint32(header[0:4])
	if magic != Magic {
		return nil, ErrBadMagic
	}
	version := binary.LittleEndian.Uint16(header[4:6])
	if version != FormatVersion {
		return nil, fmt.Errorf("rom: unsupported format version %d", version)
	}

	out := &ROM{}
	if err := readMetadata(r, &out.Metadata); err != nil {
		return nil, fmt.Errorf("rom: decode metadata: %w", err)
	}

	bytecodeLen, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	wantChecksum, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	out.Bytecode = make([]byte, bytecodeLen)
	if _, err := io.ReadFull(r, out.Bytecode); err != nil {
		return nil, fmt.Errorf("rom: read bytecode: %w", err)
	}
	if checksum(out.Bytecode) != wantChecksum {
		return nil, ErrChecksumMismatch
	}

	packLen, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	packBytes := make([]byte, packLen)
	if _, err := io.ReadFull(r, packBytes); err != nil {
		return nil, fmt.Errorf("rom: read data pack: %w", err)
	}
	if packLen > 0 {
		pack, err := DecodeDataPack(packBytes)
		if err != nil {
			return nil, fmt.Errorf("rom: decode data pack: %w", err)
		}
		out.Pack = *pack
	}

	thumb, err := readBlob(r)
	if err != nil {
		return nil, err
	}
	out.Thumbnail = thumb

	numShots, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	out.Screenshots = make([][]byte, numShots)
	for i := range out.Screenshots {
		shot, err := readBlob(r)
		if err != nil {
			return nil, err
		}
		out.Screenshots[i] = shot
	}

	return out, nil
}

// DecodeFile reads and decodes a ROM container from disk.
func DecodeFile(path string) (*ROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rom: read file: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

func writeMetadata(w *bytes.Buffer, m *Metadata) error {
	if err := writeString(w, m.ID); err != nil {
		return err
	}
	if err := writeString(w, m.Title); err != nil {
		return err
	}
	if err := writeString(w, m.Author); err != nil {
		return err
	}
	if err := writeString(w, m.Version); err != nil {
		return err
	}
	if err := writeString(w, m.Description); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(m.Tags))); err != nil {
		return err
	}
	for _, tag := range m.Tags {
		if err := writeString(w, tag); err != nil {
			return err
		}
	}
	if err := writeUint32(w, uint32(m.CreatedAt.Unix())); err != nil {
		return err
	}
	if err := w.WriteByte(byte(m.RenderMode)); err != nil {
		return err
	}
	if err := writeUint16(w, m.ResolutionWidth); err != nil {
		return err
	}
	if err := writeUint16(w, m.ResolutionHeight); err != nil {
		return err
	}
	return writeUint16(w, m.FPSHint)
}

func readMetadata(r io.Reader, m *Metadata) error {
	var err error
	if m.ID, err = readString(r); err != nil {
		return err
	}
	if m.Title, err = readString(r); err != nil {
		return err
	}
	if m.Author, err = readString(r); err != nil {
		return err
	}
	if m.Version, err = readString(r); err != nil {
		return err
	}
	if m.Description, err = readString(r); err != nil {
		return err
	}
	numTags, err := readUint32(r)
	if err != nil {
		return err
	}
	m.Tags = make([]string, numTags)
	for i := range m.Tags {
		if m.Tags[i], err = readString(r); err != nil {
			return err
		}
	}
	createdAt, err := readUint32(r)
	if err != nil {
		return err
	}
	m.CreatedAt = time.Unix(int64(createdAt), 0).UTC()

	mode, err := readByte(r)
	if err != nil {
		return err
	}
	m.RenderMode = RenderMode(mode)

	if m.ResolutionWidth, err = readUint16(r); err != nil {
		return err
	}
	if m.ResolutionHeight, err = readUint16(r); err != nil {
		return err
	}
	if m.FPSHint, err = readUint16(r); err != nil {
		return err
	}
	return nil
}

// --- primitive binary helpers, shared by rom.go and datapack.go ---

func writeUint16(w *bytes.Buffer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeUint32(w *bytes.Buffer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func writeString(w *bytes.Buffer, s string) error {
	if err := writeUint32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

func writeBlob(w *bytes.Buffer, b []byte) error {
	if err := writeUint32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func readUint16(r io.Reader) (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readString(r io.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readBlob(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
