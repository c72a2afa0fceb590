package rom

import (
	"bytes"
	"fmt"
	"io"
)

// TextureFormat selects how a PackedTexture's bytes are laid out.
type TextureFormat uint8

const (
	TextureRGBA8 TextureFormat = iota
	TextureBC7
	TextureBC7Linear
)

// PackedTexture is RGBA8 or BC7-compressed pixel data, ready for direct GPU upload.
type PackedTexture struct {
	ID     string
	Width  uint16
	Height uint16
	Format TextureFormat
	Data   []byte
}

// ExpectedSize returns the byte length Data must have for Width/Height/Format to be valid.
func (t *PackedTexture) ExpectedSize() int {
	switch t.Format {
	case TextureBC7, TextureBC7Linear:
		blocksX := (int(t.Width) + 3) / 4
		blocksY := (int(t.Height) + 3) / 4
		return blocksX * blocksY * 16
	default:
		return int(t.Width) * int(t.Height) * 4
	}
}

// Validate reports whether Data's length matches the format/dimension invariant.
func (t *PackedTexture) Validate() bool {
	return len(t.Data) == t.ExpectedSize()
}

// Mesh vertex-format bit flags.
const (
	MeshFlagUV      uint8 = 1 << 0
	MeshFlagColor    uint8 = 1 << 1
	MeshFlagNormal   uint8 = 1 << 2
	MeshFlagSkinned  uint8 = 1 << 3
)

// PackedMesh is GPU-ready packed vertex + index data.
type PackedMesh struct {
	ID          string
	Format      uint8 // bit 0 UV, 1 color, 2 normal, 3 skinned
	VertexCount uint32
	IndexCount  uint32
	VertexData  []byte
	IndexData   []uint16
}

func (m *PackedMesh) HasUV() bool      { return m.Format&MeshFlagUV != 0 }
func (m *PackedMesh) HasColor() bool   { return m.Format&MeshFlagColor != 0 }
func (m *PackedMesh) HasNormal() bool  { return m.Format&MeshFlagNormal != 0 }
func (m *PackedMesh) IsSkinned() bool  { return m.Format&MeshFlagSkinned != 0 }

// Stride returns the packed per-vertex byte stride for the mesh's format.
//
// Base 8 B (position f16x4); +4 B UV (unorm16x2); +4 B color (unorm8x4);
// +4 B normal (octahedral u32); +8 B skinned (bone indices u8x4 + weights unorm8x4).
func (m *PackedMesh) Stride() int {
	return PackedStride(m.Format)
}

// PackedStride computes the packed vertex stride for any of the 16 format
// flag combinations, independent of any particular mesh instance.
func PackedStride(format uint8) int {
	stride := 8
	if format&MeshFlagUV != 0 {
		stride += 4
	}
	if format&MeshFlagColor != 0 {
		stride += 4
	}
	if format&MeshFlagNormal != 0 {
		stride += 4
	}
	if format&MeshFlagSkinned != 0 {
		stride += 8
	}
	return stride
}

// BoneMatrix3x4 is a packed 3x4 affine inverse-bind matrix (48 bytes: 12 float32s).
type BoneMatrix3x4 [12]float32

// PackedSkeleton holds only the inverse-bind matrices needed for GPU skinning.
type PackedSkeleton struct {
	ID                  string
	BoneCount           uint32
	InverseBindMatrices []BoneMatrix3x4
}

// Validate reports whether BoneCount matches the matrix slice length.
func (s *PackedSkeleton) Validate() bool {
	return int(s.BoneCount) == len(s.InverseBindMatrices)
}

// PackedKeyframes is a flat animation-clip byte blob: bone_count * frame_count * 16 bytes.
type PackedKeyframes struct {
	ID          string
	BoneCount   uint8
	FrameCount  uint16
	Data        []byte
}

// Validate reports whether Data's length matches BoneCount*FrameCount*16.
func (k *PackedKeyframes) Validate() bool {
	return len(k.Data) == int(k.BoneCount)*int(k.FrameCount)*16
}

// Glyph is one character's atlas placement and advance metrics.
type Glyph struct {
	Codepoint rune
	X, Y      uint16
	W, H      uint16
	XAdvance  float32
}

// PackedFont is a bitmap atlas plus a glyph table and line metrics.
type PackedFont struct {
	ID          string
	AtlasWidth  uint16
	AtlasHeight uint16
	AtlasRGBA8  []byte
	Glyphs      []Glyph
	LineHeight  float32
	Ascent      float32
	Descent     float32
}

// PackedSound is mono i16 PCM at 22,050 Hz.
type PackedSound struct {
	ID     string
	Data   []int16
}

// PackedData is an opaque byte blob keyed by ID (levels, dialogue, custom formats).
type PackedData struct {
	ID   string
	Data []byte
}

// DataPack is the complete bundle of GPU-ready assets shipped inside a ROM.
type DataPack struct {
	Textures  []PackedTexture
	Meshes    []PackedMesh
	Skeletons []PackedSkeleton
	Keyframes []PackedKeyframes
	Fonts     []PackedFont
	Sounds    []PackedSound
	Data      []PackedData
}

// IsEmpty reports whether the pack carries no assets of any kind.
func (p *DataPack) IsEmpty() bool {
	return len(p.Textures) == 0 && len(p.Meshes) == 0 && len(p.Skeletons) == 0 &&
		len(p.Keyframes) == 0 && len(p.Fonts) == 0 && len(p.Sounds) == 0 && len(p.Data) == 0
}

// AssetCount returns the total number of assets of all kinds.
func (p *DataPack) AssetCount() int {
	return len(p.Textures) + len(p.Meshes) + len(p.Skeletons) + len(p.Keyframes) +
		len(p.Fonts) + len(p.Sounds) + len(p.Data)
}

func (p *DataPack) FindTexture(id string) *PackedTexture {
	for i := range p.Textures {
		if p.Textures[i].ID == id {
			return &p.Textures[i]
		}
	}
	return nil
}

func (p *DataPack) FindMesh(id string) *PackedMesh {
	for i := range p.Meshes {
		if p.Meshes[i].ID == id {
			return &p.Meshes[i]
		}
	}
	return nil
}

func (p *DataPack) FindSkeleton(id string) *PackedSkeleton {
	for i := range p.Skeletons {
		if p.Skeletons[i].ID == id {
			return &p.Skeletons[i]
		}
	}
	return nil
}

func (p *DataPack) FindKeyframes(id string) *PackedKeyframes {
	for i := range p.Keyframes {
		if p.Keyframes[i].ID == id {
			return &p.Keyframes[i]
		}
	}
	return nil
}

func (p *DataPack) FindFont(id string) *PackedFont {
	for i := range p.Fonts {
		if p.Fonts[i].ID == id {
			return &p.Fonts[i]
		}
	}
	return nil
}

func (p *DataPack) FindSound(id string) *PackedSound {
	for i := range p.Sounds {
		if p.Sounds[i].ID == id {
			return &p.Sounds[i]
		}
	}
	return nil
}

func (p *DataPack) FindData(id string) *PackedData {
	for i := range p.Data {
		if p.Data[i].ID == id {
			return &p.Data[i]
		}
	}
	return nil
}

// EncodeDataPack serializes a DataPack to its flat on-disk representation.
func EncodeDataPack(p *DataPack) ([]byte, error) {
	var w bytes.Buffer

	if err := writeUint32(&w, uint32(len(p.Textures))); err != nil {
		return nil, err
	}
	for i := range p.Textures {
		t := &p.Textures[i]
		if err := writeString(&w, t.ID); err != nil {
			return nil, err
		}
		if err := writeUint16(&w, t.Width); err != nil {
			return nil, err
		}
		if err := writeUint16(&w, t.Height); err != nil {
			return nil, err
		}
		if err := w.WriteByte(byte(t.Format)); err != nil {
			return nil, err
		}
		if err := writeBlob(&w, t.Data); err != nil {
			return nil, err
		}
	}

	if err := writeUint32(&w, uint32(len(p.Meshes))); err != nil {
		return nil, err
	}
	for i := range p.Meshes {
		m := &p.Meshes[i]
		if err := writeString(&w, m.ID); err != nil {
			return nil, err
		}
		if err := w.WriteByte(m.Format); err != nil {
			return nil, err
		}
		if err := writeUint32(&w, m.VertexCount); err != nil {
			return nil, err
		}
		if err := writeUint32(&w, m.IndexCount); err != nil {
			return nil, err
		}
		if err := writeBlob(&w, m.VertexData); err != nil {
			return nil, err
		}
		if err := writeUint32(&w, uint32(len(m.IndexData))); err != nil {
			return nil, err
		}
		for _, idx := range m.IndexData {
			if err := writeUint16(&w, idx); err != nil {
				return nil, err
			}
		}
	}

	if err := writeUint32(&w, uint32(len(p.Skeletons))); err != nil {
		return nil, err
	}
	for i := range p.Skeletons {
		s := &p.Skeletons[i]
		if err := writeString(&w, s.ID); err != nil {
			return nil, err
		}
		if err := writeUint32(&w, s.BoneCount); err != nil {
			return nil, err
		}
		for _, mat := range s.InverseBindMatrices {
			for _, f := range mat {
				if err := writeFloat32(&w, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := writeUint32(&w, uint32(len(p.Keyframes))); err != nil {
		return nil, err
	}
	for i := range p.Keyframes {
		k := &p.Keyframes[i]
		if err := writeString(&w, k.ID); err != nil {
			return nil, err
		}
		if err := w.WriteByte(k.BoneCount); err != nil {
			return nil, err
		}
		if err := writeUint16(&w, k.FrameCount); err != nil {
			return nil, err
		}
		if err := writeBlob(&w, k.Data); err != nil {
			return nil, err
		}
	}

	if err := writeUint32(&w, uint32(len(p.Fonts))); err != nil {
		return nil, err
	}
	for i := range p.Fonts {
		f := &p.Fonts[i]
		if err := writeString(&w, f.ID); err != nil {
			return nil, err
		}
		if err := writeUint16(&w, f.AtlasWidth); err != nil {
			return nil, err
		}
		if err := writeUint16(&w, f.AtlasHeight); err != nil {
			return nil, err
		}
		if err := writeBlob(&w, f.AtlasRGBA8); err != nil {
			return nil, err
		}
		if err := writeUint32(&w, uint32(len(f.Glyphs))); err != nil {
			return nil, err
		}
		for _, g := range f.Glyphs {
			if err := writeUint32(&w, uint32(g.Codepoint)); err != nil {
				return nil, err
			}
			if err := writeUint16(&w, g.X); err != nil {
				return nil, err
			}
			if err := writeUint16(&w, g.Y); err != nil {
				return nil, err
			}
			if err := writeUint16(&w, g.W); err != nil {
				return nil, err
			}
			if err := writeUint16(&w, g.H); err != nil {
				return nil, err
			}
			if err := writeFloat32(&w, g.XAdvance); err != nil {
				return nil, err
			}
		}
		if err := writeFloat32(&w, f.LineHeight); err != nil {
			return nil, err
		}
		if err := writeFloat32(&w, f.Ascent); err != nil {
			return nil, err
		}
		if err := writeFloat32(&w, f.Descent); err != nil {
			return nil, err
		}
	}

	if err := writeUint32(&w, uint32(len(p.Sounds))); err != nil {
		return nil, err
	}
	for i := range p.Sounds {
		s := &p.Sounds[i]
		if err := writeString(&w, s.ID); err != nil {
			return nil, err
		}
		if err := writeUint32(&w, uint32(len(s.Data))); err != nil {
			return nil, err
		}
		for _, sample := range s.Data {
			if err := writeUint16(&w, uint16(sample)); err != nil {
				return nil, err
			}
		}
	}

	if err := writeUint32(&w, uint32(len(p.Data))); err != nil {
		return nil, err
	}
	for i := range p.Data {
		d := &p.Data[i]
		if err := writeString(&w, d.ID); err != nil {
			return nil, err
		}
		if err := writeBlob(&w, d.Data); err != nil {
			return nil, err
		}
	}

	return w.Bytes(), nil
}

// DecodeDataPack parses a DataPack from its flat on-disk representation.
func DecodeDataPack(data []byte) (*DataPack, error) {
	r := bytes.NewReader(data)
	p := &DataPack{}

	numTex, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	p.Textures = make([]PackedTexture, numTex)
	for i := range p.Textures {
		t := &p.Textures[i]
		if t.ID, err = readString(r); err != nil {
			return nil, err
		}
		if t.Width, err = readUint16(r); err != nil {
			return nil, err
		}
		if t.Height, err = readUint16(r); err != nil {
			return nil, err
		}
		fb, err := readByte(r)
		if err != nil {
			return nil, err
		}
		t.Format = TextureFormat(fb)
		if t.Data, err = readBlob(r); err != nil {
			return nil, err
		}
		if !t.Validate() {
			return nil, fmt.Errorf("rom: texture %q: data length %d does not match %dx%d format %d", t.ID, len(t.Data), t.Width, t.Height, t.Format)
		}
	}

	numMesh, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	p.Meshes = make([]PackedMesh, numMesh)
	for i := range p.Meshes {
		m := &p.Meshes[i]
		if m.ID, err = readString(r); err != nil {
			return nil, err
		}
		if m.Format, err = readByte(r); err != nil {
			return nil, err
		}
		if m.VertexCount, err = readUint32(r); err != nil {
			return nil, err
		}
		if m.IndexCount, err = readUint32(r); err != nil {
			return nil, err
		}
		if m.VertexData, err = readBlob(r); err != nil {
			return nil, err
		}
		numIdx, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		m.IndexData = make([]uint16, numIdx)
		for j := range m.IndexData {
			if m.IndexData[j], err = readUint16(r); err != nil {
				return nil, err
			}
		}
	}

	numSkel, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	p.Skeletons = make([]PackedSkeleton, numSkel)
	for i := range p.Skeletons {
		s := &p.Skeletons[i]
		if s.ID, err = readString(r); err != nil {
			return nil, err
		}
		if s.BoneCount, err = readUint32(r); err != nil {
			return nil, err
		}
		s.InverseBindMatrices = make([]BoneMatrix3x4, s.BoneCount)
		for j := range s.InverseBindMatrices {
			for k := 0; k < 12; k++ {
				if s.InverseBindMatrices[j][k], err = readFloat32(r); err != nil {
					return nil, err
				}
			}
		}
	}

	numKF, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	p.Keyframes = make([]PackedKeyframes, numKF)
	for i := range p.Keyframes {
		k := &p.Keyframes[i]
		if k.ID, err = readString(r); err != nil {
			return nil, err
		}
		if k.BoneCount, err = readByte(r); err != nil {
			return nil, err
		}
		if k.FrameCount, err = readUint16(r); err != nil {
			return nil, err
		}
		if k.Data, err = readBlob(r); err != nil {
			return nil, err
		}
		if !k.Validate() {
			return nil, fmt.Errorf("rom: keyframes %q: data length %d does not match bone_count %d * frame_count %d * 16", k.ID, len(k.Data), k.BoneCount, k.FrameCount)
		}
	}

	numFonts, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	p.Fonts = make([]PackedFont, numFonts)
	for i := range p.Fonts {
		f := &p.Fonts[i]
		if f.ID, err = readString(r); err != nil {
			return nil, err
		}
		if f.AtlasWidth, err = readUint16(r); err != nil {
			return nil, err
		}
		if f.AtlasHeight, err = readUint16(r); err != nil {
			return nil, err
		}
		if f.AtlasRGBA8, err = readBlob(r); err != nil {
			return nil, err
		}
		numGlyphs, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		f.Glyphs = make([]Glyph, numGlyphs)
		for j := range f.Glyphs {
			g := &f.Glyphs[j]
			cp, err := readUint32(r)
			if err != nil {
				return nil, err
			}
			g.Codepoint = rune(cp)
			if g.X, err = readUint16(r); err != nil {
				return nil, err
			}
			if g.Y, err = readUint16(r); err != nil {
				return nil, err
			}
			if g.W, err = readUint16(r); err != nil {
				return nil, err
			}
			if g.H, err = readUint16(r); err != nil {
				return nil, err
			}
			if g.XAdvance, err = readFloat32(r); err != nil {
				return nil, err
			}
		}
		if f.LineHeight, err = readFloat32(r); err != nil {
			return nil, err
		}
		if f.Ascent, err = readFloat32(r); err != nil {
			return nil, err
		}
		if f.Descent, err = readFloat32(r); err != nil {
			return nil, err
		}
	}

	numSounds, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	p.Sounds = make([]PackedSound, numSounds)
	for i := range p.Sounds {
		s := &p.Sounds[i]
		if s.ID, err = readString(r); err != nil {
			return nil, err
		}
		numSamples, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		s.Data = make([]int16, numSamples)
		for j := range s.Data {
			v, err := readUint16(r)
			if err != nil {
				return nil, err
			}
			s.Data[j] = int16(v)
		}
	}

	numData, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	p.Data = make([]PackedData, numData)
	for i := range p.Data {
		d := &p.Data[i]
		if d.ID, err = readString(r); err != nil {
			return nil, err
		}
		if d.Data, err = readBlob(r); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func writeFloat32(w *bytes.Buffer, f float32) error {
	return writeUint32(w, float32bits(f))
}

func readFloat32(r io.Reader) (float32, error) {
	bits, err := readUint32(r)
	if err != nil {
		return 0, err
	}
	return float32frombits(bits), nil
}
