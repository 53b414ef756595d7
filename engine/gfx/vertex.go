package gfx

import "unsafe"

// ShapeVertex is the vertex layout of untextured geometry: position plus a
// packed ABGR color.
type ShapeVertex struct {
	X, Y  float32
	Color uint32
}

// SpriteVertex is the vertex layout of textured quads.
type SpriteVertex struct {
	X, Y  float32
	U, V  float32
	Color uint32
}

const (
	ShapeVertexSize  = int(unsafe.Sizeof(ShapeVertex{}))  // 12
	SpriteVertexSize = int(unsafe.Sizeof(SpriteVertex{})) // 20
	IndexSize        = 4
)

// AttribType is the component type of a vertex attribute.
type AttribType int

const (
	AttribFloat32 AttribType = iota
	AttribUint8Norm
)

type VertexAttrib struct {
	Location int
	Size     int
	Type     AttribType
	Offset   int
}

// VertexLayout describes one interleaved vertex stream.
type VertexLayout struct {
	Stride     int
	Attributes []VertexAttrib
}

var ShapeLayout = VertexLayout{
	Stride: ShapeVertexSize,
	Attributes: []VertexAttrib{
		{Location: 0, Size: 2, Type: AttribFloat32, Offset: 0},       // pos
		{Location: 1, Size: 4, Type: AttribUint8Norm, Offset: 2 * 4}, // color
	},
}

var SpriteLayout = VertexLayout{
	Stride: SpriteVertexSize,
	Attributes: []VertexAttrib{
		{Location: 0, Size: 2, Type: AttribFloat32, Offset: 0},       // pos
		{Location: 1, Size: 4, Type: AttribUint8Norm, Offset: 4 * 4}, // color
		{Location: 2, Size: 2, Type: AttribFloat32, Offset: 2 * 4},   // uv
	},
}

// Bytes reinterprets a vertex or index slice as raw bytes without copying.
// The result aliases s and is valid until s is modified or grown.
func Bytes[V any](s []V) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero V
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}

// ShapeVertices reinterprets raw bytes written from a []ShapeVertex.
func ShapeVertices(b []byte) []ShapeVertex {
	n := len(b) / ShapeVertexSize
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*ShapeVertex)(unsafe.Pointer(&b[0])), n)
}

// SpriteVertices reinterprets raw bytes written from a []SpriteVertex.
func SpriteVertices(b []byte) []SpriteVertex {
	n := len(b) / SpriteVertexSize
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*SpriteVertex)(unsafe.Pointer(&b[0])), n)
}

// Indices reinterprets raw bytes written from a []uint32.
func Indices(b []byte) []uint32 {
	n := len(b) / IndexSize
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), n)
}
