package gfx

import (
	"errors"
	"image"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/geom"
)

var (
	// ErrAllocationFailure is returned when a batch or GPU buffer cannot grow.
	ErrAllocationFailure = errors.New("gfx: allocation failure")
	// ErrInvalidTexture is returned for draws referencing a texture that was
	// never loaded or has been unloaded.
	ErrInvalidTexture = errors.New("gfx: invalid texture reference")
)

// Pipeline selects the shader/vertex layout a draw call uses.
type Pipeline int

const (
	PipelineShapes Pipeline = iota
	PipelineSprites
)

func (p Pipeline) String() string {
	switch p {
	case PipelineShapes:
		return "shapes"
	case PipelineSprites:
		return "sprites"
	default:
		return "unknown"
	}
}

// Layout returns the vertex layout consumed by p.
func (p Pipeline) Layout() VertexLayout {
	if p == PipelineSprites {
		return SpriteLayout
	}
	return ShapeLayout
}

// BufferKind tells the device how a buffer will be bound.
type BufferKind int

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
)

// Buffer is a GPU-visible buffer of fixed byte size.
type Buffer interface {
	// Size returns the capacity in bytes.
	Size() int
	// Write copies data into the buffer starting at offset.
	Write(offset int, data []byte) error
	// Release frees the buffer; it must not be used afterwards.
	Release()
}

// DrawCall is one submission: a triangle list read from Vertices/Indices.
type DrawCall struct {
	Pipeline   Pipeline
	Vertices   Buffer
	Indices    Buffer
	IndexCount int
	// Texture is the device resource returned by NewTexture; nil for shapes.
	Texture    any
	Projection geom.Mat4
}

// Device is the platform side of the renderer: buffer and texture
// allocation plus submission.
type Device interface {
	NewBuffer(kind BufferKind, size int) (Buffer, error)
	NewTexture(img *image.RGBA) (any, error)
	DestroyTexture(tex any)
	Submit(dc DrawCall) error
	Clear(c colors.Color)
	Viewport() (w, h int)
}

// ViewportSetter is implemented by devices whose drawable size follows the
// window, so a resize can be forwarded to them.
type ViewportSetter interface {
	SetViewport(w, h int)
}
