// Package headless is an in-memory gfx.Device. It renders nothing and
// records every submission, which makes it the device of choice for tests
// and for running the renderer without a window.
package headless

import (
	"errors"
	"fmt"
	"image"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/gfx"
)

var errReleased = errors.New("headless: buffer used after release")

// Buffer is a byte slice standing in for GPU memory.
type Buffer struct {
	Kind     gfx.BufferKind
	data     []byte
	released bool
	dev      *Device
}

func (b *Buffer) Size() int { return len(b.data) }

func (b *Buffer) Write(offset int, data []byte) error {
	if b.released {
		return errReleased
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		return fmt.Errorf("headless: write [%d,%d) out of range %d", offset, offset+len(data), len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.data = nil
	b.dev.liveBuffers--
}

// Texture is the device resource handed back by NewTexture.
type Texture struct {
	Image     *image.RGBA
	destroyed bool
}

// Submission is a copy of one draw call's geometry taken at Submit time.
type Submission struct {
	Pipeline       gfx.Pipeline
	Texture        *Texture
	ShapeVertices  []gfx.ShapeVertex
	SpriteVertices []gfx.SpriteVertex
	Indices        []uint32
	Projection     [16]float32
}

// Device records clears and submissions.
type Device struct {
	Width, Height int

	// MaxBufferSize makes NewBuffer fail above this many bytes when > 0.
	MaxBufferSize int

	Submissions []Submission
	Clears      []colors.Color

	liveBuffers  int
	liveTextures int
}

func NewDevice(w, h int) *Device { return &Device{Width: w, Height: h} }

func (d *Device) NewBuffer(kind gfx.BufferKind, size int) (gfx.Buffer, error) {
	if size < 0 || (d.MaxBufferSize > 0 && size > d.MaxBufferSize) {
		return nil, fmt.Errorf("headless: buffer of %d bytes refused", size)
	}
	d.liveBuffers++
	return &Buffer{Kind: kind, data: make([]byte, size), dev: d}, nil
}

func (d *Device) NewTexture(img *image.RGBA) (any, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("headless: empty image")
	}
	d.liveTextures++
	return &Texture{Image: img}, nil
}

func (d *Device) DestroyTexture(tex any) {
	if t, ok := tex.(*Texture); ok && !t.destroyed {
		t.destroyed = true
		d.liveTextures--
	}
}

func (d *Device) Submit(dc gfx.DrawCall) error {
	vb, ok := dc.Vertices.(*Buffer)
	if !ok || vb.released {
		return errors.New("headless: submit with invalid vertex buffer")
	}
	ib, ok := dc.Indices.(*Buffer)
	if !ok || ib.released {
		return errors.New("headless: submit with invalid index buffer")
	}
	if dc.IndexCount%3 != 0 || dc.IndexCount*gfx.IndexSize > ib.Size() {
		return fmt.Errorf("headless: bad index count %d", dc.IndexCount)
	}

	s := Submission{
		Pipeline:   dc.Pipeline,
		Indices:    append([]uint32(nil), gfx.Indices(ib.data)[:dc.IndexCount]...),
		Projection: [16]float32(dc.Projection),
	}
	maxIndex := uint32(0)
	for _, i := range s.Indices {
		maxIndex = max(maxIndex, i+1)
	}
	switch dc.Pipeline {
	case gfx.PipelineShapes:
		vs := gfx.ShapeVertices(vb.data)
		if int(maxIndex) > len(vs) {
			return fmt.Errorf("headless: index %d beyond vertex buffer", maxIndex-1)
		}
		s.ShapeVertices = append([]gfx.ShapeVertex(nil), vs[:maxIndex]...)
	case gfx.PipelineSprites:
		t, ok := dc.Texture.(*Texture)
		if !ok || t.destroyed {
			return errors.New("headless: sprite submission without a live texture")
		}
		vs := gfx.SpriteVertices(vb.data)
		if int(maxIndex) > len(vs) {
			return fmt.Errorf("headless: index %d beyond vertex buffer", maxIndex-1)
		}
		s.Texture = t
		s.SpriteVertices = append([]gfx.SpriteVertex(nil), vs[:maxIndex]...)
	}
	d.Submissions = append(d.Submissions, s)
	return nil
}

func (d *Device) Clear(c colors.Color) { d.Clears = append(d.Clears, c) }

func (d *Device) Viewport() (int, int) { return d.Width, d.Height }

// Reset forgets recorded submissions and clears.
func (d *Device) Reset() {
	d.Submissions = d.Submissions[:0]
	d.Clears = d.Clears[:0]
}

// LiveBuffers and LiveTextures report unreleased resources.
func (d *Device) LiveBuffers() int  { return d.liveBuffers }
func (d *Device) LiveTextures() int { return d.liveTextures }

func (d *Device) SetViewport(w, h int) { d.Width, d.Height = w, h }
