package sdlbackend

import (
	"errors"
	"fmt"
	"image"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx"
)

var errReleased = errors.New("sdl: buffer used after release")

// Buffer is CPU memory; RenderGeometry takes vertex arrays by value, so
// nothing is uploaded ahead of Submit.
type Buffer struct {
	data     []byte
	released bool
}

func (b *Buffer) Size() int { return len(b.data) }

func (b *Buffer) Write(offset int, data []byte) error {
	if b.released {
		return errReleased
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		return fmt.Errorf("sdl: write [%d,%d) out of range %d", offset, offset+len(data), len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

func (b *Buffer) Release() {
	b.released = true
	b.data = nil
}

// Device draws with an SDL renderer. Positions are transformed by the draw
// call's projection to clip space and then to output pixels.
type Device struct {
	r             *sdl.Renderer
	width, height int

	verts   []sdl.Vertex
	indices []int32
}

func NewDevice(r *sdl.Renderer) (*Device, error) {
	w, h, err := r.GetOutputSize()
	if err != nil {
		return nil, fmt.Errorf("sdl: output size: %w", err)
	}
	if err := r.SetDrawBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		return nil, fmt.Errorf("sdl: blend mode: %w", err)
	}
	return &Device{r: r, width: int(w), height: int(h)}, nil
}

func (d *Device) NewBuffer(_ gfx.BufferKind, size int) (gfx.Buffer, error) {
	if size < 0 {
		return nil, fmt.Errorf("sdl: buffer of %d bytes refused", size)
	}
	return &Buffer{data: make([]byte, size)}, nil
}

func (d *Device) NewTexture(img *image.RGBA) (any, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("sdl: empty image")
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	// ABGR8888 is R,G,B,A byte order on little-endian hosts, matching image.RGBA.
	t, err := d.r.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STATIC, int32(w), int32(h))
	if err != nil {
		return nil, fmt.Errorf("%w: texture %dx%d: %v", gfx.ErrAllocationFailure, w, h, err)
	}
	if err := t.Update(nil, unsafe.Pointer(&img.Pix[0]), img.Stride); err != nil {
		t.Destroy()
		return nil, fmt.Errorf("sdl: texture upload: %w", err)
	}
	if err := t.SetBlendMode(sdl.BLENDMODE_BLEND); err != nil {
		t.Destroy()
		return nil, fmt.Errorf("sdl: texture blend mode: %w", err)
	}
	return t, nil
}

func (d *Device) DestroyTexture(tex any) {
	if t, ok := tex.(*sdl.Texture); ok && t != nil {
		t.Destroy()
	}
}

func (d *Device) Submit(dc gfx.DrawCall) error {
	vb, ok := dc.Vertices.(*Buffer)
	if !ok || vb.released {
		return errors.New("sdl: submit with invalid vertex buffer")
	}
	ib, ok := dc.Indices.(*Buffer)
	if !ok || ib.released {
		return errors.New("sdl: submit with invalid index buffer")
	}
	if dc.IndexCount*gfx.IndexSize > len(ib.data) {
		return fmt.Errorf("sdl: index count %d exceeds buffer", dc.IndexCount)
	}
	idx := gfx.Indices(ib.data)[:dc.IndexCount]
	used := 0
	for _, i := range idx {
		used = max(used, int(i)+1)
	}

	var tex *sdl.Texture
	d.verts = d.verts[:0]
	switch dc.Pipeline {
	case gfx.PipelineShapes:
		vs := gfx.ShapeVertices(vb.data)
		if used > len(vs) {
			return fmt.Errorf("sdl: index %d beyond vertex buffer", used-1)
		}
		for _, v := range vs[:used] {
			d.verts = append(d.verts, sdl.Vertex{
				Position: d.toPixels(dc.Projection, v.X, v.Y),
				Color:    sdlColor(v.Color),
			})
		}
	case gfx.PipelineSprites:
		t, ok := dc.Texture.(*sdl.Texture)
		if !ok || t == nil {
			return fmt.Errorf("sdl: sprite submission: %w", gfx.ErrInvalidTexture)
		}
		tex = t
		vs := gfx.SpriteVertices(vb.data)
		if used > len(vs) {
			return fmt.Errorf("sdl: index %d beyond vertex buffer", used-1)
		}
		for _, v := range vs[:used] {
			d.verts = append(d.verts, sdl.Vertex{
				Position: d.toPixels(dc.Projection, v.X, v.Y),
				Color:    sdlColor(v.Color),
				TexCoord: sdl.FPoint{X: v.U, Y: v.V},
			})
		}
	}

	d.indices = d.indices[:0]
	for _, i := range idx {
		d.indices = append(d.indices, int32(i))
	}
	if len(d.indices) == 0 {
		return nil
	}
	if err := d.r.RenderGeometry(tex, d.verts, d.indices); err != nil {
		return fmt.Errorf("sdl: render %s: %w", dc.Pipeline, err)
	}
	return nil
}

// toPixels maps a vertex through proj into output pixel space.
func (d *Device) toPixels(proj geom.Mat4, x, y float32) sdl.FPoint {
	c := proj.Apply(geom.V2(x, y))
	return sdl.FPoint{
		X: (c.X + 1) * 0.5 * float32(d.width),
		Y: (1 - c.Y) * 0.5 * float32(d.height),
	}
}

func sdlColor(packed uint32) sdl.Color {
	c := colors.Unpack(packed)
	return sdl.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func (d *Device) Clear(c colors.Color) {
	d.r.SetDrawColor(c.R, c.G, c.B, c.A)
	d.r.Clear()
}

func (d *Device) Viewport() (int, int) { return d.width, d.height }

func (d *Device) SetViewport(w, h int) { d.width, d.height = w, h }

// SetScissor clips drawing to r; nil disables clipping.
func (d *Device) SetScissor(r *image.Rectangle) error {
	if r == nil {
		return d.r.SetClipRect(nil)
	}
	return d.r.SetClipRect(&sdl.Rect{X: int32(r.Min.X), Y: int32(r.Min.Y), W: int32(r.Dx()), H: int32(r.Dy())})
}

// ReadPixels copies the current render target into an image.
func (d *Device) ReadPixels() (*image.RGBA, error) {
	if d.width <= 0 || d.height <= 0 {
		return nil, fmt.Errorf("sdl: nothing to read from a %dx%d viewport", d.width, d.height)
	}
	img := image.NewRGBA(image.Rect(0, 0, d.width, d.height))
	if err := d.r.ReadPixels(nil, sdl.PIXELFORMAT_ABGR8888, unsafe.Pointer(&img.Pix[0]), img.Stride); err != nil {
		return nil, fmt.Errorf("sdl: read pixels: %w", err)
	}
	return img, nil
}
