// Package glbackend implements gfx.Device on OpenGL 3.3 core and wraps it,
// together with a GLFW window, into a core.Backend.
package glbackend

import (
	"errors"
	"fmt"
	"image"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/logging"
)

var errReleased = errors.New("gl: buffer used after release")

// Buffer is a GL buffer object. Writes go through the copy-write target so
// they never disturb the VAO's bindings.
type Buffer struct {
	id       uint32
	kind     gfx.BufferKind
	size     int
	released bool
}

func (b *Buffer) Size() int { return b.size }

func (b *Buffer) Write(offset int, data []byte) error {
	if b.released {
		return errReleased
	}
	if offset < 0 || offset+len(data) > b.size {
		return fmt.Errorf("gl: write [%d,%d) out of range %d", offset, offset+len(data), b.size)
	}
	if len(data) == 0 {
		return nil
	}
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
	gl.BufferSubData(gl.COPY_WRITE_BUFFER, offset, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	return glError("buffer write")
}

func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	gl.DeleteBuffers(1, &b.id)
}

// Texture is a 2D RGBA8 texture object.
type Texture struct {
	id            uint32
	width, height int
}

// Device owns the two pipelines and the VAO every draw call goes through.
// All methods must run on the thread that owns the GL context.
type Device struct {
	programs [2]program
	vao      uint32

	width, height int
	scissor       bool
}

// NewDevice compiles the pipelines and sets the fixed render state: alpha
// blending on, depth test and culling off.
func NewDevice(w, h int) (*Device, error) {
	d := &Device{width: w, height: h}
	for _, p := range []gfx.Pipeline{gfx.PipelineShapes, gfx.PipelineSprites} {
		prog, err := newProgram(p)
		if err != nil {
			d.Release()
			return nil, err
		}
		d.programs[p] = prog
	}
	gl.GenVertexArrays(1, &d.vao)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Viewport(0, 0, int32(w), int32(h))

	logging.Logger().Info("gl device ready",
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
		"viewport", fmt.Sprintf("%dx%d", w, h))
	return d, glError("init")
}

func (d *Device) NewBuffer(kind gfx.BufferKind, size int) (gfx.Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("gl: buffer of %d bytes refused", size)
	}
	b := &Buffer{kind: kind, size: size}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, b.id)
	gl.BufferData(gl.COPY_WRITE_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)
	if err := glError("buffer alloc"); err != nil {
		gl.DeleteBuffers(1, &b.id)
		return nil, fmt.Errorf("%w: %d bytes: %v", gfx.ErrAllocationFailure, size, err)
	}
	return b, nil
}

func (d *Device) NewTexture(img *image.RGBA) (any, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("gl: empty image")
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	t := &Texture{width: w, height: h}

	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if err := glError("texture upload"); err != nil {
		gl.DeleteTextures(1, &t.id)
		return nil, fmt.Errorf("%w: texture %dx%d: %v", gfx.ErrAllocationFailure, w, h, err)
	}
	return t, nil
}

func (d *Device) DestroyTexture(tex any) {
	if t, ok := tex.(*Texture); ok && t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

func (d *Device) Submit(dc gfx.DrawCall) error {
	vb, ok := dc.Vertices.(*Buffer)
	if !ok || vb.released {
		return errors.New("gl: submit with invalid vertex buffer")
	}
	ib, ok := dc.Indices.(*Buffer)
	if !ok || ib.released {
		return errors.New("gl: submit with invalid index buffer")
	}
	if dc.IndexCount == 0 {
		return nil
	}
	if dc.IndexCount*gfx.IndexSize > ib.size {
		return fmt.Errorf("gl: index count %d exceeds buffer", dc.IndexCount)
	}
	prog := d.programs[dc.Pipeline]

	gl.UseProgram(prog.id)
	gl.UniformMatrix4fv(prog.uVP, 1, false, &dc.Projection[0])

	if dc.Pipeline == gfx.PipelineSprites {
		t, ok := dc.Texture.(*Texture)
		if !ok || t.id == 0 {
			return fmt.Errorf("gl: sprite submission: %w", gfx.ErrInvalidTexture)
		}
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, t.id)
		gl.Uniform1i(prog.uTex, 0)
	}

	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vb.id)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ib.id)
	bindLayout(prog.layout)

	gl.DrawElements(gl.TRIANGLES, int32(dc.IndexCount), gl.UNSIGNED_INT, nil)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
	return glError("draw " + dc.Pipeline.String())
}

// bindLayout points the VAO's attributes at the bound array buffer. The
// sprite layout uses one more location than the shape layout, so every
// known location is disabled first.
func bindLayout(l gfx.VertexLayout) {
	for loc := uint32(0); loc < 3; loc++ {
		gl.DisableVertexAttribArray(loc)
	}
	for _, a := range l.Attributes {
		loc := uint32(a.Location)
		gl.EnableVertexAttribArray(loc)
		switch a.Type {
		case gfx.AttribUint8Norm:
			gl.VertexAttribPointer(loc, int32(a.Size), gl.UNSIGNED_BYTE, true, int32(l.Stride), gl.PtrOffset(a.Offset))
		default:
			gl.VertexAttribPointer(loc, int32(a.Size), gl.FLOAT, false, int32(l.Stride), gl.PtrOffset(a.Offset))
		}
	}
}

func (d *Device) Clear(c colors.Color) {
	n := c.Normalized()
	gl.ClearColor(n[0], n[1], n[2], n[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (d *Device) Viewport() (int, int) { return d.width, d.height }

func (d *Device) SetViewport(w, h int) {
	d.width, d.height = w, h
	gl.Viewport(0, 0, int32(w), int32(h))
}

// SetScissor limits drawing to r, given in top-left origin pixels. A nil
// rectangle disables the test.
func (d *Device) SetScissor(r *image.Rectangle) {
	if r == nil {
		if d.scissor {
			gl.Disable(gl.SCISSOR_TEST)
			d.scissor = false
		}
		return
	}
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(r.Min.X), int32(d.height-r.Max.Y), int32(r.Dx()), int32(r.Dy()))
	d.scissor = true
}

// ReadPixels copies the framebuffer into a top-left origin image.
func (d *Device) ReadPixels() (*image.RGBA, error) {
	w, h := d.width, d.height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("gl: nothing to read from a %dx%d viewport", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	if err := glError("read pixels"); err != nil {
		return nil, err
	}
	flipRows(img)
	return img, nil
}

// flipRows turns GL's bottom-up rows into image order.
func flipRows(img *image.RGBA) {
	stride, h := img.Stride, img.Bounds().Dy()
	tmp := make([]byte, stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*stride : (y+1)*stride]
		bottom := img.Pix[(h-1-y)*stride : (h-y)*stride]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// Release deletes the pipelines and the VAO.
func (d *Device) Release() {
	for i := range d.programs {
		if d.programs[i].id != 0 {
			gl.DeleteProgram(d.programs[i].id)
			d.programs[i].id = 0
		}
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func glError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("gl: %s: error 0x%04x", op, code)
	}
	return nil
}
