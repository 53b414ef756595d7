// Package renderer2d turns immediate-mode 2D draw calls into batched GPU
// submissions: one for all shapes and one per texture for sprites.
package renderer2d

import (
	"errors"
	"fmt"
	"image"

	"github.com/chewxy/math32"

	"github.com/hubastard/grove2d/engine/assets"
	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/buffers"
	"github.com/hubastard/grove2d/engine/gfx/geometry"
	"github.com/hubastard/grove2d/engine/logging"
	"github.com/hubastard/grove2d/engine/scene"
)

type textureEntry struct {
	res           any
	width, height int
}

// Context is one rendering context: batches, buffers, textures, the active
// camera and the viewport size. It takes no locks; use one Context per
// rendering thread.
type Context struct {
	dev  gfx.Device
	opts Options

	shapes    *ShapeBatch
	shapeBufs *buffers.Manager
	sprites   *SpriteBatch
	textures  gfx.Registry[textureEntry]

	width, height int

	clearColor   colors.Color
	pendingClear bool

	camera   scene.Camera2D
	inMode2D bool

	stats     Statistics
	lastStats Statistics
	errs      []error
}

func NewContext(dev gfx.Device, opts Options) *Context {
	opts = opts.withDefaults()
	w, h := dev.Viewport()
	return &Context{
		dev:       dev,
		opts:      opts,
		shapes:    NewShapeBatch(opts),
		shapeBufs: buffers.New(dev, gfx.ShapeVertexSize, opts.Buffers),
		sprites: NewSpriteBatch(opts, func() *buffers.Manager {
			return buffers.New(dev, gfx.SpriteVertexSize, opts.Buffers)
		}),
		width:  w,
		height: h,
	}
}

// Device returns the device the context submits to.
func (c *Context) Device() gfx.Device { return c.dev }

// Options returns the effective options, defaults filled in.
func (c *Context) Options() Options { return c.opts }

// BeginDrawing starts a frame.
func (c *Context) BeginDrawing() {
	c.stats = Statistics{}
	c.errs = c.errs[:0]
	c.shapes.Clear()
	c.sprites.Clear()
	c.camera = scene.Camera2D{}
	c.inMode2D = false
}

// EndDrawing submits everything recorded since the last flush. Submission
// errors of the whole frame are joined and returned here; the batches are
// cleared either way.
func (c *Context) EndDrawing() error {
	c.flush()
	if c.inMode2D {
		logging.Logger().Warn("EndDrawing inside BeginMode2D; closing camera mode")
		c.inMode2D = false
	}
	c.lastStats = c.stats
	err := errors.Join(c.errs...)
	c.errs = c.errs[:0]
	return err
}

// ClearBackground records the clear color. The device is cleared right
// before the next submission.
func (c *Context) ClearBackground(col colors.Color) {
	c.clearColor = col
	c.pendingClear = true
}

// Stats returns the counters of the frame in progress.
func (c *Context) Stats() Statistics { return c.stats }

// LastFrameStats returns the counters of the last completed frame.
func (c *Context) LastFrameStats() Statistics { return c.lastStats }

// ScreenSize returns the viewport size in pixels.
func (c *Context) ScreenSize() (int, int) { return c.width, c.height }

// Resize changes the viewport used for projection and forwards it to the
// device when it tracks its own viewport.
func (c *Context) Resize(w, h int) {
	c.width, c.height = w, h
	if vs, ok := c.dev.(gfx.ViewportSetter); ok {
		vs.SetViewport(w, h)
	}
}

// BeginMode2D flushes what was drawn so far and makes cam the active
// camera. Calling it twice without EndMode2D replaces the camera.
func (c *Context) BeginMode2D(cam scene.Camera2D) error {
	if err := cam.Validate(); err != nil {
		return err
	}
	c.flush()
	if c.inMode2D {
		logging.Logger().Debug("camera replaced without EndMode2D", "from", c.camera, "to", cam)
	} else {
		logging.Logger().Debug("camera mode", "camera", cam)
	}
	c.camera = cam
	c.inMode2D = true
	return nil
}

// EndMode2D flushes camera-space geometry and returns to screen space.
func (c *Context) EndMode2D() {
	if !c.inMode2D {
		return
	}
	c.flush()
	c.inMode2D = false
}

// Camera returns the active camera and whether one is active.
func (c *Context) Camera() (scene.Camera2D, bool) { return c.camera, c.inMode2D }

func (c *Context) ScreenToWorld(p geom.Vector2, cam scene.Camera2D) (geom.Vector2, error) {
	return scene.ScreenToWorld(p, cam)
}

func (c *Context) WorldToScreen(p geom.Vector2, cam scene.Camera2D) geom.Vector2 {
	return scene.WorldToScreen(p, cam)
}

func (c *Context) projection() geom.Mat4 {
	if c.inMode2D {
		return scene.CameraMatrix(c.width, c.height, c.camera)
	}
	return scene.Orthographic(c.width, c.height)
}

// Shapes

func (c *Context) DrawRectangle(r geom.Rectangle, col colors.Color) error {
	return c.shapes.AddRectangle(r, col.Packed())
}

func (c *Context) DrawRectangleLines(r geom.Rectangle, col colors.Color) error {
	return c.shapes.AddRectangleLines(r, col.Packed())
}

func (c *Context) DrawRectangleLinesEx(r geom.Rectangle, thickness float32, col colors.Color) error {
	return c.shapes.AddRectangleLinesEx(r, thickness, col.Packed())
}

func (c *Context) DrawCircle(center geom.Vector2, radius float32, col colors.Color) error {
	return c.shapes.AddCircle(center, radius, col.Packed())
}

func (c *Context) DrawCircleLines(center geom.Vector2, radius float32, col colors.Color) error {
	return c.shapes.AddCircleLines(center, radius, col.Packed())
}

func (c *Context) DrawLine(start, end geom.Vector2, thickness float32, col colors.Color) error {
	return c.shapes.AddLine(start, end, thickness, col.Packed())
}

func (c *Context) DrawTriangle(v1, v2, v3 geom.Vector2, col colors.Color) error {
	return c.shapes.AddTriangle(v1, v2, v3, col.Packed())
}

func (c *Context) DrawTriangleLines(v1, v2, v3 geom.Vector2, col colors.Color) error {
	return c.shapes.AddTriangleLines(v1, v2, v3, col.Packed())
}

func (c *Context) DrawPoly(center geom.Vector2, sides int, radius, rotation float32, col colors.Color) error {
	return c.shapes.AddPolygon(center, sides, radius, rotation, col.Packed())
}

func (c *Context) DrawPolyLines(center geom.Vector2, sides int, radius, rotation float32, col colors.Color) error {
	return c.shapes.AddPolygonLines(center, sides, radius, rotation, col.Packed())
}

// Textures

// LoadTexture uploads img and returns its handle.
func (c *Context) LoadTexture(img image.Image) (gfx.Texture, error) {
	rgba := assets.ToRGBA(img)
	res, err := c.dev.NewTexture(rgba)
	if err != nil {
		return gfx.Texture{}, fmt.Errorf("load texture: %w", err)
	}
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	id := c.textures.Insert(textureEntry{res: res, width: w, height: h})
	logging.Logger().Debug("texture loaded", "id", id, "width", w, "height", h)
	return gfx.Texture{ID: id, Width: w, Height: h}, nil
}

// UnloadTexture frees t. Sprites already recorded with t this frame are
// dropped at submission. Unloading twice is a no-op.
func (c *Context) UnloadTexture(t gfx.Texture) {
	e, ok := c.textures.Remove(t.ID)
	if !ok {
		return
	}
	c.dev.DestroyTexture(e.res)
	c.sprites.Forget(t.ID)
}

// IsTextureValid reports whether t is loaded in this context.
func (c *Context) IsTextureValid(t gfx.Texture) bool { return c.textures.Valid(t.ID) }

func (c *Context) DrawTexture(t gfx.Texture, pos geom.Vector2, tint colors.Color) error {
	src := geom.Rect(0, 0, float32(t.Width), float32(t.Height))
	return c.DrawTexturePro(t, src, geom.Rect(pos.X, pos.Y, src.Width, src.Height), geom.Vector2{}, 0, tint)
}

func (c *Context) DrawTextureRec(t gfx.Texture, src geom.Rectangle, pos geom.Vector2, tint colors.Color) error {
	dst := geom.Rect(pos.X, pos.Y, math32.Abs(src.Width), math32.Abs(src.Height))
	return c.DrawTexturePro(t, src, dst, geom.Vector2{}, 0, tint)
}

// DrawTexturePro draws the src region of t into dst, rotated by rotation
// degrees around origin (relative to dst's top-left corner).
func (c *Context) DrawTexturePro(t gfx.Texture, src, dst geom.Rectangle, origin geom.Vector2, rotation float32, tint colors.Color) error {
	e, ok := c.textures.Get(t.ID)
	if !ok {
		return fmt.Errorf("%w: %v", gfx.ErrInvalidTexture, t.ID)
	}
	q := geometry.SpriteQuad(e.width, e.height, src, dst, origin, rotation, tint.Packed())
	return c.sprites.AddSprite(t.ID, q)
}

func (c *Context) DrawSubTexture(sub SubTexture2D, dst geom.Rectangle, tint colors.Color) error {
	return c.DrawTexturePro(sub.Texture, sub.Source, dst, geom.Vector2{}, 0, tint)
}

// Flush submits what was drawn so far. Backends call it before changing
// device state that must not apply to earlier draws (scissor, readback).
func (c *Context) Flush() { c.flush() }

// flush submits pending geometry under the current projection: the shape
// batch first, then one call per sprite sub-batch in order of first use.
func (c *Context) flush() {
	if c.pendingClear {
		c.dev.Clear(c.clearColor)
		c.pendingClear = false
	}
	if c.shapes.IsEmpty() && c.sprites.IsEmpty() {
		return
	}
	proj := c.projection()

	if !c.shapes.IsEmpty() {
		before := c.shapeBufs.Reallocations()
		err := c.shapes.PrepareForRender(c.shapeBufs)
		c.stats.Reallocations += c.shapeBufs.Reallocations() - before
		if err == nil {
			err = c.dev.Submit(gfx.DrawCall{
				Pipeline:   gfx.PipelineShapes,
				Vertices:   c.shapeBufs.Vertices(),
				Indices:    c.shapeBufs.Indices(),
				IndexCount: len(c.shapes.Indices()),
				Projection: proj,
			})
		}
		if err != nil {
			c.errs = append(c.errs, fmt.Errorf("submit shapes: %w", err))
		} else {
			c.stats.DrawCalls++
			c.stats.ShapeVertices += len(c.shapes.Vertices())
			c.stats.ShapeIndices += len(c.shapes.Indices())
		}
	}

	subs := c.sprites.BuildBatches(c.textures.Valid)
	c.stats.SkippedSprites += c.sprites.Skipped()
	for _, s := range subs {
		e, _ := c.textures.Get(s.Texture)
		before := s.Reallocations()
		err := s.PrepareForRender()
		c.stats.Reallocations += s.Reallocations() - before
		if err == nil {
			err = c.dev.Submit(gfx.DrawCall{
				Pipeline:   gfx.PipelineSprites,
				Vertices:   s.buffers.Vertices(),
				Indices:    s.buffers.Indices(),
				IndexCount: s.Geometry.IndexCount(),
				Texture:    e.res,
				Projection: proj,
			})
		}
		if err != nil {
			c.errs = append(c.errs, fmt.Errorf("submit sprites %v: %w", s.Texture, err))
			continue
		}
		c.stats.DrawCalls++
		c.stats.SubBatches++
		c.stats.Sprites += s.Sprites()
	}

	c.shapes.Clear()
	c.sprites.Clear()
}

// Close releases every buffer and texture owned by the context.
func (c *Context) Close() {
	c.shapeBufs.Release()
	c.sprites.Release()
	var ids []gfx.TextureID
	c.textures.Each(func(id gfx.TextureID, _ textureEntry) { ids = append(ids, id) })
	// removing keeps the slot generations, so stale IDs stay invalid
	for _, id := range ids {
		if e, ok := c.textures.Remove(id); ok {
			c.dev.DestroyTexture(e.res)
		}
	}
}
