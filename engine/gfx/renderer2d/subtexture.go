package renderer2d

import (
	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx"
)

// SubTexture2D is a pixel-space region of a texture, typically an atlas cell.
type SubTexture2D struct {
	Texture gfx.Texture
	Source  geom.Rectangle
}

// FromPixels builds a subtexture from pixel coordinates within the texture.
func FromPixels(tex gfx.Texture, x, y, w, h int) SubTexture2D {
	return SubTexture2D{Texture: tex, Source: geom.Rect(float32(x), float32(y), float32(w), float32(h))}
}

// FromGrid builds a subtexture from tile grid coordinates (cx,cy) of cell size (cw,ch).
func FromGrid(tex gfx.Texture, cx, cy, cw, ch int) SubTexture2D {
	return FromPixels(tex, cx*cw, cy*ch, cw, ch)
}

// UV returns the normalized top-left and bottom-right texture coordinates.
func (s SubTexture2D) UV() (u0, v0, u1, v1 float32) {
	if s.Texture.Width <= 0 || s.Texture.Height <= 0 {
		return 0, 0, 0, 0
	}
	iw, ih := 1/float32(s.Texture.Width), 1/float32(s.Texture.Height)
	return s.Source.X * iw, s.Source.Y * ih, (s.Source.X + s.Source.Width) * iw, (s.Source.Y + s.Source.Height) * ih
}
