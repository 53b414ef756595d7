package geometry

import (
	"github.com/chewxy/math32"
	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx"
)

// SpriteQuad builds the four vertices (TL, TR, BR, BL) of a textured quad.
//
// src is in texture pixels; a negative width or height mirrors the region.
// origin is the rotation pivot relative to the destination's top-left
// corner, and dst.X/dst.Y is where that pivot lands.
func SpriteQuad(texW, texH int, src, dst geom.Rectangle, origin geom.Vector2, rotationDeg float32, color uint32) [4]gfx.SpriteVertex {
	var invW, invH float32
	if texW > 0 {
		invW = 1 / float32(texW)
	}
	if texH > 0 {
		invH = 1 / float32(texH)
	}
	u0, v0 := src.X*invW, src.Y*invH
	u1, v1 := (src.X+src.Width)*invW, (src.Y+src.Height)*invH

	// keep the winding: flip the destination, mirror the UVs instead
	if dst.Width < 0 {
		dst.Width = -dst.Width
		u0, u1 = u1, u0
	}
	if dst.Height < 0 {
		dst.Height = -dst.Height
		v0, v1 = v1, v0
	}

	corners := [4]geom.Vector2{
		{X: -origin.X, Y: -origin.Y},
		{X: dst.Width - origin.X, Y: -origin.Y},
		{X: dst.Width - origin.X, Y: dst.Height - origin.Y},
		{X: -origin.X, Y: dst.Height - origin.Y},
	}
	if rotationDeg != 0 {
		a := rotationDeg * geom.Deg2Rad
		c, s := math32.Cos(a), math32.Sin(a)
		for i, p := range corners {
			corners[i] = p.Rotate(c, s)
		}
	}
	uvs := [4][2]float32{{u0, v0}, {u1, v0}, {u1, v1}, {u0, v1}}

	var q [4]gfx.SpriteVertex
	for i, p := range corners {
		q[i] = gfx.SpriteVertex{
			X: p.X + dst.X, Y: p.Y + dst.Y,
			U: uvs[i][0], V: uvs[i][1],
			Color: color,
		}
	}
	return q
}

// AppendQuad appends a sprite quad as two triangles.
func AppendQuad(b *Sprites, q [4]gfx.SpriteVertex) {
	base := b.base()
	b.Vertices = append(b.Vertices, q[:]...)
	b.quad(base)
}
