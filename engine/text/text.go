package text

import (
	"errors"

	"github.com/hubastard/grove2d/engine/colors"
	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx"
)

// SpriteDrawer is satisfied by every core.Backend.
type SpriteDrawer interface {
	DrawTexturePro(t gfx.Texture, src, dst geom.Rectangle, origin geom.Vector2, rotation float32, tint colors.Color) error
}

// DrawText draws s with its top-left corner at pos. size is the line size in
// pixels; the atlas is scaled from its rasterized size. Positive Y goes
// downward. Errors from individual glyphs are joined.
func DrawText(d SpriteDrawer, f *Font, s string, pos geom.Vector2, size float32, tint colors.Color) error {
	scale := size / f.SizePx
	var errs []error
	layout(f, s, func(g Glyph, penX, baseY float32) {
		if g.Source.Width == 0 || g.Source.Height == 0 {
			return
		}
		dst := geom.Rect(
			pos.X+(penX+g.BearingX)*scale,
			pos.Y+(baseY-g.BearingY)*scale,
			g.Source.Width*scale,
			g.Source.Height*scale,
		)
		if err := d.DrawTexturePro(f.Texture, g.Source, dst, geom.Vector2{}, 0, tint); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// MeasureText returns the size of the box DrawText would fill.
func MeasureText(f *Font, s string, size float32) geom.Vector2 {
	scale := size / f.SizePx
	lineH := LineHeight(f)
	var width, lineW float32
	lines := 1
	var prev rune = -1
	for _, r := range s {
		if r == '\n' {
			width = max(width, lineW)
			lineW = 0
			lines++
			prev = -1
			continue
		}
		lineW += kern(f, prev, r) + advance(f, r)
		prev = r
	}
	width = max(width, lineW)
	return geom.V2(width*scale, float32(lines)*lineH*scale)
}

func LineHeight(f *Font) float32 { return f.Ascent - f.Descent + f.LineGap }

// Baseline-to-top distance (useful to position text by top-left).
func BaselineToTop(f *Font) float32    { return f.Ascent }
func BaselineToBottom(f *Font) float32 { return -f.Descent }

// layout walks s and calls fn with each known glyph and its unscaled pen
// position relative to the top-left origin.
func layout(f *Font, s string, fn func(g Glyph, penX, baseY float32)) {
	var penX float32
	baseY := f.Ascent
	var prev rune = -1
	for _, r := range s {
		if r == '\n' {
			penX = 0
			baseY += LineHeight(f)
			prev = -1
			continue
		}
		penX += kern(f, prev, r)
		if g, ok := f.Glyphs[r]; ok {
			fn(g, penX, baseY)
		}
		penX += advance(f, r)
		prev = r
	}
}

// advance falls back to the width of a space for runes outside the atlas.
func advance(f *Font, r rune) float32 {
	if g, ok := f.Glyphs[r]; ok {
		return g.Advance
	}
	return f.Glyphs[' '].Advance
}

func kern(f *Font, prev, r rune) float32 {
	if prev < 0 {
		return 0
	}
	return f.Kerning[prev][r]
}
