// Package text rasterizes a font into a glyph atlas and draws strings as
// sprites of that atlas.
package text

import (
	"fmt"
	"image"
	"os"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hubastard/grove2d/engine/geom"
	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/logging"
)

const (
	glyphPadding = 2
	minAtlasSize = 256
	maxAtlasSize = 4096
)

type Glyph struct {
	Rune     rune
	Advance  float32 // pixels
	BearingX float32 // left bearing in pixels
	BearingY float32 // distance from baseline to glyph top
	// Source is the glyph's rectangle in the atlas, in pixels. Empty for
	// glyphs without ink such as space.
	Source geom.Rectangle
}

// Font is a rasterized face at one pixel size.
type Font struct {
	SizePx                   float32
	Ascent, Descent, LineGap float32
	Glyphs                   map[rune]Glyph
	Kerning                  map[rune]map[rune]float32

	// Atlas holds white glyphs with alpha coverage.
	Atlas   *image.RGBA
	Texture gfx.Texture
}

// TextureLoader is the part of a backend the atlas upload needs.
type TextureLoader interface {
	LoadTexture(img image.Image) (gfx.Texture, error)
	UnloadTexture(t gfx.Texture)
}

// Load rasterizes ttf at sizePx and uploads the atlas.
func Load(l TextureLoader, ttf []byte, sizePx float32) (*Font, error) {
	f, err := NewAtlas(ttf, sizePx)
	if err != nil {
		return nil, err
	}
	f.Texture, err = l.LoadTexture(f.Atlas)
	if err != nil {
		return nil, fmt.Errorf("upload font atlas: %w", err)
	}
	return f, nil
}

// LoadDefault loads Go Regular.
func LoadDefault(l TextureLoader, sizePx float32) (*Font, error) {
	return Load(l, goregular.TTF, sizePx)
}

func LoadFile(l TextureLoader, path string, sizePx float32) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return Load(l, data, sizePx)
}

// Unload releases the atlas texture.
func (f *Font) Unload(l TextureLoader) {
	if f.Texture.Valid() {
		l.UnloadTexture(f.Texture)
		f.Texture = gfx.Texture{}
	}
}

type measured struct {
	r      rune
	w, h   int
	adv    float32
	bx, by int
}

// NewAtlas rasterizes the printable runes of Latin-1 into a shelf-packed
// atlas without touching the GPU.
func NewAtlas(ttf []byte, sizePx float32) (*Font, error) {
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	// Metrics in pixels
	m := face.Metrics()
	ascent := float32(m.Ascent.Round())
	descent := float32(-m.Descent.Round())
	lineGap := float32(m.Height.Round()) - ascent + descent

	var glyphs []measured
	for r := rune(32); r <= 255; r++ {
		if !unicode.IsPrint(r) {
			continue
		}
		b, adv, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}
		minX, minY := b.Min.X.Floor(), b.Min.Y.Floor()
		glyphs = append(glyphs, measured{
			r:   r,
			w:   b.Max.X.Ceil() - minX,
			h:   b.Max.Y.Ceil() - minY,
			adv: float32(adv.Round()),
			bx:  minX,
			by:  -minY,
		})
	}

	size, pos, err := pack(glyphs)
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	drawer := &font.Drawer{Dst: dst, Src: image.White, Face: face}

	out := make(map[rune]Glyph, len(glyphs))
	for _, g := range glyphs {
		glyph := Glyph{Rune: g.r, Advance: g.adv, BearingX: float32(g.bx), BearingY: float32(g.by)}
		if p, ok := pos[g.r]; ok {
			// The dot sits on the baseline, shifted so the ink starts at p.
			drawer.Dot = fixed.P(p.X-g.bx, p.Y+g.by)
			drawer.DrawString(string(g.r))
			glyph.Source = geom.Rect(float32(p.X), float32(p.Y), float32(g.w), float32(g.h))
		}
		out[g.r] = glyph
	}

	kerning := make(map[rune]map[rune]float32)
	for _, a := range glyphs {
		for _, b := range glyphs {
			if dx := face.Kern(a.r, b.r); dx != 0 {
				if kerning[a.r] == nil {
					kerning[a.r] = make(map[rune]float32)
				}
				kerning[a.r][b.r] = float32(dx) / 64
			}
		}
	}

	logging.Logger().Debug("font atlas built", "size_px", sizePx, "glyphs", len(out), "atlas", size)
	return &Font{
		SizePx: sizePx,
		Ascent: ascent, Descent: descent, LineGap: lineGap,
		Glyphs:  out,
		Kerning: kerning,
		Atlas:   dst,
	}, nil
}

// pack places glyphs on shelves, doubling a square atlas until they fit.
func pack(glyphs []measured) (int, map[rune]image.Point, error) {
	for size := minAtlasSize; size <= maxAtlasSize; size *= 2 {
		if pos, ok := packInto(glyphs, size); ok {
			return size, pos, nil
		}
	}
	return 0, nil, fmt.Errorf("font atlas too large (>%d)", maxAtlasSize)
}

func packInto(glyphs []measured, size int) (map[rune]image.Point, bool) {
	x, y, rowH := glyphPadding, glyphPadding, 0
	pos := make(map[rune]image.Point, len(glyphs))
	for _, g := range glyphs {
		if g.w <= 0 || g.h <= 0 {
			continue
		}
		if g.w+glyphPadding*2 > size {
			return nil, false
		}
		if x+g.w+glyphPadding > size {
			x = glyphPadding
			y += rowH + glyphPadding
			rowH = 0
		}
		if y+g.h+glyphPadding > size {
			return nil, false
		}
		pos[g.r] = image.Pt(x, y)
		x += g.w + glyphPadding
		rowH = max(rowH, g.h)
	}
	return pos, true
}
