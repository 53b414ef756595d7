package colors

// Color is an 8-bit per channel RGBA color.
type Color struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
	A uint8 `yaml:"a"`
}

var (
	White     = Color{255, 255, 255, 255}
	Black     = Color{0, 0, 0, 255}
	Blank     = Color{0, 0, 0, 0}
	Red       = Color{230, 41, 55, 255}
	Green     = Color{0, 228, 48, 255}
	Blue      = Color{0, 121, 241, 255}
	Yellow    = Color{253, 249, 0, 255}
	Magenta   = Color{255, 0, 255, 255}
	Cyan      = Color{0, 255, 255, 255}
	Gray      = Color{130, 130, 130, 255}
	LightGray = Color{200, 200, 200, 255}
	DarkGray  = Color{20, 26, 31, 255}
)

// RGBA builds a color from its channels.
func RGBA(r, g, b, a uint8) Color { return Color{r, g, b, a} }

// Packed returns the color as a little-endian ABGR word: in memory the
// bytes read R, G, B, A, which is what an unsigned-normalized vec4
// vertex attribute expects.
func (c Color) Packed() uint32 {
	return uint32(c.A)<<24 | uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)
}

// Unpack is the inverse of Packed.
func Unpack(p uint32) Color {
	return Color{R: uint8(p), G: uint8(p >> 8), B: uint8(p >> 16), A: uint8(p >> 24)}
}

// Normalized returns the channels scaled to [0,1], for clear-color APIs.
func (c Color) Normalized() [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Fade scales alpha by f, clamped to [0,1].
func (c Color) Fade(f float32) Color {
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	c.A = uint8(float32(c.A)*f + 0.5)
	return c
}
