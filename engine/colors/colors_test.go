package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackedByteOrder(t *testing.T) {
	c := RGBA(0x11, 0x22, 0x33, 0x44)
	assert.Equal(t, uint32(0x44332211), c.Packed())
	assert.Equal(t, uint32(0xFFFFFFFF), White.Packed())
	assert.Equal(t, c, Unpack(c.Packed()))
}

func TestNormalized(t *testing.T) {
	assert.Equal(t, [4]float32{1, 1, 1, 1}, White.Normalized())
	assert.Equal(t, [4]float32{0, 0, 0, 0}, Blank.Normalized())
	n := RGBA(51, 102, 0, 255).Normalized()
	assert.InDelta(t, 0.2, n[0], 1e-6)
	assert.InDelta(t, 0.4, n[1], 1e-6)
}

func TestFade(t *testing.T) {
	assert.Equal(t, uint8(128), White.Fade(0.5).A)
	assert.Equal(t, uint8(255), White.Fade(3).A)
	assert.Equal(t, uint8(0), White.Fade(-1).A)
	assert.Equal(t, uint8(10), Red.WithAlpha(10).A)
}
