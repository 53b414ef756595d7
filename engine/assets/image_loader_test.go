package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.NRGBA{255, 0, 0, 255})
			}
		}
	}
	return img
}

func TestLoadImagePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, checker()))

	img, format, err := LoadImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
}

func TestLoadImageGarbage(t *testing.T) {
	_, _, err := LoadImage(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestLoadImageFileMissing(t *testing.T) {
	_, err := LoadImageFile(filepath.Join(t.TempDir(), "nope.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, checker()))
	require.NoError(t, f.Close())

	img, err := LoadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}

func TestToRGBA(t *testing.T) {
	rgba := ToRGBA(checker())
	assert.Equal(t, 16, rgba.Stride)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, rgba.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{}, rgba.RGBAAt(1, 0))

	// already packed: returned as is
	assert.Same(t, rgba, ToRGBA(rgba))

	// sub-image gets rebased to the origin
	sub := rgba.SubImage(image.Rect(1, 0, 3, 2)).(*image.RGBA)
	out := ToRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 2, 2), out.Bounds())
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, out.RGBAAt(1, 0))
}
