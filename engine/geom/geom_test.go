package geom

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertVec(t *testing.T, want, got Vector2, tol float32) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, float64(tol))
	assert.InDelta(t, want.Y, got.Y, float64(tol))
}

func TestMatrixOrder(t *testing.T) {
	// (1,0) -> scale 2 -> (2,0) -> rotate 90 -> (0,2) -> translate (1,1) -> (1,3)
	m := MulAll(Translate(1, 1), RotateZ(90*Deg2Rad), Scale(2, 2))
	assertVec(t, V2(1, 3), m.Apply(V2(1, 0)), 1e-5)
}

func TestIdentityApply(t *testing.T) {
	p := V2(12.5, -3)
	assert.Equal(t, p, Identity().Apply(p))
	assert.Equal(t, Translate(3, 4), Mul(Identity(), Translate(3, 4)))
	assert.Equal(t, Translate(3, 4), Mul(Translate(3, 4), Identity()))
}

func TestOrthoTopLeft(t *testing.T) {
	m := Ortho(0, 800, 600, 0, -1, 1)
	assertVec(t, V2(-1, 1), m.Apply(V2(0, 0)), 1e-6)
	assertVec(t, V2(1, -1), m.Apply(V2(800, 600)), 1e-6)
	assertVec(t, V2(0, 0), m.Apply(V2(400, 300)), 1e-6)
}

func TestRectangleNormalize(t *testing.T) {
	assert.Equal(t, Rect(10, 20, 5, 5), Rect(15, 25, -5, -5).Normalize())
	assert.Equal(t, Rect(1, 2, 3, 4), Rect(1, 2, 3, 4).Normalize())
	assert.True(t, Rect(15, 25, -5, -5).Contains(V2(12, 22)))
	assert.False(t, Rect(0, 0, 1, 1).Contains(V2(1, 0.5)))
}

func TestSignedArea(t *testing.T) {
	// clockwise on a y-down screen
	assert.Greater(t, SignedArea2(V2(0, 0), V2(10, 0), V2(10, 10)), float32(0))
	assert.Less(t, SignedArea2(V2(0, 0), V2(10, 10), V2(10, 0)), float32(0))
}

func TestImageRect(t *testing.T) {
	assert.Equal(t, image.Rect(10, 20, 40, 60), Rect(10, 20, 30, 40).ImageRect())
	assert.Equal(t, image.Rect(0, 0, 11, 6), Rect(10.5, 5.2, -10.5, -4.9).ImageRect())
}
