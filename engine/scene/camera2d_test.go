package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/grove2d/engine/geom"
)

const tol = 1e-4

func assertVec(t *testing.T, want, got geom.Vector2, tol float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
}

var cameras = []Camera2D{
	NewCamera2D(),
	{Offset: geom.V2(400, 300), Target: geom.V2(10, -20), Rotation: 0, Zoom: 2},
	{Offset: geom.V2(400, 300), Target: geom.V2(10, -20), Rotation: 45, Zoom: 0.5},
	{Offset: geom.V2(-50, 12), Target: geom.V2(1000, 1000), Rotation: -130, Zoom: 3.25},
	{Offset: geom.V2(0, 0), Target: geom.V2(0, 0), Rotation: 270, Zoom: -1.5},
	{Offset: geom.V2(640, 360), Target: geom.V2(-7.5, 3), Rotation: 12345, Zoom: 0.25},
}

var points = []geom.Vector2{
	{X: 0, Y: 0}, {X: 1, Y: 1}, {X: -250, Y: 75.5}, {X: 800, Y: 600}, {X: 3.25, Y: -999},
}

// roundTripTol scales the 1e-4 budget with the magnitudes float32 has to
// carry through the transform.
func roundTripTol(p geom.Vector2, cam Camera2D) float64 {
	z := math.Abs(float64(cam.Zoom))
	scale := float64(p.Length()+cam.Target.Length())*max(1, z) + float64(cam.Offset.Length())*max(1, 1/z)
	return tol * max(1, scale/100)
}

func TestCameraIdentity(t *testing.T) {
	cam := NewCamera2D()
	for _, p := range points {
		assert.Equal(t, p, WorldToScreen(p, cam))
		w, err := ScreenToWorld(p, cam)
		require.NoError(t, err)
		assert.Equal(t, p, w)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, cam := range cameras {
		for _, p := range points {
			s := WorldToScreen(p, cam)
			w, err := ScreenToWorld(s, cam)
			require.NoError(t, err)
			assertVec(t, p, w, roundTripTol(p, cam))

			w, err = ScreenToWorld(p, cam)
			require.NoError(t, err)
			assertVec(t, p, WorldToScreen(w, cam), roundTripTol(p, cam))
		}
	}
}

func TestMatrixMatchesPointTransform(t *testing.T) {
	const w, h = 800, 600
	ortho := Orthographic(w, h)
	for _, cam := range cameras {
		m := CameraMatrix(w, h, cam)
		view := ViewMatrix(cam)
		for _, p := range points {
			s := WorldToScreen(p, cam)
			assertVec(t, s, view.Apply(p), 1e-2)
			assertVec(t, ortho.Apply(s), m.Apply(p), 1e-4)
		}
	}
}

func TestCameraCentersTarget(t *testing.T) {
	cam := Camera2D{Offset: geom.V2(400, 300), Target: geom.V2(123, 456), Rotation: 33, Zoom: 4}
	assertVec(t, cam.Offset, WorldToScreen(cam.Target, cam), 1e-4)
	// the target sits in the middle of an 800x600 viewport: clip (0,0)
	assertVec(t, geom.V2(0, 0), CameraMatrix(800, 600, cam).Apply(cam.Target), 1e-4)
}

func TestRotationDirection(t *testing.T) {
	// positive camera rotation turns the world the other way on screen
	cam := Camera2D{Zoom: 1, Rotation: 90}
	assertVec(t, geom.V2(0, -1), WorldToScreen(geom.V2(1, 0), cam), 1e-6)
}

func TestZeroZoomRejected(t *testing.T) {
	cam := Camera2D{Zoom: 0}
	assert.ErrorIs(t, cam.Validate(), ErrZeroZoom)
	_, err := ScreenToWorld(geom.V2(1, 1), cam)
	assert.ErrorIs(t, err, ErrZeroZoom)
}

func TestControllerZoomKeepsAnchor(t *testing.T) {
	cam := Camera2D{Offset: geom.V2(400, 300), Target: geom.V2(0, 0), Rotation: 20, Zoom: 1}
	cc := NewController2D(&cam)

	anchor := geom.V2(100, 50)
	before, err := ScreenToWorld(anchor, cam)
	require.NoError(t, err)
	cc.ZoomAt(anchor, 2)
	after, err := ScreenToWorld(anchor, cam)
	require.NoError(t, err)
	assert.InDelta(t, 2, cam.Zoom, 1e-6)
	assertVec(t, before, after, tol)

	cc.SetZoom(0)
	assert.Equal(t, cc.MinZoom, cam.Zoom)
	cc.SetZoom(1e9)
	assert.Equal(t, cc.MaxZoom, cam.Zoom)
}

func TestControllerPan(t *testing.T) {
	cam := Camera2D{Offset: geom.V2(400, 300), Zoom: 2}
	cc := NewController2D(&cam)
	cc.Update(ControlInput{Right: true}, 0.5)
	// 200 screen pixels at zoom 2 is 100 world units
	assertVec(t, geom.V2(100, 0), cam.Target, tol)

	cc.Update(ControlInput{RotateCW: true}, 1)
	assert.InDelta(t, 90, cam.Rotation, 1e-6)

	cc.Update(ControlInput{Wheel: 1, Cursor: cam.Offset}, 0)
	assert.InDelta(t, 2.2, cam.Zoom, 1e-5)
}
