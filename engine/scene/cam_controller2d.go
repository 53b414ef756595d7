package scene

import "github.com/hubastard/grove2d/engine/geom"

// ControlInput is the per-tick input a Controller2D consumes. The caller maps
// its keys and wheel onto it.
type ControlInput struct {
	Left, Right, Up, Down bool
	RotateCW, RotateCCW   bool
	// Wheel is the scroll delta this tick; positive zooms in.
	Wheel float32
	// Cursor is the screen point zooming is anchored on.
	Cursor geom.Vector2
}

// Controller2D: WASD pan, Q/E rotate, wheel zoom around the cursor.
type Controller2D struct {
	MoveSpeed float32 // screen pixels per second
	RotSpeed  float32 // degrees per second
	ZoomSpeed float32 // zoom factor per wheel notch
	MinZoom   float32
	MaxZoom   float32
	Camera    *Camera2D
}

func NewController2D(cam *Camera2D) *Controller2D {
	return &Controller2D{
		MoveSpeed: 400,
		RotSpeed:  90,
		ZoomSpeed: 1.1,
		MinZoom:   0.05,
		MaxZoom:   50,
		Camera:    cam,
	}
}

func (cc *Controller2D) Update(in ControlInput, dt float32) {
	var dx, dy float32
	if in.Left {
		dx--
	}
	if in.Right {
		dx++
	}
	if in.Up {
		dy--
	}
	if in.Down {
		dy++
	}
	if dx != 0 || dy != 0 {
		cc.Pan(geom.V2(dx, dy).Scale(cc.MoveSpeed * dt))
	}

	if in.RotateCW {
		cc.Camera.Rotation += cc.RotSpeed * dt
	}
	if in.RotateCCW {
		cc.Camera.Rotation -= cc.RotSpeed * dt
	}

	if in.Wheel != 0 {
		f := cc.ZoomSpeed
		if in.Wheel < 0 {
			f = 1 / f
		}
		cc.ZoomAt(in.Cursor, f)
	}
}

// Pan moves the view by a screen-space delta, so panning feels the same at
// any zoom or rotation.
func (cc *Controller2D) Pan(screenDelta geom.Vector2) {
	c := cc.Camera
	from, err := ScreenToWorld(c.Offset, *c)
	if err != nil {
		return
	}
	to, _ := ScreenToWorld(c.Offset.Add(screenDelta), *c)
	c.Target = c.Target.Add(to.Sub(from))
}

// SetZoom clamps z to [MinZoom, MaxZoom].
func (cc *Controller2D) SetZoom(z float32) {
	cc.Camera.Zoom = min(max(z, cc.MinZoom), cc.MaxZoom)
}

// ZoomAt scales the zoom by factor keeping the world point under screen
// point anchor fixed.
func (cc *Controller2D) ZoomAt(anchor geom.Vector2, factor float32) {
	c := cc.Camera
	world, err := ScreenToWorld(anchor, *c)
	if err != nil {
		return
	}
	cc.SetZoom(c.Zoom * factor)
	// re-anchor: make anchor the new offset/target pair
	c.Offset = anchor
	c.Target = world
}
