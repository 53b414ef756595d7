package core

import "github.com/hubastard/grove2d/engine/geom"

// Input tracks key and mouse state from the event stream. The scroll delta
// accumulates until TakeScroll.
type Input struct {
	keys           map[Key]bool
	mouseX, mouseY float64
	scroll         float64
}

func NewInput() *Input { return &Input{keys: map[Key]bool{}} }

func (in *Input) Handle(ev Event) {
	switch e := ev.(type) {
	case EventKey:
		in.keys[e.Key] = e.Down
	case EventMouseMove:
		in.mouseX, in.mouseY = e.X, e.Y
	case EventScroll:
		in.scroll += e.Yoff
	}
}

func (in *Input) IsKeyDown(k Key) bool      { return in.keys[k] }
func (in *Input) Mouse() (float64, float64) { return in.mouseX, in.mouseY }

func (in *Input) MousePosition() geom.Vector2 {
	return geom.V2(float32(in.mouseX), float32(in.mouseY))
}

// TakeScroll returns the vertical scroll since the last call and resets it.
func (in *Input) TakeScroll() float64 {
	s := in.scroll
	in.scroll = 0
	return s
}
