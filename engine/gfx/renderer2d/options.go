package renderer2d

import (
	"github.com/hubastard/grove2d/engine/gfx/buffers"
	"github.com/hubastard/grove2d/engine/gfx/geometry"
)

// DefaultMaxVertices bounds a single batch. It also keeps every index
// comfortably inside uint32.
const DefaultMaxVertices = 1 << 22

// Options are construction-time tunables of a Context.
type Options struct {
	CircleSegments   int             `yaml:"circle_segments"`
	OutlineThickness float32         `yaml:"outline_thickness"`
	MaxVertices      int             `yaml:"max_vertices"`
	Buffers          buffers.Options `yaml:"buffers"`
}

func DefaultOptions() Options {
	return Options{
		CircleSegments:   geometry.DefaultSegments,
		OutlineThickness: geometry.DefaultOutlineThickness,
		MaxVertices:      DefaultMaxVertices,
		Buffers:          buffers.DefaultOptions(),
	}
}

// withDefaults fills zero fields, so a partially written config still works.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.CircleSegments < 3 {
		o.CircleSegments = d.CircleSegments
	}
	if o.OutlineThickness <= 0 {
		o.OutlineThickness = d.OutlineThickness
	}
	if o.MaxVertices <= 0 {
		o.MaxVertices = d.MaxVertices
	}
	if o.Buffers == (buffers.Options{}) {
		o.Buffers = d.Buffers
	}
	return o
}
