package renderer2d

import (
	"fmt"

	"github.com/hubastard/grove2d/engine/gfx"
	"github.com/hubastard/grove2d/engine/gfx/buffers"
	"github.com/hubastard/grove2d/engine/gfx/geometry"
	"github.com/hubastard/grove2d/engine/logging"
)

type spriteCommand struct {
	tex  gfx.TextureID
	quad [4]gfx.SpriteVertex
}

// SubBatch is the geometry of every sprite sharing one texture this frame.
type SubBatch struct {
	Texture  gfx.TextureID
	Geometry geometry.Sprites
	buffers  *buffers.Manager
}

// Sprites returns the number of quads in the sub-batch.
func (s *SubBatch) Sprites() int { return len(s.Geometry.Vertices) / 4 }

// Reallocations reports how often the sub-batch buffers were allocated.
func (s *SubBatch) Reallocations() int {
	if s.buffers == nil {
		return 0
	}
	return s.buffers.Reallocations()
}

// PrepareForRender uploads the sub-batch into its own buffers.
func (s *SubBatch) PrepareForRender() error {
	if s.buffers == nil {
		return fmt.Errorf("renderer2d: sub-batch %v has no buffers", s.Texture)
	}
	if err := s.buffers.EnsureCapacity(len(s.Geometry.Vertices), len(s.Geometry.Indices)); err != nil {
		return err
	}
	return s.buffers.Upload(gfx.Bytes(s.Geometry.Vertices), s.Geometry.Indices)
}

// SpriteBatch records sprite quads cheaply during the frame and groups them
// per texture once, in BuildBatches.
type SpriteBatch struct {
	commands   []spriteCommand
	subs       map[gfx.TextureID]*SubBatch
	built      []*SubBatch
	skipped    int
	maxSprites int
	newBuffers func() *buffers.Manager
}

// NewSpriteBatch creates a sprite batch. newBuffers supplies the buffer
// manager of each new sub-batch; it may be nil when the batch is only built,
// never rendered.
func NewSpriteBatch(opts Options, newBuffers func() *buffers.Manager) *SpriteBatch {
	opts = opts.withDefaults()
	return &SpriteBatch{
		subs:       make(map[gfx.TextureID]*SubBatch),
		maxSprites: opts.MaxVertices / 4,
		newBuffers: newBuffers,
	}
}

// AddSprite records one already-transformed quad. It does not look the
// texture up; validity is checked in BuildBatches.
func (sb *SpriteBatch) AddSprite(tex gfx.TextureID, quad [4]gfx.SpriteVertex) error {
	if tex.IsZero() {
		return fmt.Errorf("%w: %v", gfx.ErrInvalidTexture, tex)
	}
	if len(sb.commands) >= sb.maxSprites {
		return fmt.Errorf("%w: sprite batch is limited to %d sprites", gfx.ErrAllocationFailure, sb.maxSprites)
	}
	sb.commands = append(sb.commands, spriteCommand{tex: tex, quad: quad})
	return nil
}

// BuildBatches partitions the recorded commands into one sub-batch per
// texture. Sub-batches come back in order of first use; inside each one the
// sprites keep their draw order. Commands rejected by valid (when non-nil)
// are dropped.
func (sb *SpriteBatch) BuildBatches(valid func(gfx.TextureID) bool) []*SubBatch {
	for _, s := range sb.built {
		s.Geometry.Reset()
	}
	sb.built = sb.built[:0]
	sb.skipped = 0

	for i := range sb.commands {
		c := &sb.commands[i]
		if valid != nil && !valid(c.tex) {
			sb.skipped++
			continue
		}
		s := sb.subs[c.tex]
		if s == nil {
			s = &SubBatch{Texture: c.tex}
			if sb.newBuffers != nil {
				s.buffers = sb.newBuffers()
			}
			sb.subs[c.tex] = s
		}
		if s.Geometry.IsEmpty() {
			sb.built = append(sb.built, s)
		}
		geometry.AppendQuad(&s.Geometry, c.quad)
	}
	if sb.skipped > 0 {
		logging.Logger().Debug("sprites skipped: texture no longer valid", "count", sb.skipped)
	}
	return sb.built
}

// Len is the number of recorded commands.
func (sb *SpriteBatch) Len() int { return len(sb.commands) }

func (sb *SpriteBatch) IsEmpty() bool { return len(sb.commands) == 0 }

// Skipped reports how many commands the last BuildBatches dropped.
func (sb *SpriteBatch) Skipped() int { return sb.skipped }

// Clear drops the commands and empties sub-batches, keeping capacity and
// GPU buffers.
func (sb *SpriteBatch) Clear() {
	sb.commands = sb.commands[:0]
	for _, s := range sb.built {
		s.Geometry.Reset()
	}
	sb.built = sb.built[:0]
}

// Forget releases the sub-batch of an unloaded texture.
func (sb *SpriteBatch) Forget(tex gfx.TextureID) {
	s, ok := sb.subs[tex]
	if !ok {
		return
	}
	if s.buffers != nil {
		s.buffers.Release()
	}
	delete(sb.subs, tex)
	for i, b := range sb.built {
		if b == s {
			sb.built = append(sb.built[:i], sb.built[i+1:]...)
			break
		}
	}
}

// Release frees every sub-batch buffer.
func (sb *SpriteBatch) Release() {
	for id := range sb.subs {
		sb.Forget(id)
	}
	sb.Clear()
}
