package renderer2d

import "log/slog"

// Statistics captures the counts generated during a renderer frame.
type Statistics struct {
	DrawCalls      int
	ShapeVertices  int
	ShapeIndices   int
	Sprites        int
	SubBatches     int
	SkippedSprites int
	// Reallocations counts GPU buffer (re)allocations made this frame.
	Reallocations int
}

// TotalVertexCount reports vertices submitted this frame.
func (s Statistics) TotalVertexCount() int { return s.ShapeVertices + s.Sprites*4 }

// TotalIndexCount reports indices submitted this frame.
func (s Statistics) TotalIndexCount() int { return s.ShapeIndices + s.Sprites*6 }

func (s Statistics) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("draw_calls", s.DrawCalls),
		slog.Int("vertices", s.TotalVertexCount()),
		slog.Int("indices", s.TotalIndexCount()),
		slog.Int("sprites", s.Sprites),
		slog.Int("sub_batches", s.SubBatches),
		slog.Int("skipped_sprites", s.SkippedSprites),
		slog.Int("reallocations", s.Reallocations),
	)
}
