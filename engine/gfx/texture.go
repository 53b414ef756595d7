package gfx

import "fmt"

// TextureID identifies a loaded texture. Index names a registry slot and
// Generation is bumped every time that slot is reused, so an ID kept after
// UnloadTexture never aliases a newer texture.
type TextureID struct {
	Index      uint32
	Generation uint32
}

// IsZero reports whether id is the zero value. Generations start at 1, so the
// zero ID never refers to a live texture.
func (id TextureID) IsZero() bool { return id.Generation == 0 }

func (id TextureID) String() string { return fmt.Sprintf("tex#%d.%d", id.Index, id.Generation) }

// Texture is what draw calls receive: identity plus the size needed to turn
// pixel source rectangles into UVs.
type Texture struct {
	ID     TextureID
	Width  int
	Height int
}

// Valid reports whether t has a non-zero identity and a usable size.
func (t Texture) Valid() bool { return !t.ID.IsZero() && t.Width > 0 && t.Height > 0 }

type slot[T any] struct {
	value      T
	generation uint32
	live       bool
}

// Registry maps TextureIDs to backend resources of type T.
type Registry[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

// Insert stores v and returns its ID.
func (r *Registry[T]) Insert(v T) TextureID {
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, slot[T]{})
	}
	s := &r.slots[idx]
	s.generation++
	s.value = v
	s.live = true
	r.count++
	return TextureID{Index: idx, Generation: s.generation}
}

// Get returns the value for id; ok is false for stale or unknown IDs.
func (r *Registry[T]) Get(id TextureID) (v T, ok bool) {
	if !r.Valid(id) {
		return v, false
	}
	return r.slots[id.Index].value, true
}

// Valid reports whether id refers to a live entry.
func (r *Registry[T]) Valid(id TextureID) bool {
	if id.IsZero() || int(id.Index) >= len(r.slots) {
		return false
	}
	s := &r.slots[id.Index]
	return s.live && s.generation == id.Generation
}

// Remove deletes id and returns the stored value.
func (r *Registry[T]) Remove(id TextureID) (v T, ok bool) {
	if !r.Valid(id) {
		return v, false
	}
	s := &r.slots[id.Index]
	v = s.value
	var zero T
	s.value = zero
	s.live = false
	r.free = append(r.free, id.Index)
	r.count--
	return v, true
}

// Len returns the number of live entries.
func (r *Registry[T]) Len() int { return r.count }

// Each calls fn for every live entry.
func (r *Registry[T]) Each(fn func(TextureID, T)) {
	for i := range r.slots {
		s := &r.slots[i]
		if s.live {
			fn(TextureID{Index: uint32(i), Generation: s.generation}, s.value)
		}
	}
}
