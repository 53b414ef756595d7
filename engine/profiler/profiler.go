// Package profiler records nested timing scopes into a ring buffer and
// exports them as a speedscope evented profile.
package profiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"
)

var ErrNoEvents = errors.New("profiler: no events to dump")

type event struct {
	at    int64 // ns
	frame int
	open  bool
}

// Recorder keeps the last Capacity scope events. A nil *Recorder is valid
// and records nothing. It is not safe for concurrent use.
type Recorder struct {
	events []event
	write  uint64

	frames []string
	index  map[string]int

	now func() int64
}

// New returns a recorder keeping up to capacity open/close events.
func New(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 1 << 16
	}
	return &Recorder{
		events: make([]event, capacity),
		index:  map[string]int{},
		now:    func() int64 { return time.Now().UnixNano() },
	}
}

// Start begins a scope and returns the func that ends it.
func (r *Recorder) Start(name string) func() {
	if r == nil {
		return func() {}
	}
	fid := r.intern(name)
	start := r.now()
	r.push(event{at: start, frame: fid, open: true})
	return func() {
		// end >= start even on a coarse clock
		r.push(event{at: max(r.now(), start), frame: fid})
	}
}

// Len returns the number of events currently held.
func (r *Recorder) Len() int {
	if r == nil {
		return 0
	}
	return int(min(r.write, uint64(len(r.events))))
}

func (r *Recorder) push(e event) {
	r.events[r.write%uint64(len(r.events))] = e
	r.write++
}

// snapshot returns the held events in write order.
func (r *Recorder) snapshot() []event {
	n := r.write
	c := uint64(len(r.events))
	start := uint64(0)
	if n > c {
		start = n - c
	}
	out := make([]event, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.events[k%c])
	}
	return out
}

func (r *Recorder) intern(name string) int {
	if id, ok := r.index[name]; ok {
		return id
	}
	id := len(r.frames)
	r.index[name] = id
	r.frames = append(r.frames, name)
	return id
}

// -------- speedscope --------

type ssFile struct {
	Schema             string      `json:"$schema"`
	Shared             ssShared    `json:"shared"`
	Profiles           []ssProfile `json:"profiles"`
	ActiveProfileIndex int         `json:"activeProfileIndex"`
	Exporter           string      `json:"exporter,omitempty"`
	Name               string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"` // "evented"
	Name       string    `json:"name"`
	Unit       string    `json:"unit"` // "microseconds"
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"`  // "O" or "C"
	At    int64  `json:"at"`    // µs since first event
	Frame int    `json:"frame"` // index into shared frames
}

// WriteSpeedscope encodes the held events. Closes whose open fell out of
// the ring are dropped, and scopes still open are closed at the last
// timestamp, so the profile is always balanced.
func (r *Recorder) WriteSpeedscope(w io.Writer, name string) error {
	if r.Len() == 0 {
		return ErrNoEvents
	}
	evs := r.snapshot()

	base := evs[0].at
	out := make([]ssEvent, 0, len(evs)+16)
	stack := make([]int, 0, 64)
	lastUS, endUS := int64(0), int64(0)

	for _, e := range evs {
		atUS := max((e.at-base)/1000, lastUS)
		if e.open {
			out = append(out, ssEvent{Type: "O", At: atUS, Frame: e.frame})
			stack = append(stack, e.frame)
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.frame {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: atUS, Frame: e.frame})
		}
		lastUS = atUS
		endUS = max(endUS, atUS)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: lastUS, Frame: stack[i]})
	}
	if len(out) == 0 {
		return ErrNoEvents
	}

	fs := make([]ssFrame, len(r.frames))
	for i, n := range r.frames {
		fs[i] = ssFrame{Name: n}
	}
	doc := ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: fs},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     name,
			Unit:     "microseconds",
			EndValue: endUS,
			Events:   out,
		}},
		Exporter: "grove2d-profiler",
		Name:     name,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

// DumpFile writes the profile to path through a temporary file.
func (r *Recorder) DumpFile(path, name string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("profiler: %w", err)
	}
	if err := r.WriteSpeedscope(f, name); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("profiler: %w", err)
	}
	return os.Rename(tmp, path)
}

// RuntimeStats is a snapshot of the Go runtime for debug overlays.
type RuntimeStats struct {
	HeapAlloc  uint64
	Mallocs    uint64
	Goroutines int
	CPUs       int
}

func ReadRuntime() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeStats{
		HeapAlloc:  m.HeapAlloc,
		Mallocs:    m.Mallocs,
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
	}
}
