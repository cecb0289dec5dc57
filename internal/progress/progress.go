package progress

import (
	"fmt"
	"strings"
	"sync"

	"github.com/slok/appstore/internal/model"
)

const (
	// Min is the minimum progress value.
	Min = 0
	// Max is the maximum progress value.
	Max = 100
)

// Sink receives every accepted progress write, normally a rendering surface.
type Sink interface {
	RenderProgress(value int)
}

// SinkFunc is a helper to use functions as a Sink.
type SinkFunc func(value int)

// RenderProgress satisfies Sink interface.
func (f SinkFunc) RenderProgress(value int) { f(value) }

// Reporter holds the last progress value written. Each write overwrites the
// displayed value, there is no smoothing.
type Reporter struct {
	sink  Sink
	value int
	mu    sync.Mutex
}

// NewReporter returns a new reporter at 0. The sink is optional.
func NewReporter(sink Sink) *Reporter {
	return &Reporter{sink: sink}
}

// Set writes the progress. Values outside [0,100] are rejected and the current
// value is kept.
func (r *Reporter) Set(value int) error {
	if value < Min || value > Max {
		return fmt.Errorf("progress %d out of [%d,%d] range: %w", value, Min, Max, model.ErrNotValid)
	}

	r.mu.Lock()
	r.value = value
	sink := r.sink
	r.mu.Unlock()

	if sink != nil {
		sink.RenderProgress(value)
	}

	return nil
}

// Reset sets the progress to 0.
func (r *Reporter) Reset() {
	_ = r.Set(Min)
}

// Value returns the last written value.
func (r *Reporter) Value() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// Status returns the textual status of the progress.
func (r *Reporter) Status() string {
	return fmt.Sprintf("%d%%", r.Value())
}

// Bar renders the progress as a text bar of the given width.
func (r *Reporter) Bar(width int) string {
	if width <= 0 {
		width = 40
	}
	filled := r.Value() * width / Max
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "] " + r.Status()
}
