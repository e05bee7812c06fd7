package status

import "sync"

// Entry is one status call.
type Entry struct {
	Name    string
	Valid   bool
	Message string
}

// Recorder is a Sink that keeps every call, mostly for tests and for
// callers that poll instead of render.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	latest  map[string]Entry
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{latest: make(map[string]Entry)}
}

// Status records the call.
func (r *Recorder) Status(name string, valid bool, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := Entry{Name: name, Valid: valid, Message: message}
	r.entries = append(r.entries, entry)
	if r.latest == nil {
		r.latest = make(map[string]Entry)
	}
	r.latest[name] = entry
}

// Entries returns every recorded call in order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Last returns the most recent entry for name.
func (r *Recorder) Last(name string) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.latest[name]
	return entry, ok
}

// Reset forgets every recorded call.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	r.latest = make(map[string]Entry)
}
