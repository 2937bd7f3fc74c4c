package registry

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

// fakeHandle records every frame sent to it and lets tests flip its open
// state, simulating a transport whose status changes after registration.
type fakeHandle struct {
	mu      sync.Mutex
	open    bool
	sendErr error
	frames  [][]byte
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{open: true}
}

func (f *fakeHandle) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *fakeHandle) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	f.frames = append(f.frames, buf)
	return nil
}

func (f *fakeHandle) Close(code int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	return nil
}

func (f *fakeHandle) setOpen(open bool) {
	f.mu.Lock()
	f.open = open
	f.mu.Unlock()
}

func (f *fakeHandle) setSendErr(err error) {
	f.mu.Lock()
	f.sendErr = err
	f.mu.Unlock()
}

// decoded returns every received frame parsed as a generic JSON object.
func (f *fakeHandle) decoded(t *testing.T) []map[string]any {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]map[string]any, 0, len(f.frames))
	for _, frame := range f.frames {
		var msg map[string]any
		if err := json.Unmarshal(frame, &msg); err != nil {
			t.Fatalf("undecodable frame %q: %v", frame, err)
		}
		out = append(out, msg)
	}
	return out
}

// ofType filters decoded frames by envelope type.
func (f *fakeHandle) ofType(t *testing.T, kind string) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, msg := range f.decoded(t) {
		if msg["type"] == kind {
			out = append(out, msg)
		}
	}
	return out
}

func newTestRegistry() *Registry {
	return New(DefaultConfig(), nil, nil)
}

var errBrokenPipe = errors.New("broken pipe")
