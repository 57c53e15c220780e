package chat

import (
	"sync"
	"time"
)

// DefaultUndoWindow is how long a spam report stays undoable.
const DefaultUndoWindow = 8 * time.Second

// UndoTracker is the timed state machine behind the spam-undo
// affordance: arming tracks the last reported conversation for a fixed
// window, after which the report becomes final. Per-viewer keyed, one
// pending undo per viewer (a new report replaces the previous window).
type UndoTracker struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[string]*undoEntry // viewerID -> armed window
}

type undoEntry struct {
	conversationID string
	timer          *time.Timer
}

func NewUndoTracker(window time.Duration) *UndoTracker {
	if window <= 0 {
		window = DefaultUndoWindow
	}
	return &UndoTracker{
		window:  window,
		pending: make(map[string]*undoEntry),
	}
}

// Arm starts (or restarts) the undo window for a viewer's report.
func (t *UndoTracker) Arm(viewerID, conversationID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.pending[viewerID]; ok {
		prev.timer.Stop()
	}

	entry := &undoEntry{conversationID: conversationID}
	entry.timer = time.AfterFunc(t.window, func() {
		t.expire(viewerID, entry)
	})
	t.pending[viewerID] = entry
}

func (t *UndoTracker) expire(viewerID string, entry *undoEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending[viewerID] == entry {
		delete(t.pending, viewerID)
	}
}

// Consume cancels the window and returns the tracked conversation id.
// Valid only while the window is still armed.
func (t *UndoTracker) Consume(viewerID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.pending[viewerID]
	if !ok {
		return "", false
	}
	entry.timer.Stop()
	delete(t.pending, viewerID)
	return entry.conversationID, true
}

// Peek reports the armed conversation id without consuming it.
func (t *UndoTracker) Peek(viewerID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.pending[viewerID]
	if !ok {
		return "", false
	}
	return entry.conversationID, true
}
