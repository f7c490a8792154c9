package ledger

import (
	"fmt"
	"sync"
)

// Desk allows at most one editor or confirmation to be open at a time.
type Desk struct {
	active string
	mu     sync.Mutex
}

// NewDesk creates an empty desk.
func NewDesk() *Desk {
	return &Desk{}
}

// Active returns the name of the open editor, or "".
func (d *Desk) Active() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Acquire claims the desk for name.
func (d *Desk) Acquire(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active != "" {
		return fmt.Errorf("%w: %s", ErrEditorBusy, d.active)
	}
	d.active = name
	return nil
}

// Release frees the desk if name holds it.
func (d *Desk) Release(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == name {
		d.active = ""
	}
}
