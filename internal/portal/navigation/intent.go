// Package navigation decides what the portal shows for a path given the
// current session, and where a fresh login lands.
package navigation

import "sync"

// Intent remembers the one path a visitor was turned away from for lack of
// a session. A later Remember overwrites it; Consume empties it.
type Intent struct {
	mu   sync.Mutex
	path string
	set  bool
}

func (i *Intent) Remember(path string) {
	i.mu.Lock()
	i.path, i.set = path, true
	i.mu.Unlock()
}

// Consume returns the remembered path and clears the slot.
func (i *Intent) Consume() (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	path, ok := i.path, i.set
	i.path, i.set = "", false
	return path, ok
}

// Peek returns the remembered path without clearing it.
func (i *Intent) Peek() (string, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.path, i.set
}
