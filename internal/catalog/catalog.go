package catalog

import (
	"fmt"
	"math/rand/v2"
)

// Entry pairs a task instruction with the label of the action that completes
// it. The id ties the two together on the wire.
type Entry struct {
	ID     string
	Title  string
	Action string
}

// Catalog is the immutable pool sessions draw their tasks from. It is safe
// to share across sessions without locking.
type Catalog struct {
	entries []Entry
}

func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog: no entries")
	}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.ID == "" || e.Title == "" || e.Action == "" {
			return nil, fmt.Errorf("catalog: incomplete entry %q", e.ID)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate entry %q", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	return &Catalog{entries: cp}, nil
}

func (c *Catalog) Len() int { return len(c.entries) }

// Draw returns up to n distinct entries chosen uniformly without
// replacement.
func (c *Catalog) Draw(n int) []Entry {
	if n > len(c.entries) {
		n = len(c.entries)
	}
	if n <= 0 {
		return nil
	}
	drawn := make([]Entry, n)
	for i, j := range rand.Perm(len(c.entries))[:n] {
		drawn[i] = c.entries[j]
	}
	return drawn
}
