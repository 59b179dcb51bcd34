package engine

import (
	"sort"

	"github.com/MrSnakeDoc/marks/internal/domain"
)

// Entry is one visible row of the synchronized collection.
type Entry struct {
	domain.Bookmark

	// Pending marks an optimistic entry the backend has not confirmed
	// yet. Pending entries carry no server ID.
	Pending bool

	// Key identifies a pending entry locally until the backend
	// assigns the real ID. Empty on confirmed rows.
	Key string
}

// collection is the ordered in-memory bookmark list of the bound
// identity: optimistic pending entries at the head (newest first),
// confirmed entries after them ordered by CreatedAt descending.
// Not safe for concurrent use; the engine's mutex guards it.
type collection struct {
	entries []Entry
}

func (c *collection) len() int { return len(c.entries) }

func (c *collection) pendingCount() int {
	n := 0
	for _, e := range c.entries {
		if e.Pending {
			n++
		}
	}
	return n
}

func (c *collection) clear() { c.entries = nil }

// snapshot returns a copy safe to hand out or keep for rollback.
func (c *collection) snapshot() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// restore overwrites the entries with a previously taken snapshot.
func (c *collection) restore(snap []Entry) {
	c.entries = make([]Entry, len(snap))
	copy(c.entries, snap)
}

// replace swaps the whole collection for the given confirmed rows.
// Pending entries are dropped too: the rows are the backend's full
// answer, anything absent from them does not exist anymore. Rows are
// de-duplicated by ID (first wins) and ordered newest first.
func (c *collection) replace(books []domain.Bookmark) {
	sorted := make([]domain.Bookmark, len(books))
	copy(sorted, books)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	entries := make([]Entry, 0, len(sorted))
	seen := make(map[string]bool, len(sorted))
	for _, b := range sorted {
		if b.ID == "" || seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		entries = append(entries, Entry{Bookmark: b})
	}
	c.entries = entries
}

// prependPending inserts a provisional entry at the head.
func (c *collection) prependPending(e Entry) {
	e.Pending = true
	c.entries = append([]Entry{e}, c.entries...)
}

// removePending drops the pending entry with the given key.
func (c *collection) removePending(key string) bool {
	for i, e := range c.entries {
		if e.Pending && e.Key == key {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return true
		}
	}
	return false
}

// confirm resolves a pending entry against the record the backend
// stored: the provisional row disappears and the confirmed record
// takes its sorted place.
func (c *collection) confirm(key string, b domain.Bookmark) {
	c.removePending(key)
	c.upsert(b)
}

// removeByID drops the confirmed entry with the given ID. Pending
// entries are never matched.
func (c *collection) removeByID(id string) (Entry, bool) {
	if id == "" {
		return Entry{}, false
	}
	for i, e := range c.entries {
		if !e.Pending && e.ID == id {
			removed := e
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return removed, true
		}
	}
	return Entry{}, false
}

// upsert places a confirmed record at its CreatedAt-descending
// position among the confirmed entries, replacing any row already
// carrying the same ID.
func (c *collection) upsert(b domain.Bookmark) {
	if b.ID == "" {
		return
	}

	for i, e := range c.entries {
		if !e.Pending && e.ID == b.ID {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			break
		}
	}

	insert := len(c.entries)
	for i, e := range c.entries {
		if e.Pending {
			continue
		}
		if b.CreatedAt.After(e.CreatedAt) {
			insert = i
			break
		}
	}

	c.entries = append(c.entries, Entry{})
	copy(c.entries[insert+1:], c.entries[insert:])
	c.entries[insert] = Entry{Bookmark: b}
}
