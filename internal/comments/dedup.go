package comments

import "strings"

// DedupKeyLength is how many runes of a comment take part in its dedup key. Re-rendered
// comments often come back truncated or re-wrapped past this point and must still collide.
const DedupKeyLength = 50

// Key derives the dedup key of a username/comment pair.
func Key(username, comment string) string {
	var b strings.Builder
	b.WriteString(username)
	b.WriteByte(':')

	n := 0
	for _, r := range comment {
		if n == DedupKeyLength {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}

// Deduplicator tracks the keys accepted during one run. A child overlay stages the keys
// of a single extraction pass on top of its parent until the pass is merged.
// Not safe for concurrent use.
type Deduplicator struct {
	seen   map[string]struct{}
	parent *Deduplicator
}

// NewDeduplicator returns an empty key set
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Has reports whether key was accepted here or in any parent.
func (d *Deduplicator) Has(key string) bool {
	for cur := d; cur != nil; cur = cur.parent {
		if _, ok := cur.seen[key]; ok {
			return true
		}
	}
	return false
}

// IsNew reports whether key has not been seen, recording it when it has not.
func (d *Deduplicator) IsNew(key string) bool {
	if d.Has(key) {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}

// Len returns the number of keys held directly by d.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}

// Child returns an overlay whose insertions stay invisible to d until merged.
func (d *Deduplicator) Child() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{}), parent: d}
}

// Merge folds the keys staged in child into d.
func (d *Deduplicator) Merge(child *Deduplicator) {
	if child == nil || child == d {
		return
	}
	for k := range child.seen {
		d.seen[k] = struct{}{}
	}
}
