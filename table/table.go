// Package table implements the open-addressing hash table behind every
// environment frame, and the string table that interns atoms and strings.
//
// Keys are interned references. A generic Table compares keys by identity,
// the string table compares them by content. Deleted slots keep a tombstone
// until the next growth rehashes the live entries.
package table

const (
	loadFactor   = 0.75
	minCapacity  = 8
	growthFactor = 2
)

// Name is an interned string. Two names are the same name exactly when
// they are the same pointer.
type Name = *string

// HashFunc hashes the content of a key.
type HashFunc func(key string) uint32

// tombstone marks a deleted slot. It is never handed out as a real key.
var tombstone Name = new(string)

type entry[V any] struct {
	key   Name
	value V
}

type options struct {
	hash HashFunc
}

// Option configures a table.
type Option func(*options)

// WithHash replaces the hash function. Probing does not change.
func WithHash(h HashFunc) Option {
	return func(o *options) {
		o.hash = h
	}
}

// Table maps names to values using linear probing.
type Table[V any] struct {
	entries []entry[V]
	// size counts occupied and tombstoned slots.
	size    int
	hash    HashFunc
	content bool
}

// New returns an empty table. Nothing is allocated until the first Set.
func New[V any](opts ...Option) *Table[V] {
	o := options{hash: FNV1a}
	for _, opt := range opts {
		opt(&o)
	}
	return &Table[V]{hash: o.hash}
}

// Set binds key to value. It reports whether the key was not in the
// table before.
func (t *Table[V]) Set(key Name, value V) bool {
	t.growIfRequired()
	i, found := t.find(t.entries, key)
	if i < 0 {
		// unreachable: growth always leaves a free slot
		panic("table: no free slot")
	}
	e := &t.entries[i]
	if found {
		e.value = value
		return false
	}
	if e.key == nil {
		t.size++
	}
	e.key = key
	e.value = value
	return true
}

// Get returns the value bound to key.
func (t *Table[V]) Get(key Name) (V, bool) {
	i, found := t.find(t.entries, key)
	if !found {
		var zero V
		return zero, false
	}
	return t.entries[i].value, true
}

// Delete leaves a tombstone in the slot of key. Size is unchanged.
func (t *Table[V]) Delete(key Name) bool {
	i, found := t.find(t.entries, key)
	if !found {
		return false
	}
	var zero V
	t.entries[i] = entry[V]{key: tombstone, value: zero}
	return true
}

// Size is the number of slots that are occupied or tombstoned.
func (t *Table[V]) Size() int {
	return t.size
}

// Capacity is the number of slots.
func (t *Table[V]) Capacity() int {
	return len(t.entries)
}

// Len is the number of live entries.
func (t *Table[V]) Len() int {
	n := 0
	for _, e := range t.entries {
		if live(e.key) {
			n++
		}
	}
	return n
}

// Range calls fn for each live entry in slot order until fn returns false.
func (t *Table[V]) Range(fn func(key Name, value V) bool) {
	for _, e := range t.entries {
		if !live(e.key) {
			continue
		}
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Keys returns the live keys in slot order.
func (t *Table[V]) Keys() []Name {
	keys := make([]Name, 0, t.size)
	t.Range(func(k Name, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Reset drops every slot, returning the table to its initial state.
func (t *Table[V]) Reset() {
	t.entries = nil
	t.size = 0
}

func live(k Name) bool {
	return k != nil && k != tombstone
}

func (t *Table[V]) growIfRequired() {
	if float64(t.size+1) <= float64(len(t.entries))*loadFactor {
		return
	}
	capacity := len(t.entries) * growthFactor
	if capacity < minCapacity {
		capacity = minCapacity
	}
	t.grow(capacity)
}

// grow rehashes the live entries into capacity fresh slots, purging
// tombstones.
func (t *Table[V]) grow(capacity int) {
	entries := make([]entry[V], capacity)
	size := 0
	for _, e := range t.entries {
		if !live(e.key) {
			continue
		}
		i, _ := t.find(entries, e.key)
		entries[i] = e
		size++
	}
	t.entries = entries
	t.size = size
}

// find probes for key. It returns the index of the matching slot and true,
// or the slot where key would be installed and false. The install slot is
// the first tombstone passed, else the empty slot that ended the probe.
// Every slot is visited at most once; -1 means no slot is available.
func (t *Table[V]) find(entries []entry[V], key Name) (int, bool) {
	capacity := len(entries)
	if capacity == 0 {
		return -1, false
	}
	index := int(t.hash(*key) % uint32(capacity))
	free := -1
	for n := 0; n < capacity; n++ {
		e := &entries[index]
		switch {
		case e.key == nil:
			if free < 0 {
				free = index
			}
			return free, false
		case e.key == tombstone:
			if free < 0 {
				free = index
			}
		case t.match(e.key, key):
			return index, true
		}
		index = (index + 1) % capacity
	}
	return free, false
}

func (t *Table[V]) match(a, b Name) bool {
	if t.content {
		return *a == *b
	}
	return a == b
}

// FNV1a is the 32-bit FNV-1a hash, the default HashFunc.
func FNV1a(key string) uint32 {
	hash := uint32(2166136261)
	for i := 0; i < len(key); i++ {
		hash ^= uint32(key[i])
		hash *= 16777619
	}
	return hash
}
