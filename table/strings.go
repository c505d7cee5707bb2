package table

import "strings"

// Strings interns text. Equal content always yields the same Name, so
// callers compare names by pointer.
type Strings struct {
	t *Table[struct{}]
}

// NewStrings returns an empty string table.
func NewStrings(opts ...Option) *Strings {
	t := New[struct{}](opts...)
	t.content = true
	return &Strings{t: t}
}

// Store returns the canonical name for chars, copying chars into the table
// the first time the content is seen.
func (s *Strings) Store(chars []byte) Name {
	return s.StoreString(string(chars))
}

// StoreString is Store for a string.
func (s *Strings) StoreString(text string) Name {
	s.t.growIfRequired()
	i, found := s.t.find(s.t.entries, &text)
	e := &s.t.entries[i]
	if found {
		return e.key
	}
	if e.key == nil {
		s.t.size++
	}
	key := strings.Clone(text)
	e.key = &key
	return e.key
}

// Lookup returns the canonical name for text if it has been stored.
func (s *Strings) Lookup(text string) (Name, bool) {
	i, found := s.t.find(s.t.entries, &text)
	if !found {
		return nil, false
	}
	return s.t.entries[i].key, true
}

// Len is the number of interned strings.
func (s *Strings) Len() int {
	return s.t.Len()
}

// Size is the size of the underlying table.
func (s *Strings) Size() int {
	return s.t.Size()
}

// Capacity is the capacity of the underlying table.
func (s *Strings) Capacity() int {
	return s.t.Capacity()
}
