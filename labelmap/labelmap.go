package labelmap

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrNegativeID is returned for ids below zero.
	ErrNegativeID = errors.New("labelmap: negative id")
	// ErrDuplicateID is returned when two names share an id.
	ErrDuplicateID = errors.New("labelmap: duplicate id")
	// ErrDuplicateName is returned when a name appears twice.
	ErrDuplicateName = errors.New("labelmap: duplicate name")
	// ErrInvalid is returned for structurally invalid sources.
	ErrInvalid = errors.New("labelmap: invalid label map")
)

// Entry is one label.
type Entry struct {
	Name        string
	ID          int64
	DisplayName string
}

// Map is an immutable label vocabulary.
type Map struct {
	ids     map[string]int64
	names   map[int64]string
	display map[string]string
}

// New builds a Map from entries in order.
func New(entries ...Entry) (*Map, error) {
	m := &Map{
		ids:     make(map[string]int64, len(entries)),
		names:   make(map[int64]string, len(entries)),
		display: make(map[string]string),
	}

	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: empty name for id %d", ErrInvalid, e.ID)
		}
		if e.ID < 0 {
			return nil, fmt.Errorf("%w: %q has id %d", ErrNegativeID, e.Name, e.ID)
		}
		if _, ok := m.ids[e.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, e.Name)
		}
		if other, ok := m.names[e.ID]; ok {
			return nil, fmt.Errorf("%w: %d used by %q and %q", ErrDuplicateID, e.ID, other, e.Name)
		}

		m.ids[e.Name] = e.ID
		m.names[e.ID] = e.Name
		if e.DisplayName != "" {
			m.display[e.Name] = e.DisplayName
		}
	}

	return m, nil
}

// FromMap builds a Map from a name to id mapping.
func FromMap(ids map[string]int64) (*Map, error) {
	entries := make([]Entry, 0, len(ids))
	for _, name := range slices.Sorted(maps.Keys(ids)) {
		entries = append(entries, Entry{Name: name, ID: ids[name]})
	}
	return New(entries...)
}

// Lookup returns the id of name.
func (m *Map) Lookup(name string) (int64, bool) {
	id, ok := m.ids[name]
	return id, ok
}

// Name returns the label name with the given id.
func (m *Map) Name(id int64) (string, bool) {
	name, ok := m.names[id]
	return name, ok
}

// DisplayName returns the human readable name of a label, falling back to the name itself.
func (m *Map) DisplayName(name string) string {
	if d, ok := m.display[name]; ok {
		return d
	}
	return name
}

// Len returns the number of labels.
func (m *Map) Len() int { return len(m.ids) }

// Entries returns all labels ordered by id.
func (m *Map) Entries() []Entry {
	ids := slices.Sorted(maps.Keys(m.names))
	entries := make([]Entry, len(ids))
	for i, id := range ids {
		name := m.names[id]
		entries[i] = Entry{Name: name, ID: id, DisplayName: m.display[name]}
	}
	return entries
}

// Load reads a label map file, choosing the format by extension:
// .pbtxt/.txt for label_map protos, .json for JSON objects and .csv for
// class descriptions with ids starting at 1.
func Load(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pbtxt", ".txt":
		return ReadPbtxt(f)
	case ".json":
		return ReadJSON(f, nil)
	case ".csv":
		return ReadClassDescriptions(f, 1)
	default:
		return nil, fmt.Errorf("%w: unknown extension %q", ErrInvalid, filepath.Ext(path))
	}
}
