package script

import (
	"fmt"
	"os"

	"github.com/osse101/armory/internal/domain"
)

// Source is one named unit of script text
type Source struct {
	Name string
	Text string
}

// Sources is an ordered set of uniquely named script texts.
// Sources are compiled in insertion order.
type Sources struct {
	items []Source
	index map[string]int
}

// NewSources creates an empty source set
func NewSources() *Sources {
	return &Sources{index: make(map[string]int)}
}

// Insert appends a source. Names must be unique and non-empty.
func (s *Sources) Insert(name, text string) error {
	if name == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptySourceName)
	}
	if _, ok := s.index[name]; ok {
		return fmt.Errorf("%w: %s: %s", domain.ErrInvalidInput, ErrMsgDuplicateSource, name)
	}
	s.index[name] = len(s.items)
	s.items = append(s.items, Source{Name: name, Text: text})
	return nil
}

// InsertFile reads path and appends it under its path as name
func (s *Sources) InsertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read script source %s: %w", path, err)
	}
	return s.Insert(path, string(data))
}

// Get returns the source registered under name
func (s *Sources) Get(name string) (Source, bool) {
	i, ok := s.index[name]
	if !ok {
		return Source{}, false
	}
	return s.items[i], true
}

// Len returns the number of sources
func (s *Sources) Len() int {
	return len(s.items)
}

// Names returns the source names in insertion order
func (s *Sources) Names() []string {
	out := make([]string, len(s.items))
	for i, src := range s.items {
		out[i] = src.Name
	}
	return out
}

// SourcesFromFiles builds a source set from the given paths, in order
func SourcesFromFiles(paths ...string) (*Sources, error) {
	s := NewSources()
	for _, p := range paths {
		if err := s.InsertFile(p); err != nil {
			return nil, err
		}
	}
	return s, nil
}
