package harness

import (
	"context"

	"github.com/trebuchet-org/crucible/internal/domain"
)

// TestFunc is a single test body. A nil return passes, an error
// wrapping domain.ErrSkipped skips, any other error fails.
type TestFunc func(ctx context.Context, env *Env) error

// Item is a named, runnable test collected into a suite.
type Item struct {
	Name string
	Fn   TestFunc
}

// Suite is an ordered collection of test items. Items run sequentially
// in insertion order.
type Suite struct {
	name  string
	items []Item
	seen  map[string]struct{}
}

// NewSuite creates an empty suite
func NewSuite(name string) *Suite {
	return &Suite{
		name: name,
		seen: make(map[string]struct{}),
	}
}

// Name returns the suite name
func (s *Suite) Name() string {
	return s.name
}

// Add appends a test item. Item names must be unique within the suite.
func (s *Suite) Add(name string, fn TestFunc) error {
	if _, ok := s.seen[name]; ok {
		return domain.DuplicateItemErr{Name: name}
	}
	s.seen[name] = struct{}{}
	s.items = append(s.items, Item{Name: name, Fn: fn})
	return nil
}

// MustAdd is Add for static suite construction; it panics on duplicate
// names.
func (s *Suite) MustAdd(name string, fn TestFunc) {
	if err := s.Add(name, fn); err != nil {
		panic(err)
	}
}

// Items returns the collected items in run order
func (s *Suite) Items() []Item {
	return s.items
}

// Len returns the number of collected items
func (s *Suite) Len() int {
	return len(s.items)
}
