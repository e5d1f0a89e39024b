package registry

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/gantry/pkg/errors"
)

// Registry is a generic, thread-safe registry for storing and retrieving items by name
type Registry[T any] interface {
	// Register adds an item to the registry
	Register(name string, item T) error

	// Get retrieves an item from the registry
	Get(name string) (T, error)

	// Names returns all registered names in registration order
	Names() []string

	// Has checks if an item is registered
	Has(name string) bool

	// Count returns the number of registered items
	Count() int

	// Seal makes the registry read-only
	Seal()

	// Sealed reports whether Seal has been called
	Sealed() bool
}

// Options configures the error codes a registry reports
type Options struct {
	// Kind names the items in error messages ("task")
	Kind string
	// DuplicateCode is returned when a name is registered twice
	DuplicateCode errors.ErrorCode
	// MissingCode is returned by Get for unknown names
	MissingCode errors.ErrorCode
}

// registry is the internal implementation of Registry
type registry[T any] struct {
	mu     sync.RWMutex
	opts   Options
	items  map[string]T
	order  []string
	sealed bool
}

// New creates a new Registry instance
func New[T any](opts Options) Registry[T] {
	if opts.Kind == "" {
		opts.Kind = "item"
	}
	if opts.DuplicateCode == "" {
		opts.DuplicateCode = errors.ErrInvalidInput
	}
	if opts.MissingCode == "" {
		opts.MissingCode = errors.ErrInvalidInput
	}
	return &registry[T]{
		opts:  opts,
		items: make(map[string]T),
	}
}

// Register adds an item to the registry
func (r *registry[T]) Register(name string, item T) error {
	if name == "" {
		return errors.Newf(errors.ErrInvalidInput, "%s name cannot be empty", r.opts.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return errors.Newf(errors.ErrInternal, "cannot register %s '%s': registry is sealed", r.opts.Kind, name)
	}

	if _, exists := r.items[name]; exists {
		return errors.Newf(r.opts.DuplicateCode, "%s '%s' is already registered", r.opts.Kind, name).
			WithDetail(r.opts.Kind, name)
	}

	r.items[name] = item
	r.order = append(r.order, name)
	return nil
}

// Get retrieves an item from the registry
func (r *registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	if !exists {
		var zero T
		return zero, errors.Newf(r.opts.MissingCode, "%s '%s' is not registered", r.opts.Kind, name).
			WithDetail(r.opts.Kind, name)
	}

	return item, nil
}

// Names returns all registered names in registration order
func (r *registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Has checks if an item is registered
func (r *registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[name]
	return exists
}

// Count returns the number of registered items
func (r *registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}

func (r *registry[T]) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

func (r *registry[T]) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// MustRegister registers an item and panics if registration fails.
// Registration errors during startup are programming errors.
func MustRegister[T any](reg Registry[T], name string, item T) {
	if err := reg.Register(name, item); err != nil {
		panic(fmt.Sprintf("failed to register %s: %v", name, err))
	}
}
