package clinic

import (
	"slices"
	"strings"
)

// DeleteGuard vetoes a deletion by returning an error.
type DeleteGuard func(id string) error

// Registry holds the entities of one type keyed by id, in insertion order.
type Registry[T Entity] struct {
	entity EntityType
	items  map[string]T
	order  []string
	guard  DeleteGuard
}

// NewRegistry creates an empty registry for the given entity type.
func NewRegistry[T Entity](entity EntityType) *Registry[T] {
	return &Registry[T]{
		entity: entity,
		items:  make(map[string]T),
		order:  make([]string, 0),
	}
}

// SetDeleteGuard installs a check consulted before every Delete.
func (r *Registry[T]) SetDeleteGuard(guard DeleteGuard) {
	r.guard = guard
}

// Entity returns the entity type this registry holds.
func (r *Registry[T]) Entity() EntityType {
	return r.entity
}

// Add inserts item. It fails with a DuplicateIDError if the id is taken.
func (r *Registry[T]) Add(item T) error {
	id := item.ID()
	if id == "" {
		return invalid("id", id, EmptyID)
	}
	if _, exists := r.items[id]; exists {
		return &DuplicateIDError{Entity: r.entity, ID: id}
	}
	r.items[id] = item
	r.order = append(r.order, id)
	return nil
}

// Get returns the entity with the given id.
func (r *Registry[T]) Get(id string) (T, error) {
	id = strings.TrimSpace(id)
	item, ok := r.items[id]
	if !ok {
		var zero T
		return zero, &NotFoundError{Entity: r.entity, ID: id}
	}
	return item, nil
}

// Has reports whether id is present.
func (r *Registry[T]) Has(id string) bool {
	_, ok := r.items[strings.TrimSpace(id)]
	return ok
}

// Update replaces the entity with the result of fn. If fn fails the registry
// is left unchanged. The id of the entity cannot change.
func (r *Registry[T]) Update(id string, fn func(T) (T, error)) (T, error) {
	current, err := r.Get(id)
	if err != nil {
		return current, err
	}
	updated, err := fn(current)
	if err != nil {
		return current, err
	}
	r.items[current.ID()] = updated
	return updated, nil
}

// Delete removes the entity with the given id after the delete guard, if
// any, has approved it.
func (r *Registry[T]) Delete(id string) (T, error) {
	item, err := r.Get(id)
	if err != nil {
		return item, err
	}
	if r.guard != nil {
		if err := r.guard(item.ID()); err != nil {
			var zero T
			return zero, err
		}
	}
	delete(r.items, item.ID())
	r.order = slices.DeleteFunc(r.order, func(k string) bool { return k == item.ID() })
	return item, nil
}

// List returns the entities in insertion order. The slice is a fresh copy.
func (r *Registry[T]) List() []T {
	result := make([]T, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.items[id])
	}
	return result
}

// Len returns the number of entities held.
func (r *Registry[T]) Len() int {
	return len(r.order)
}

// Reset drops every entity.
func (r *Registry[T]) Reset() {
	r.items = make(map[string]T)
	r.order = make([]string, 0)
}
