// Package binding provides the mutable cells that sit between widgets and
// form fields. A cell notifies its watchers on every write, which is what
// makes a label bound to an entry follow the entry as the user types.
package binding

// Var is a mutable cell that notifies watchers when its value changes.
type Var[T comparable] struct {
	value    T
	watchers []watcher[T]
	nextID   int
}

type watcher[T comparable] struct {
	id int
	fn func(T)
}

// String is the cell type backing text entries, labels and single selects.
type String = Var[string]

// Bool is the cell type backing checkbuttons.
type Bool = Var[bool]

// NewString returns a string cell holding initial.
func NewString(initial string) *String {
	return &Var[string]{value: initial}
}

// NewBool returns a boolean cell holding initial.
func NewBool(initial bool) *Bool {
	return &Var[bool]{value: initial}
}

// Get returns the current value.
func (v *Var[T]) Get() T {
	if v == nil {
		var zero T
		return zero
	}
	return v.value
}

// Set stores value and notifies watchers when it differs from the current
// value.
func (v *Var[T]) Set(value T) {
	if v == nil || v.value == value {
		return
	}
	v.value = value
	for _, w := range append([]watcher[T](nil), v.watchers...) {
		w.fn(value)
	}
}

// Watch registers fn and calls it once with the current value. The returned
// func removes the watcher.
func (v *Var[T]) Watch(fn func(T)) (cancel func()) {
	if v == nil || fn == nil {
		return func() {}
	}
	v.nextID++
	id := v.nextID
	v.watchers = append(v.watchers, watcher[T]{id: id, fn: fn})
	fn(v.value)
	return func() {
		for i, w := range v.watchers {
			if w.id == id {
				v.watchers = append(v.watchers[:i], v.watchers[i+1:]...)
				return
			}
		}
	}
}

// Watchers reports how many watchers are attached.
func (v *Var[T]) Watchers() int {
	if v == nil {
		return 0
	}
	return len(v.watchers)
}
