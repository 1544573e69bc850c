package attrs

// Args holds coerced attribute values keyed by attribute name. Values are
// int, string or bool depending on the table they came from.
type Args map[string]any

// Has reports whether name is present.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Int returns an integer argument.
func (a Args) Int(name string) (int, bool) {
	v, ok := a[name].(int)
	return v, ok
}

// String returns a string argument.
func (a Args) String(name string) (string, bool) {
	v, ok := a[name].(string)
	return v, ok
}

// Bool returns a boolean argument.
func (a Args) Bool(name string) (bool, bool) {
	v, ok := a[name].(bool)
	return v, ok
}
