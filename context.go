package pathweave

// Context supplies token values to templates by field name and receives
// parsed values back. A field is populated when it carries a non-empty
// value; absent and empty are equivalent.
//
// Implementations must be value-semantic: WithFields returns a modified
// copy and never mutates the receiver. MapContext is a ready-made
// implementation; applications with a fixed field set typically implement
// Context on a small struct instead (see the examples).
type Context interface {
	// Field returns the value of the named field and whether it is populated.
	Field(name string) (string, bool)

	// FieldNames returns every field belonging to the context shape, in
	// declaration order, populated or not.
	FieldNames() []string

	// WithFields returns a copy of the context with the given fields set.
	// Names outside the context shape are ignored.
	WithFields(fields map[string]string) Context
}

// MapContext is a Context backed by an ordered field list and a value map.
// The shape is fixed at construction; values are supplied through
// WithFields.
//
// Example:
//
//	ctx := pathweave.NewMapContext("show", "seq", "shot").
//		WithFields(map[string]string{"show": "demo", "seq": "010"})
type MapContext struct {
	names  []string
	values map[string]string
}

// NewMapContext creates a MapContext whose shape is the given field names.
func NewMapContext(names ...string) MapContext {
	return MapContext{
		names:  append([]string(nil), names...),
		values: make(map[string]string),
	}
}

// Field implements Context.
func (c MapContext) Field(name string) (string, bool) {
	v := c.values[name]
	return v, v != ""
}

// FieldNames implements Context.
func (c MapContext) FieldNames() []string {
	return append([]string(nil), c.names...)
}

// WithFields implements Context.
func (c MapContext) WithFields(fields map[string]string) Context {
	next := MapContext{
		names:  c.names,
		values: make(map[string]string, len(c.values)+len(fields)),
	}
	for k, v := range c.values {
		next.values[k] = v
	}
	for k, v := range fields {
		if next.has(k) {
			next.values[k] = v
		}
	}
	return next
}

func (c MapContext) has(name string) bool {
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}

// hasField reports whether name belongs to the context shape, populated
// or not. Filter matching is fail-closed on unknown fields.
func hasField(ctx Context, name string) bool {
	for _, n := range ctx.FieldNames() {
		if n == name {
			return true
		}
	}
	return false
}
