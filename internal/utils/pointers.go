package utils

// Ptr returns a pointer to a copy of v, for optional wire fields.
func Ptr[T any](v T) *T {
	return &v
}

// Value dereferences p, or returns the zero value when p is nil.
func Value[T any](p *T) T {
	if p == nil {
		return *new(T)
	}
	return *p
}

// Clone copies the value behind p so callers cannot alias it.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	return Ptr(*p)
}
