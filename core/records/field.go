package records

import (
	"fmt"
	"reflect"
)

// Field binds one column to a member of R.
type Field[R any] struct {
	Column
	get    func(r *R) any
	set    func(r *R, value any) error
	target func(r *R) any
	equal  func(a, b *R) bool
}

// NewField binds a non-null column to the member returned by ref.
// Set accepts only values of type V.
func NewField[R, V any](col Column, ref func(r *R) *V) Field[R] {
	col.Nullable = false
	return Field[R]{
		Column: col,
		get: func(r *R) any {
			return *ref(r)
		},
		set: func(r *R, value any) error {
			if value == nil {
				return fmt.Errorf("%w: %s", ErrNotNullable, col.Name)
			}
			v, ok := value.(V)
			if !ok {
				return mismatch[V](col, value)
			}
			*ref(r) = v
			return nil
		},
		target: func(r *R) any {
			return ref(r)
		},
		equal: func(a, b *R) bool {
			return equalValues(*ref(a), *ref(b))
		},
	}
}

// NewNullField binds a nullable column to the pointer member returned by ref.
// A nil pointer is the absent value. Set accepts nil, V or *V; stored values
// are copied so records never share memory with the caller.
func NewNullField[R, V any](col Column, ref func(r *R) **V) Field[R] {
	col.Nullable = true
	return Field[R]{
		Column: col,
		get: func(r *R) any {
			p := *ref(r)
			if p == nil {
				return nil
			}
			return *p
		},
		set: func(r *R, value any) error {
			switch v := value.(type) {
			case nil:
				*ref(r) = nil
			case V:
				*ref(r) = &v
			case *V:
				if v == nil {
					*ref(r) = nil
					return nil
				}
				c := *v
				*ref(r) = &c
			default:
				return mismatch[V](col, value)
			}
			return nil
		},
		target: func(r *R) any {
			return ref(r)
		},
		equal: func(a, b *R) bool {
			pa, pb := *ref(a), *ref(b)
			if pa == nil || pb == nil {
				return pa == nil && pb == nil
			}
			return equalValues(*pa, *pb)
		},
	}
}

func mismatch[V any](col Column, value any) error {
	return fmt.Errorf("%w: column %s expects %s, got %T", ErrTypeMismatch, col.Name, reflect.TypeFor[V](), value)
}

// equalValues prefers an Equal method (time.Time compares instants, not
// locations) and falls back to deep equality.
func equalValues[V any](a, b V) bool {
	if e, ok := any(a).(interface{ Equal(V) bool }); ok {
		return e.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}
