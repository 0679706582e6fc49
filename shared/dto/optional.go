package dto

import (
	"encoding/json"
	"reflect"
)

// Optional distinguishes a JSON field that was omitted from one that was sent,
// including one sent as an explicit null.
type Optional[T any] struct {
	value T
	set   bool
	null  bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, set: true}
}

func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

func (o Optional[T]) IsNull() bool {
	return o.set && o.null
}

// Get returns the value and whether a non-null value was provided.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set && !o.null
}

// Ptr returns nil when the field was omitted or null.
func (o Optional[T]) Ptr() *T {
	if !o.set || o.null {
		return nil
	}

	value := o.value

	return &value
}

// FieldValue is the value written to storage: nil for null.
func (o Optional[T]) FieldValue() any {
	if o.null {
		return nil
	}

	return o.value
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true

	if string(data) == "null" {
		o.null = true

		var zero T
		o.value = zero

		return nil
	}

	o.null = false

	return json.Unmarshal(data, &o.value) //nolint:wrapcheck
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}

	return json.Marshal(o.value) //nolint:wrapcheck
}

// OptionalField is implemented by every Optional instantiation.
type OptionalField interface {
	IsSet() bool
	FieldValue() any
}

// OptionalValue unwraps an Optional for struct validation. Omitted and null values
// yield nil so `omitempty` rules skip them.
func OptionalValue(field reflect.Value) any {
	opt, ok := field.Interface().(OptionalField)
	if !ok || !opt.IsSet() {
		return nil
	}

	return opt.FieldValue()
}
