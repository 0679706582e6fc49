package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"

	"todolist/shared/dto"
	"todolist/shared/failure"
)

const timestampMessage = "datetime values must be RFC3339 timestamps with a timezone offset"

var validate *val.Validate

// Normalizer is implemented by request payloads that clean their own fields, such as
// trimming whitespace, before the validation rules run.
type Normalizer interface {
	Normalize()
}

// SelfValidator is implemented by payloads with rules the struct tags cannot express. It runs
// after the tag rules pass.
type SelfValidator interface {
	Validate() error
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}

		return name
	})

	RegisterCustomTypeFunc(dto.OptionalValue, dto.Optional[string]{}, dto.Optional[time.Time]{})
}

// RegisterCustomTypeFunc lets packages teach the validator how to unwrap their own wrapper
// types. It must be called during package initialization.
func RegisterCustomTypeFunc(fn val.CustomTypeFunc, types ...any) {
	validate.RegisterCustomTypeFunc(fn, types...)
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. Unknown JSON fields are rejected. If the struct is
// invalid according to the validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(data)
	if err != nil {
		var parseErr *time.ParseError
		if errors.As(err, &parseErr) {
			return failure.BadRequestFromString(timestampMessage) //nolint:wrapcheck
		}

		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	if normalizer, ok := any(data).(Normalizer); ok {
		normalizer.Normalize()
	}

	if err = ValidateStruct(data); err != nil {
		return err
	}

	if selfValidator, ok := any(data).(SelfValidator); ok {
		if err = selfValidator.Validate(); err != nil {
			return failure.BadRequest(err) //nolint:wrapcheck
		}
	}

	return nil
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
