package shared

import (
	"math"
	"reflect"
	"strings"
	"time"

	"todolist/shared/constant"
	"todolist/shared/dto"
)

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// BuildCacheKey joins key parts with a colon.
func BuildCacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// TransformFields converts the `db` tagged fields of a request struct into a map of updated
// fields. Optional fields are included only when they were sent, so an explicit null clears
// the column. Plain fields are included when non-zero. updated_at is always stamped with now.
func TransformFields(data any, now time.Time) map[string]any {
	val := reflect.Indirect(reflect.ValueOf(data))
	typ := val.Type()

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" || fieldName == "-" {
			continue
		}

		field := val.Field(index)

		if opt, ok := field.Interface().(dto.OptionalField); ok {
			if opt.IsSet() {
				updatedFields[fieldName] = opt.FieldValue()
			}

			continue
		}

		if field.IsZero() {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldUpdatedAt] = now

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}
