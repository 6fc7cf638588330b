package diff

import (
	"reflect"
	"slices"

	"github.com/emenda-labs/factdiff/core/docmodel"
)

// equalValues compares two scalar field values. A nil value stands for a field
// the entity does not have and equals the zero value of any type.
func (e *engine) equalValues(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return isZero(b)
	case string, bool, int, docmodel.TimeFrame, docmodel.OperatorForm:
		return a == b
	case []string:
		if b == nil {
			return len(x) == 0
		}
		y, _ := b.([]string)
		return slices.Equal(x, y)
	case []docmodel.Image:
		y, _ := b.([]docmodel.Image)
		return slices.Equal(x, y)
	case *bool:
		y, _ := b.(*bool)
		if x == nil || y == nil {
			return x == nil && y == nil
		}
		return *x == *y
	case *docmodel.Type:
		y, _ := b.(*docmodel.Type)
		return e.typesEqual(x, y)
	case []docmodel.ReturnValue:
		y, _ := b.([]docmodel.ReturnValue)
		return e.returnValuesEqual(x, y)
	default:
		return reflect.DeepEqual(a, b)
	}
}

// returnValuesEqual compares return values by position, applying the same type
// and order policy as named fields.
func (e *engine) returnValuesEqual(a, b []docmodel.ReturnValue) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Description != b[i].Description || a[i].Optional != b[i].Optional {
			return false
		}
		if e.opts.CompareOrder && a[i].Order != b[i].Order {
			return false
		}
		if !e.opts.IgnoreTypeAnnotations && !e.typesEqual(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

// typesEqual compares type annotations. Order keys inside a type follow the
// same CompareOrder policy as the order field of entities.
func (e *engine) typesEqual(a, b *docmodel.Type) bool {
	if e.opts.CompareOrder {
		return docmodel.TypesEqualOrdered(a, b)
	}
	return docmodel.TypesEqual(a, b)
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
