package docmodel

import (
	"encoding/json"
	"fmt"
)

// OperatorForm says whether an operator is documented like a method or an attribute.
type OperatorForm string

const (
	OperatorMethod    OperatorForm = "method"
	OperatorAttribute OperatorForm = "attribute"
)

// Operator is a class operator (call, index, length). Exactly one of Method and
// Attribute is set, matching Form.
type Operator struct {
	Form      OperatorForm
	Method    *Method
	Attribute *Attribute
}

// Key returns the operator name.
func (o Operator) Key() string {
	switch {
	case o.Method != nil:
		return o.Method.Name
	case o.Attribute != nil:
		return o.Attribute.Name
	default:
		return ""
	}
}

// UnmarshalJSON picks the operator form from the fields present: method-shaped
// operators carry parameters or return values, attribute-shaped ones do not.
func (o *Operator) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decoding operator: %w", err)
	}

	_, hasParams := fields["parameters"]
	_, hasReturns := fields["return_values"]
	if hasParams || hasReturns {
		var m Method
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("decoding method operator: %w", err)
		}
		*o = Operator{Form: OperatorMethod, Method: &m}
		return nil
	}

	var a Attribute
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("decoding attribute operator: %w", err)
	}
	*o = Operator{Form: OperatorAttribute, Attribute: &a}
	return nil
}

// MarshalJSON writes the operator in its wire form.
func (o Operator) MarshalJSON() ([]byte, error) {
	switch {
	case o.Method != nil:
		return json.Marshal(o.Method)
	case o.Attribute != nil:
		return json.Marshal(o.Attribute)
	default:
		return []byte("null"), nil
	}
}
