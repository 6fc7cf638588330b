package docmodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// TypeKind tags the variant held by a Type.
type TypeKind string

const (
	// TypeNamed is a bare type name: a builtin scalar or a reference to another
	// entity. The export does not distinguish the two.
	TypeNamed       TypeKind = "named"
	TypeWrapper     TypeKind = "type"
	TypeUnion       TypeKind = "union"
	TypeArray       TypeKind = "array"
	TypeDictionary  TypeKind = "dictionary"
	TypeCustomTable TypeKind = "LuaCustomTable"
	TypeFunction    TypeKind = "function"
	TypeLiteral     TypeKind = "literal"
	TypeLazyLoaded  TypeKind = "LuaLazyLoadedValue"
	TypeStruct      TypeKind = "LuaStruct"
	TypeTable       TypeKind = "table"
	TypeTuple       TypeKind = "tuple"
	TypeBuiltin     TypeKind = "builtin"

	// TypeStructPrototype is the prototype export's marker for a type whose
	// shape is given by the owner's properties.
	TypeStructPrototype TypeKind = "struct"
)

// Type is a recursively structured type annotation. Which fields are meaningful
// depends on Kind. Named references are not resolved; they may dangle.
type Type struct {
	Kind TypeKind

	// Name is set for TypeNamed.
	Name string

	// Value is the element, value or wrapped type (array, dictionary, custom
	// table, lazy value, wrapper).
	Value *Type
	// Key is the key type of dictionaries and custom tables.
	Key *Type

	Options    []*Type // union
	FullFormat bool    // union

	// Parameters are the argument types of a function type.
	Parameters []*Type

	// Elements are the positional member types of a prototype-export tuple.
	Elements []*Type

	// Description belongs to wrapper and literal types.
	Description string

	// Literal is a string, float64 or bool.
	Literal any

	Attributes []Attribute // LuaStruct

	// Fields, VariantParameterGroups and VariantParameterDescription describe
	// table and tuple types.
	Fields                      []Parameter
	VariantParameterGroups      []ParameterGroup
	VariantParameterDescription string
}

// Named returns a TypeNamed reference.
func Named(name string) *Type {
	return &Type{Kind: TypeNamed, Name: name}
}

// ArrayOf returns an array type of elem.
func ArrayOf(elem *Type) *Type {
	return &Type{Kind: TypeArray, Value: elem}
}

// DictionaryOf returns a dictionary type.
func DictionaryOf(key, value *Type) *Type {
	return &Type{Kind: TypeDictionary, Key: key, Value: value}
}

// UnionOf returns a union of the given options.
func UnionOf(options ...*Type) *Type {
	return &Type{Kind: TypeUnion, Options: options}
}

// wireType is the object form of a complex type in the export.
type wireType struct {
	ComplexType                 string           `json:"complex_type"`
	Value                       json.RawMessage  `json:"value,omitempty"`
	Key                         *Type            `json:"key,omitempty"`
	Options                     []*Type          `json:"options,omitempty"`
	FullFormat                  bool             `json:"full_format,omitempty"`
	Parameters                  json.RawMessage  `json:"parameters,omitempty"`
	Values                      []*Type          `json:"values,omitempty"`
	Description                 string           `json:"description,omitempty"`
	Attributes                  []Attribute      `json:"attributes,omitempty"`
	VariantParameterGroups      []ParameterGroup `json:"variant_parameter_groups,omitempty"`
	VariantParameterDescription string           `json:"variant_parameter_description,omitempty"`
}

// UnmarshalJSON accepts either a bare type name or a complex_type object.
func (t *Type) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("decoding type name: %w", err)
		}
		*t = Type{Kind: TypeNamed, Name: name}
		return nil
	}

	var w wireType
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decoding complex type: %w", err)
	}
	if w.ComplexType == "" {
		return fmt.Errorf("decoding complex type: missing complex_type")
	}

	out := Type{
		Kind:                        TypeKind(w.ComplexType),
		Key:                         w.Key,
		Options:                     w.Options,
		FullFormat:                  w.FullFormat,
		Elements:                    w.Values,
		Description:                 w.Description,
		Attributes:                  w.Attributes,
		VariantParameterGroups:      w.VariantParameterGroups,
		VariantParameterDescription: w.VariantParameterDescription,
	}

	if len(w.Value) > 0 {
		if out.Kind == TypeLiteral {
			if err := json.Unmarshal(w.Value, &out.Literal); err != nil {
				return fmt.Errorf("decoding literal value: %w", err)
			}
		} else {
			var v Type
			if err := json.Unmarshal(w.Value, &v); err != nil {
				return fmt.Errorf("decoding %s value: %w", out.Kind, err)
			}
			out.Value = &v
		}
	}

	if len(w.Parameters) > 0 {
		switch out.Kind {
		case TypeFunction:
			if err := json.Unmarshal(w.Parameters, &out.Parameters); err != nil {
				return fmt.Errorf("decoding function parameters: %w", err)
			}
		default:
			if err := json.Unmarshal(w.Parameters, &out.Fields); err != nil {
				return fmt.Errorf("decoding %s parameters: %w", out.Kind, err)
			}
		}
	}

	*t = out
	return nil
}

// MarshalJSON writes the type back in its export form.
func (t Type) MarshalJSON() ([]byte, error) {
	if t.Kind == TypeNamed {
		return json.Marshal(t.Name)
	}

	w := struct {
		ComplexType                 string           `json:"complex_type"`
		Value                       any              `json:"value,omitempty"`
		Key                         *Type            `json:"key,omitempty"`
		Options                     []*Type          `json:"options,omitempty"`
		FullFormat                  bool             `json:"full_format,omitempty"`
		Parameters                  any              `json:"parameters,omitempty"`
		Values                      []*Type          `json:"values,omitempty"`
		Description                 string           `json:"description,omitempty"`
		Attributes                  []Attribute      `json:"attributes,omitempty"`
		VariantParameterGroups      []ParameterGroup `json:"variant_parameter_groups,omitempty"`
		VariantParameterDescription string           `json:"variant_parameter_description,omitempty"`
	}{
		ComplexType:                 string(t.Kind),
		Key:                         t.Key,
		Options:                     t.Options,
		FullFormat:                  t.FullFormat,
		Values:                      t.Elements,
		Description:                 t.Description,
		Attributes:                  t.Attributes,
		VariantParameterGroups:      t.VariantParameterGroups,
		VariantParameterDescription: t.VariantParameterDescription,
	}

	switch {
	case t.Kind == TypeLiteral:
		w.Value = t.Literal
	case t.Value != nil:
		w.Value = t.Value
	}

	switch {
	case len(t.Parameters) > 0:
		w.Parameters = t.Parameters
	case len(t.Fields) > 0:
		w.Parameters = t.Fields
	}

	return json.Marshal(w)
}

// Canonical returns a deterministic encoding of the type with every union's
// options sorted. Two types are structurally equal iff their canonical forms match.
func (t *Type) Canonical() string {
	return t.canonicalString(true)
}

func (t *Type) canonicalString(withOrder bool) string {
	if t == nil {
		return ""
	}
	data, err := json.Marshal(t.canonicalize(withOrder))
	if err != nil {
		// Only unsupported literal values can fail, and decoding never produces them.
		return fmt.Sprintf("%#v", t)
	}
	return string(data)
}

// TypesEqual reports structural equality of two optional type annotations.
// Union option order is not significant; all other lists are order-sensitive.
// The order keys of fields, attributes and variant groups nested in the types
// are ignored.
func TypesEqual(a, b *Type) bool {
	return typesEqual(a, b, false)
}

// TypesEqualOrdered is TypesEqual that also compares nested order keys.
func TypesEqualOrdered(a, b *Type) bool {
	return typesEqual(a, b, true)
}

func typesEqual(a, b *Type, withOrder bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.canonicalString(withOrder) == b.canonicalString(withOrder)
}

// canonicalize returns a copy with union options sorted. Without withOrder the
// order keys of nested entities are zeroed.
func (t *Type) canonicalize(withOrder bool) *Type {
	if t == nil {
		return nil
	}

	c := *t
	c.Value = t.Value.canonicalize(withOrder)
	c.Key = t.Key.canonicalize(withOrder)
	c.Parameters = canonicalTypes(t.Parameters, withOrder)
	c.Elements = canonicalTypes(t.Elements, withOrder)

	if len(t.Options) > 0 {
		type keyed struct {
			key string
			typ *Type
		}
		opts := make([]keyed, len(t.Options))
		for i, o := range t.Options {
			co := o.canonicalize(withOrder)
			data, _ := json.Marshal(co)
			opts[i] = keyed{key: string(data), typ: co}
		}
		sort.SliceStable(opts, func(i, j int) bool { return opts[i].key < opts[j].key })
		c.Options = make([]*Type, len(opts))
		for i, o := range opts {
			c.Options[i] = o.typ
		}
	}

	if len(t.Attributes) > 0 {
		c.Attributes = make([]Attribute, len(t.Attributes))
		for i, a := range t.Attributes {
			a.Type = a.Type.canonicalize(withOrder)
			a.ReadType = a.ReadType.canonicalize(withOrder)
			a.WriteType = a.WriteType.canonicalize(withOrder)
			if !withOrder {
				a.Order = 0
			}
			c.Attributes[i] = a
		}
	}

	c.Fields = canonicalParameters(t.Fields, withOrder)

	if len(t.VariantParameterGroups) > 0 {
		c.VariantParameterGroups = make([]ParameterGroup, len(t.VariantParameterGroups))
		for i, g := range t.VariantParameterGroups {
			g.Parameters = canonicalParameters(g.Parameters, withOrder)
			if !withOrder {
				g.Order = 0
			}
			c.VariantParameterGroups[i] = g
		}
	}

	return &c
}

func canonicalTypes(types []*Type, withOrder bool) []*Type {
	if len(types) == 0 {
		return nil
	}
	out := make([]*Type, len(types))
	for i, t := range types {
		out[i] = t.canonicalize(withOrder)
	}
	return out
}

func canonicalParameters(params []Parameter, withOrder bool) []Parameter {
	if len(params) == 0 {
		return nil
	}
	out := make([]Parameter, len(params))
	for i, p := range params {
		p.Type = p.Type.canonicalize(withOrder)
		if !withOrder {
			p.Order = 0
		}
		out[i] = p
	}
	return out
}

// String renders the type compactly for human-readable output.
func (t *Type) String() string {
	if t == nil {
		return "<none>"
	}

	switch t.Kind {
	case TypeNamed:
		return t.Name
	case TypeWrapper:
		return t.Value.String()
	case TypeArray:
		return "array[" + t.Value.String() + "]"
	case TypeDictionary, TypeCustomTable:
		return fmt.Sprintf("%s[%s → %s]", t.Kind, t.Key.String(), t.Value.String())
	case TypeLazyLoaded:
		return "LuaLazyLoadedValue(" + t.Value.String() + ")"
	case TypeUnion:
		parts := make([]string, len(t.Options))
		for i, o := range t.Options {
			parts[i] = o.String()
		}
		return strings.Join(parts, " | ")
	case TypeFunction:
		parts := make([]string, len(t.Parameters))
		for i, p := range t.Parameters {
			parts[i] = p.String()
		}
		return "function(" + strings.Join(parts, ", ") + ")"
	case TypeLiteral:
		if s, ok := t.Literal.(string); ok {
			return fmt.Sprintf("%q", s)
		}
		return fmt.Sprint(t.Literal)
	case TypeTuple:
		if len(t.Elements) > 0 {
			parts := make([]string, len(t.Elements))
			for i, e := range t.Elements {
				parts[i] = e.String()
			}
			return "tuple[" + strings.Join(parts, ", ") + "]"
		}
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ": " + f.Type.String()
		}
		return "tuple{" + strings.Join(parts, ", ") + "}"
	case TypeTable:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ": " + f.Type.String()
		}
		return string(t.Kind) + "{" + strings.Join(parts, ", ") + "}"
	case TypeStruct:
		parts := make([]string, len(t.Attributes))
		for i, a := range t.Attributes {
			parts[i] = a.Name
		}
		return "LuaStruct{" + strings.Join(parts, ", ") + "}"
	default:
		return string(t.Kind)
	}
}
