package diff

import (
	"github.com/emenda-labs/factdiff/core/changeset"
	"github.com/emenda-labs/factdiff/core/docmodel"
)

// fieldClass decides which options gate a field.
type fieldClass int

const (
	fieldPlain fieldClass = iota
	// fieldType is a type annotation, dropped under IgnoreTypeAnnotations.
	fieldType
	// fieldOrder is the presentation sort key, compared only under CompareOrder.
	fieldOrder
)

type field struct {
	name  string
	value any
	class fieldClass
}

// collection is one named child collection of an entity (or of the document).
type collection struct {
	name   string
	entity changeset.EntityKind
	items  []entity
}

// entity is the uniform view the engine has of every documented node. Each kind
// lists its scalar fields and its child collections in a fixed order.
type entity interface {
	Keyed
	kind() changeset.EntityKind
	fields() []field
	children() []collection
	snapshot() any
}

func wrap[T any](name string, kind changeset.EntityKind, items []T, fn func(T) entity) collection {
	out := make([]entity, len(items))
	for i, it := range items {
		out[i] = fn(it)
	}
	return collection{name: name, entity: kind, items: out}
}

func commonFields(c docmodel.Common) []field {
	return []field{
		{name: "description", value: c.Description},
		{name: "order", value: c.Order, class: fieldOrder},
	}
}

func extendedFields(e docmodel.Extended) []field {
	return append(commonFields(e.Common),
		field{name: "notes", value: e.Notes},
		field{name: "examples", value: e.Examples},
		field{name: "visibility", value: e.Visibility},
		field{name: "deprecated", value: e.Deprecated},
	)
}

// documentCollections lists the top-level collections of the document's stage,
// in document order.
func documentCollections(d *docmodel.Document) []collection {
	if d.Stage == docmodel.StagePrototype {
		return []collection{
			wrap(changeset.CollectionPrototypes, changeset.EntityPrototype, d.Prototypes, newPrototype),
			wrap(changeset.CollectionTypes, changeset.EntityTypeConcept, d.Types, newTypeConcept),
			wrap(changeset.CollectionDefines, changeset.EntityDefine, d.Defines, newDefine),
		}
	}

	return []collection{
		wrap(changeset.CollectionClasses, changeset.EntityClass, d.Classes, newClass),
		wrap(changeset.CollectionEvents, changeset.EntityEvent, d.Events, newEvent),
		wrap(changeset.CollectionDefines, changeset.EntityDefine, d.Defines, newDefine),
		wrap(changeset.CollectionBuiltinTypes, changeset.EntityBuiltinType, d.BuiltinTypes, newCommon(changeset.EntityBuiltinType)),
		wrap(changeset.CollectionConcepts, changeset.EntityConcept, d.Concepts, newConcept),
		wrap(changeset.CollectionGlobalObjects, changeset.EntityGlobalObject, d.GlobalObjects, newGlobalObject),
		wrap(changeset.CollectionGlobalFunctions, changeset.EntityGlobalFunction, d.GlobalFunctions, newMethod(changeset.EntityGlobalFunction)),
	}
}

type presence struct {
	name    string
	present bool
}

// requiredCollections reports, per top-level collection of the document's
// stage, whether it is present.
func requiredCollections(d *docmodel.Document) []presence {
	if d.Stage == docmodel.StagePrototype {
		return []presence{
			{changeset.CollectionPrototypes, d.Prototypes != nil},
			{changeset.CollectionTypes, d.Types != nil},
			{changeset.CollectionDefines, d.Defines != nil},
		}
	}

	return []presence{
		{changeset.CollectionClasses, d.Classes != nil},
		{changeset.CollectionEvents, d.Events != nil},
		{changeset.CollectionDefines, d.Defines != nil},
		{changeset.CollectionBuiltinTypes, d.BuiltinTypes != nil},
		{changeset.CollectionConcepts, d.Concepts != nil},
		{changeset.CollectionGlobalObjects, d.GlobalObjects != nil},
		{changeset.CollectionGlobalFunctions, d.GlobalFunctions != nil},
	}
}

// Class

type classEntity struct{ docmodel.Class }

func newClass(c docmodel.Class) entity { return classEntity{c} }

func (e classEntity) kind() changeset.EntityKind { return changeset.EntityClass }
func (e classEntity) snapshot() any              { return e.Class }

func (e classEntity) fields() []field {
	return append(extendedFields(e.Extended),
		field{name: "abstract", value: e.Abstract},
		field{name: "base_classes", value: e.BaseClasses},
	)
}

func (e classEntity) children() []collection {
	return []collection{
		wrap("methods", changeset.EntityMethod, e.Methods, newMethod(changeset.EntityMethod)),
		wrap("attributes", changeset.EntityAttribute, e.Attributes, newAttribute),
		wrap("operators", changeset.EntityOperator, e.Operators, newOperator),
	}
}

// Method

type methodEntity struct {
	docmodel.Method
	entityKind changeset.EntityKind
}

func newMethod(kind changeset.EntityKind) func(docmodel.Method) entity {
	return func(m docmodel.Method) entity { return methodEntity{Method: m, entityKind: kind} }
}

func (e methodEntity) kind() changeset.EntityKind { return e.entityKind }
func (e methodEntity) snapshot() any              { return e.Method }

func (e methodEntity) fields() []field {
	return append(extendedFields(e.Extended),
		field{name: "subclasses", value: e.Subclasses},
		field{name: "takes_table", value: e.TakesTable},
		field{name: "table_is_optional", value: e.TableIsOptional},
		field{name: "variant_parameter_description", value: e.VariantParameterDescription},
		field{name: "variadic_type", value: e.VariadicType, class: fieldType},
		field{name: "variadic_description", value: e.VariadicDescription},
		field{name: "return_values", value: e.ReturnValues},
	)
}

func (e methodEntity) children() []collection {
	return []collection{
		wrap("parameters", changeset.EntityParameter, e.Parameters, newParameter),
		wrap("variant_parameter_groups", changeset.EntityParameterGroup, e.VariantParameterGroups, newParameterGroup),
		wrap("raises", changeset.EntityRaisedEvent, e.Raises, newRaisedEvent),
	}
}

// Attribute

type attributeEntity struct{ docmodel.Attribute }

func newAttribute(a docmodel.Attribute) entity { return attributeEntity{a} }

func (e attributeEntity) kind() changeset.EntityKind { return changeset.EntityAttribute }
func (e attributeEntity) snapshot() any              { return e.Attribute }

func (e attributeEntity) fields() []field {
	return append(extendedFields(e.Extended),
		field{name: "subclasses", value: e.Subclasses},
		field{name: "type", value: e.Type, class: fieldType},
		field{name: "read_type", value: e.ReadType, class: fieldType},
		field{name: "write_type", value: e.WriteType, class: fieldType},
		field{name: "optional", value: e.Optional},
		field{name: "read", value: e.Read},
		field{name: "write", value: e.Write},
	)
}

func (e attributeEntity) children() []collection {
	return []collection{
		wrap("raises", changeset.EntityRaisedEvent, e.Raises, newRaisedEvent),
	}
}

// Operator delegates to the form it is documented in. When the form changes
// between versions the fields of both forms are compared by name, so fields
// only one form has are reported against an absent value.

type operatorEntity struct{ docmodel.Operator }

func newOperator(o docmodel.Operator) entity { return operatorEntity{o} }

func (e operatorEntity) kind() changeset.EntityKind { return changeset.EntityOperator }
func (e operatorEntity) snapshot() any              { return e.Operator }

func (e operatorEntity) form() entity {
	switch {
	case e.Method != nil:
		return newMethod(changeset.EntityOperator)(*e.Method)
	case e.Attribute != nil:
		return newAttribute(*e.Attribute)
	default:
		return nil
	}
}

func (e operatorEntity) fields() []field {
	out := []field{{name: "form", value: e.Form}}
	if f := e.form(); f != nil {
		out = append(out, f.fields()...)
	}
	return out
}

func (e operatorEntity) children() []collection {
	if f := e.form(); f != nil {
		return f.children()
	}
	return nil
}

// Event

type eventEntity struct{ docmodel.Event }

func newEvent(ev docmodel.Event) entity { return eventEntity{ev} }

func (e eventEntity) kind() changeset.EntityKind { return changeset.EntityEvent }
func (e eventEntity) snapshot() any              { return e.Event }
func (e eventEntity) fields() []field            { return extendedFields(e.Extended) }

func (e eventEntity) children() []collection {
	return []collection{
		wrap("data", changeset.EntityParameter, e.Data, newParameter),
	}
}

// Define

type defineEntity struct{ docmodel.Define }

func newDefine(d docmodel.Define) entity { return defineEntity{d} }

func (e defineEntity) kind() changeset.EntityKind { return changeset.EntityDefine }
func (e defineEntity) snapshot() any              { return e.Define }
func (e defineEntity) fields() []field            { return commonFields(e.Common) }

func (e defineEntity) children() []collection {
	return []collection{
		wrap("values", changeset.EntityDefineValue, e.Values, newCommon(changeset.EntityDefineValue)),
		wrap("subkeys", changeset.EntityDefine, e.Subkeys, newDefine),
	}
}

// Define values and builtin types carry only the common fields.

type commonEntity struct {
	docmodel.Common
	entityKind changeset.EntityKind
}

func newCommon(kind changeset.EntityKind) func(docmodel.Common) entity {
	return func(c docmodel.Common) entity { return commonEntity{Common: c, entityKind: kind} }
}

func (e commonEntity) kind() changeset.EntityKind { return e.entityKind }
func (e commonEntity) snapshot() any              { return e.Common }
func (e commonEntity) fields() []field            { return commonFields(e.Common) }
func (e commonEntity) children() []collection     { return nil }

// Concept

type conceptEntity struct{ docmodel.Concept }

func newConcept(c docmodel.Concept) entity { return conceptEntity{c} }

func (e conceptEntity) kind() changeset.EntityKind { return changeset.EntityConcept }
func (e conceptEntity) snapshot() any              { return e.Concept }
func (e conceptEntity) children() []collection     { return nil }

func (e conceptEntity) fields() []field {
	return append(extendedFields(e.Extended),
		field{name: "type", value: e.Type, class: fieldType},
	)
}

// Global object

type globalObjectEntity struct{ docmodel.GlobalObject }

func newGlobalObject(g docmodel.GlobalObject) entity { return globalObjectEntity{g} }

func (e globalObjectEntity) kind() changeset.EntityKind { return changeset.EntityGlobalObject }
func (e globalObjectEntity) snapshot() any              { return e.GlobalObject }
func (e globalObjectEntity) children() []collection     { return nil }

func (e globalObjectEntity) fields() []field {
	return append(commonFields(e.Common),
		field{name: "type", value: e.Type, class: fieldType},
	)
}

// Parameter

type parameterEntity struct{ docmodel.Parameter }

func newParameter(p docmodel.Parameter) entity { return parameterEntity{p} }

func (e parameterEntity) kind() changeset.EntityKind { return changeset.EntityParameter }
func (e parameterEntity) snapshot() any              { return e.Parameter }
func (e parameterEntity) children() []collection     { return nil }

func (e parameterEntity) fields() []field {
	return append(commonFields(e.Common),
		field{name: "type", value: e.Type, class: fieldType},
		field{name: "optional", value: e.Optional},
	)
}

// Parameter group

type parameterGroupEntity struct{ docmodel.ParameterGroup }

func newParameterGroup(g docmodel.ParameterGroup) entity { return parameterGroupEntity{g} }

func (e parameterGroupEntity) kind() changeset.EntityKind { return changeset.EntityParameterGroup }
func (e parameterGroupEntity) snapshot() any              { return e.ParameterGroup }
func (e parameterGroupEntity) fields() []field            { return commonFields(e.Common) }

func (e parameterGroupEntity) children() []collection {
	return []collection{
		wrap("parameters", changeset.EntityParameter, e.Parameters, newParameter),
	}
}

// Raised event

type raisedEventEntity struct{ docmodel.RaisedEvent }

func newRaisedEvent(r docmodel.RaisedEvent) entity { return raisedEventEntity{r} }

func (e raisedEventEntity) kind() changeset.EntityKind { return changeset.EntityRaisedEvent }
func (e raisedEventEntity) snapshot() any              { return e.RaisedEvent }
func (e raisedEventEntity) children() []collection     { return nil }

func (e raisedEventEntity) fields() []field {
	return append(commonFields(e.Common),
		field{name: "timeframe", value: e.Timeframe},
		field{name: "optional", value: e.Optional},
	)
}

// Prototype-stage entities

func documentedFields(d docmodel.Documented) []field {
	return append(commonFields(d.Common),
		field{name: "lists", value: d.Lists},
		field{name: "examples", value: d.Examples},
		field{name: "images", value: d.Images},
	)
}

// customPropertyFields flattens the optional custom properties block into
// prefixed fields, so a block appearing or disappearing reports what it holds.
func customPropertyFields(cp *docmodel.CustomProperties) []field {
	var c docmodel.CustomProperties
	if cp != nil {
		c = *cp
	}
	return []field{
		{name: "custom_properties.description", value: c.Description},
		{name: "custom_properties.lists", value: c.Lists},
		{name: "custom_properties.examples", value: c.Examples},
		{name: "custom_properties.images", value: c.Images},
		{name: "custom_properties.key_type", value: c.KeyType, class: fieldType},
		{name: "custom_properties.value_type", value: c.ValueType, class: fieldType},
	}
}

type prototypeEntity struct{ docmodel.Prototype }

func newPrototype(p docmodel.Prototype) entity { return prototypeEntity{p} }

func (e prototypeEntity) kind() changeset.EntityKind { return changeset.EntityPrototype }
func (e prototypeEntity) snapshot() any              { return e.Prototype }

func (e prototypeEntity) fields() []field {
	out := append(documentedFields(e.Documented),
		field{name: "visibility", value: e.Visibility},
		field{name: "parent", value: e.Parent},
		field{name: "abstract", value: e.Abstract},
		field{name: "typename", value: e.Typename},
		field{name: "instance_limit", value: e.InstanceLimit},
		field{name: "deprecated", value: e.Deprecated},
	)
	return append(out, customPropertyFields(e.CustomProperties)...)
}

func (e prototypeEntity) children() []collection {
	return []collection{
		wrap("properties", changeset.EntityProperty, e.Properties, newProperty),
	}
}

type typeConceptEntity struct{ docmodel.TypeConcept }

func newTypeConcept(t docmodel.TypeConcept) entity { return typeConceptEntity{t} }

func (e typeConceptEntity) kind() changeset.EntityKind { return changeset.EntityTypeConcept }
func (e typeConceptEntity) snapshot() any              { return e.TypeConcept }

func (e typeConceptEntity) fields() []field {
	return append(documentedFields(e.Documented),
		field{name: "parent", value: e.Parent},
		field{name: "abstract", value: e.Abstract},
		field{name: "inline", value: e.Inline},
		field{name: "type", value: e.Type, class: fieldType},
	)
}

func (e typeConceptEntity) children() []collection {
	return []collection{
		wrap("properties", changeset.EntityProperty, e.Properties, newProperty),
	}
}

type propertyEntity struct{ docmodel.Property }

func newProperty(p docmodel.Property) entity { return propertyEntity{p} }

func (e propertyEntity) kind() changeset.EntityKind { return changeset.EntityProperty }
func (e propertyEntity) snapshot() any              { return e.Property }
func (e propertyEntity) children() []collection     { return nil }

func (e propertyEntity) fields() []field {
	return append(documentedFields(e.Documented),
		field{name: "visibility", value: e.Visibility},
		field{name: "alt_name", value: e.AltName},
		field{name: "override", value: e.Override},
		field{name: "type", value: e.Type, class: fieldType},
		field{name: "optional", value: e.Optional},
		field{name: "default", value: e.Default},
	)
}
