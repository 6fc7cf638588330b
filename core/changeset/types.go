// Package changeset defines the structured result of diffing two documentation
// snapshots: a tree of added, removed and modified entities that mirrors the
// document hierarchy and holds only paths where something differs.
package changeset

// ChangeKind represents the type of change made to an entity.
type ChangeKind string

const (
	ChangeKindAdded    ChangeKind = "added"
	ChangeKindRemoved  ChangeKind = "removed"
	ChangeKindModified ChangeKind = "modified"
)

// EntityKind names the kind of documented entity a change refers to.
type EntityKind string

const (
	EntityClass          EntityKind = "class"
	EntityMethod         EntityKind = "method"
	EntityAttribute      EntityKind = "attribute"
	EntityOperator       EntityKind = "operator"
	EntityEvent          EntityKind = "event"
	EntityDefine         EntityKind = "define"
	EntityDefineValue    EntityKind = "define_value"
	EntityBuiltinType    EntityKind = "builtin_type"
	EntityConcept        EntityKind = "concept"
	EntityGlobalObject   EntityKind = "global_object"
	EntityGlobalFunction EntityKind = "global_function"
	EntityParameter      EntityKind = "parameter"
	EntityParameterGroup EntityKind = "parameter_group"
	EntityRaisedEvent    EntityKind = "raised_event"

	EntityPrototype   EntityKind = "prototype"
	EntityTypeConcept EntityKind = "type"
	EntityProperty    EntityKind = "property"
)

// Names of the top-level collections, in document order.
const (
	CollectionClasses         = "classes"
	CollectionEvents          = "events"
	CollectionDefines         = "defines"
	CollectionBuiltinTypes    = "builtin_types"
	CollectionConcepts        = "concepts"
	CollectionGlobalObjects   = "global_objects"
	CollectionGlobalFunctions = "global_functions"

	// Prototype-stage collections. Defines are shared with the runtime stage.
	CollectionPrototypes = "prototypes"
	CollectionTypes      = "types"
)

// FieldChange is a single scalar field that differs between two matched entities.
type FieldChange struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// Change is one node of the change tree.
//
// Added carries the new entity in Snapshot, Removed the old one. Modified carries
// the differing scalar fields and, for entities with child collections, a nested
// ChangeSet holding only the children that changed.
type Change struct {
	Kind     ChangeKind    `json:"kind"`
	Entity   EntityKind    `json:"entity"`
	Name     string        `json:"name"`
	Snapshot any           `json:"snapshot,omitempty"`
	Fields   []FieldChange `json:"fields,omitempty"`
	Nested   *ChangeSet    `json:"nested,omitempty"`
}

// Collection groups the changes of one named collection. Changes are ordered
// removed first (old order), then added (new order), then modified (old order).
type Collection struct {
	Name    string     `json:"name"`
	Entity  EntityKind `json:"entity"`
	Changes []Change   `json:"changes"`
}

// ChangeSet is the full set of differences at one level of the document.
// Collections without changes are omitted. A ChangeSet must not be modified
// once returned by the engine.
type ChangeSet struct {
	Collections []Collection `json:"collections"`
}

// Counts tallies the changes of one collection.
type Counts struct {
	Collection string `json:"collection"`
	Added      int    `json:"added"`
	Removed    int    `json:"removed"`
	Modified   int    `json:"modified"`
}

// Total returns the number of changed entities in the collection.
func (c Counts) Total() int {
	return c.Added + c.Removed + c.Modified
}
