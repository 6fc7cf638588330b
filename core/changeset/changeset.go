package changeset

// IsEmpty reports whether the set holds no difference at any level.
// A nil ChangeSet is empty.
func (cs *ChangeSet) IsEmpty() bool {
	if cs == nil {
		return true
	}
	for _, col := range cs.Collections {
		for _, c := range col.Changes {
			if c.Kind != ChangeKindModified {
				return false
			}
			if len(c.Fields) > 0 || !c.Nested.IsEmpty() {
				return false
			}
		}
	}
	return true
}

// Collection returns the changes recorded for the named collection, or nil.
func (cs *ChangeSet) Collection(name string) []Change {
	if cs == nil {
		return nil
	}
	for _, col := range cs.Collections {
		if col.Name == name {
			return col.Changes
		}
	}
	return nil
}

// Added returns the added entries of the named collection.
func (cs *ChangeSet) Added(name string) []Change {
	return cs.ofKind(name, ChangeKindAdded)
}

// Removed returns the removed entries of the named collection.
func (cs *ChangeSet) Removed(name string) []Change {
	return cs.ofKind(name, ChangeKindRemoved)
}

// Modified returns the modified entries of the named collection.
func (cs *ChangeSet) Modified(name string) []Change {
	return cs.ofKind(name, ChangeKindModified)
}

func (cs *ChangeSet) ofKind(name string, kind ChangeKind) []Change {
	var out []Change
	for _, c := range cs.Collection(name) {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the change for the entity with the given name in a collection.
func (cs *ChangeSet) Find(collection, name string) (Change, bool) {
	for _, c := range cs.Collection(collection) {
		if c.Name == name {
			return c, true
		}
	}
	return Change{}, false
}

// Field returns the recorded field change with the given name.
func (c Change) Field(name string) (FieldChange, bool) {
	for _, f := range c.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldChange{}, false
}

// Counts returns per-collection tallies of the top level, in collection order.
func (cs *ChangeSet) Counts() []Counts {
	if cs == nil {
		return nil
	}
	out := make([]Counts, 0, len(cs.Collections))
	for _, col := range cs.Collections {
		n := Counts{Collection: col.Name}
		for _, c := range col.Changes {
			switch c.Kind {
			case ChangeKindAdded:
				n.Added++
			case ChangeKindRemoved:
				n.Removed++
			case ChangeKindModified:
				n.Modified++
			}
		}
		out = append(out, n)
	}
	return out
}

// Path locates a change within the tree: alternating collection and entity names
// from the root, e.g. ["classes", "LuaEntity", "methods", "destroy"].
type Path []string

// WalkFunc is called for every change. Returning false skips the change's
// nested set.
type WalkFunc func(path Path, c Change) bool

// Walk visits every change depth-first in output order.
func (cs *ChangeSet) Walk(fn WalkFunc) {
	cs.walk(nil, fn)
}

func (cs *ChangeSet) walk(prefix Path, fn WalkFunc) {
	if cs == nil {
		return
	}
	for _, col := range cs.Collections {
		for _, c := range col.Changes {
			path := make(Path, len(prefix), len(prefix)+2)
			copy(path, prefix)
			path = append(path, col.Name, c.Name)
			if fn(path, c) {
				c.Nested.walk(path, fn)
			}
		}
	}
}
