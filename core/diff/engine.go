// Package diff compares two documentation snapshots and produces a change set.
//
// Entities are matched by name at every level of nesting (document collections,
// class members, parameters, define subkeys, ...). For each matched pair the
// scalar fields are compared one by one and child collections are compared
// recursively. Matched pairs without any difference are left out of the result.
package diff

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/emenda-labs/factdiff/core/changeset"
	"github.com/emenda-labs/factdiff/core/docmodel"
)

// Options control what the engine treats as a difference.
type Options struct {
	// IgnoreTypeAnnotations drops every type annotation from the comparison, so
	// entities that differ only in declared types count as unchanged.
	IgnoreTypeAnnotations bool

	// CompareOrder includes the presentation order key of each entity.
	CompareOrder bool

	// Parallel diffs the top-level collections concurrently. The result is
	// identical to a sequential run.
	Parallel bool
}

type engine struct {
	opts Options
}

// Diff compares old against new. It only reads its inputs. The sole error it
// returns is a *SchemaMismatchError when the documents disagree on shape.
func Diff(old, new *docmodel.Document, opts Options) (*changeset.ChangeSet, error) {
	if err := checkShape(old, new); err != nil {
		return nil, err
	}

	e := &engine{opts: opts}
	oldCols := documentCollections(old)
	newCols := documentCollections(new)
	results := make([]changeset.Collection, len(oldCols))

	if opts.Parallel {
		var g errgroup.Group
		for i := range oldCols {
			g.Go(func() error {
				results[i] = e.diffCollection(oldCols[i], newCols[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("diffing collections: %w", err)
		}
	} else {
		for i := range oldCols {
			results[i] = e.diffCollection(oldCols[i], newCols[i])
		}
	}

	return assemble(results), nil
}

// checkShape rejects document pairs that cannot be compared meaningfully.
func checkShape(old, new *docmodel.Document) error {
	if old == nil || new == nil {
		return &SchemaMismatchError{Field: "document", Reason: "missing document"}
	}
	if old.Application != new.Application {
		return &SchemaMismatchError{
			Field:  "application",
			Reason: fmt.Sprintf("%q vs %q", old.Application, new.Application),
		}
	}
	if old.Stage != new.Stage {
		return &SchemaMismatchError{
			Field:  "stage",
			Reason: fmt.Sprintf("%q vs %q", old.Stage, new.Stage),
		}
	}

	oldReq := requiredCollections(old)
	newReq := requiredCollections(new)
	for i := range oldReq {
		if oldReq[i].present == newReq[i].present {
			continue
		}
		side := "new"
		if !oldReq[i].present {
			side = "old"
		}
		return &SchemaMismatchError{
			Field:  oldReq[i].name,
			Reason: "collection absent from " + side + " document",
		}
	}

	return nil
}

// diffCollection runs the matcher on one collection and emits removed, added and
// modified entries, in that order.
func (e *engine) diffCollection(old, new collection) changeset.Collection {
	m := Match(old.items, new.items)
	out := changeset.Collection{Name: old.name, Entity: old.entity}

	for _, r := range m.Removed {
		out.Changes = append(out.Changes, changeset.Change{
			Kind:     changeset.ChangeKindRemoved,
			Entity:   r.kind(),
			Name:     r.Key(),
			Snapshot: r.snapshot(),
		})
	}

	for _, a := range m.Added {
		out.Changes = append(out.Changes, changeset.Change{
			Kind:     changeset.ChangeKindAdded,
			Entity:   a.kind(),
			Name:     a.Key(),
			Snapshot: a.snapshot(),
		})
	}

	for _, p := range m.Matched {
		if c, ok := e.compare(p.Old, p.New); ok {
			out.Changes = append(out.Changes, c)
		}
	}

	return out
}

// compare reports a Modified change for a matched pair, or false when the pair
// has no difference at any level.
func (e *engine) compare(old, new entity) (changeset.Change, bool) {
	fields := e.diffFields(old.fields(), new.fields())
	nested := e.diffChildren(old.children(), new.children())

	if len(fields) == 0 && nested == nil {
		return changeset.Change{}, false
	}

	return changeset.Change{
		Kind:   changeset.ChangeKindModified,
		Entity: old.kind(),
		Name:   old.Key(),
		Fields: fields,
		Nested: nested,
	}, true
}

func (e *engine) includes(f field) bool {
	switch f.class {
	case fieldType:
		return !e.opts.IgnoreTypeAnnotations
	case fieldOrder:
		return e.opts.CompareOrder
	default:
		return true
	}
}

// diffFields compares fields by name. Fields present on one side only (an
// operator changing form) are reported against nil unless they hold a zero value.
func (e *engine) diffFields(old, new []field) []changeset.FieldChange {
	newByName := make(map[string]field, len(new))
	for _, f := range new {
		newByName[f.name] = f
	}

	var out []changeset.FieldChange
	seen := make(map[string]bool, len(old))

	for _, of := range old {
		seen[of.name] = true
		if !e.includes(of) {
			continue
		}
		nf, ok := newByName[of.name]
		if !ok {
			if !isZero(of.value) {
				out = append(out, changeset.FieldChange{Field: of.name, Old: of.value})
			}
			continue
		}
		if !e.equalValues(of.value, nf.value) {
			out = append(out, changeset.FieldChange{Field: of.name, Old: of.value, New: nf.value})
		}
	}

	for _, nf := range new {
		if seen[nf.name] || !e.includes(nf) {
			continue
		}
		if !isZero(nf.value) {
			out = append(out, changeset.FieldChange{Field: nf.name, New: nf.value})
		}
	}

	return out
}

// diffChildren recurses into the child collections of a matched pair. It returns
// nil when no child changed.
func (e *engine) diffChildren(old, new []collection) *changeset.ChangeSet {
	if len(old) == 0 && len(new) == 0 {
		return nil
	}

	newByName := make(map[string]collection, len(new))
	for _, c := range new {
		newByName[c.name] = c
	}

	var results []changeset.Collection
	seen := make(map[string]bool, len(old))

	for _, oc := range old {
		seen[oc.name] = true
		nc, ok := newByName[oc.name]
		if !ok {
			nc = collection{name: oc.name, entity: oc.entity}
		}
		results = append(results, e.diffCollection(oc, nc))
	}

	for _, nc := range new {
		if seen[nc.name] {
			continue
		}
		results = append(results, e.diffCollection(collection{name: nc.name, entity: nc.entity}, nc))
	}

	cs := assemble(results)
	if len(cs.Collections) == 0 {
		return nil
	}
	return cs
}

// assemble keeps only collections that recorded a change.
func assemble(results []changeset.Collection) *changeset.ChangeSet {
	cs := &changeset.ChangeSet{Collections: []changeset.Collection{}}
	for _, r := range results {
		if len(r.Changes) > 0 {
			cs.Collections = append(cs.Collections, r)
		}
	}
	return cs
}
