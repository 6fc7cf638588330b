package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	fcolor "github.com/fatih/color"

	"github.com/emenda-labs/factdiff/core/changeset"
	"github.com/emenda-labs/factdiff/core/docmodel"
)

const indentUnit = "  "

type palette struct {
	added, removed, modified, heading, faint *fcolor.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		added:    fcolor.New(fcolor.FgGreen),
		removed:  fcolor.New(fcolor.FgRed),
		modified: fcolor.New(fcolor.FgYellow),
		heading:  fcolor.New(fcolor.Bold),
		faint:    fcolor.New(fcolor.Faint),
	}
	for _, c := range []*fcolor.Color{p.added, p.removed, p.modified, p.heading, p.faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func header(i DocumentInfo) string {
	return fmt.Sprintf("%s @ %s: %s", i.Application, i.Version, i.Stage)
}

// writeText renders the change tree with +, - and ~ markers, one entity per
// line, nested collections indented under their owner.
func writeText(w io.Writer, r Report, opts Options) error {
	bw := bufio.NewWriter(w)
	p := newPalette(opts.Color)

	p.heading.Fprintf(bw, "%s -> %s\n", header(r.Source), header(r.Target))

	if r.Changes.IsEmpty() {
		fmt.Fprintln(bw, "no differences")
		return bw.Flush()
	}

	writeSet(bw, p, r.Changes, 0)
	return bw.Flush()
}

func writeSet(w io.Writer, p palette, cs *changeset.ChangeSet, depth int) {
	pad := strings.Repeat(indentUnit, depth)
	for _, col := range cs.Collections {
		p.heading.Fprintf(w, "%s%s\n", pad, col.Name)
		for _, c := range col.Changes {
			writeChange(w, p, c, depth+1)
		}
	}
}

func writeChange(w io.Writer, p palette, c changeset.Change, depth int) {
	pad := strings.Repeat(indentUnit, depth)

	switch c.Kind {
	case changeset.ChangeKindAdded:
		p.added.Fprintf(w, "%s+ %s\n", pad, c.Name)
	case changeset.ChangeKindRemoved:
		p.removed.Fprintf(w, "%s- %s\n", pad, c.Name)
	case changeset.ChangeKindModified:
		p.modified.Fprintf(w, "%s~ %s\n", pad, c.Name)
		fieldPad := pad + indentUnit + indentUnit
		for _, f := range c.Fields {
			old, new := FormatFieldChange(f)
			fmt.Fprintf(w, "%s%s: %s ", fieldPad, f.Field, old)
			p.faint.Fprint(w, "->")
			fmt.Fprintf(w, " %s\n", new)
		}
		if c.Nested != nil {
			writeSet(w, p, c.Nested, depth+2)
		}
	}
}

// FormatFieldChange renders both sides of a field change. When the compact
// renderings coincide, because the difference lies in descriptions, order keys
// or optionality, both sides are rendered in full.
func FormatFieldChange(f changeset.FieldChange) (old, new string) {
	old, new = FormatValue(f.Old), FormatValue(f.New)
	if old == new {
		old, new = formatDetailed(f.Old), formatDetailed(f.New)
	}
	return old, new
}

func formatDetailed(v any) string {
	if t, ok := v.(*docmodel.Type); ok {
		if t == nil {
			return "<none>"
		}
		return t.Canonical()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}

// FormatValue renders a field value compactly for text output.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "<none>"
	case string:
		return fmt.Sprintf("%q", x)
	case []string:
		return "[" + strings.Join(x, ", ") + "]"
	case *bool:
		if x == nil {
			return "<none>"
		}
		return fmt.Sprint(*x)
	case *uint64:
		if x == nil {
			return "<none>"
		}
		return fmt.Sprint(*x)
	case *docmodel.Type:
		return x.String()
	case []docmodel.ReturnValue:
		parts := make([]string, len(x))
		for i, rv := range x {
			parts[i] = rv.Type.String()
			if rv.Optional {
				parts[i] += "?"
			}
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return fmt.Sprint(v)
	}
}

// writeSummary prints per-collection counts.
func writeSummary(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s -> %s\n", header(r.Source), header(r.Target))

	counts := r.Changes.Counts()
	total := 0
	for _, n := range counts {
		total += n.Total()
		fmt.Fprintf(bw, "=> %d %s changed (+%d -%d ~%d)\n", n.Total(), n.Collection, n.Added, n.Removed, n.Modified)
	}
	if total == 0 {
		fmt.Fprintln(bw, "=> no differences")
	}

	return bw.Flush()
}
