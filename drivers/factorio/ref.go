package factorio

import (
	"fmt"
	"strings"

	"github.com/emenda-labs/factdiff/pkg/docversion"
)

// RefKind says where a documentation reference points.
type RefKind string

const (
	RefFile    RefKind = "file"
	RefArchive RefKind = "archive"
	RefRemote  RefKind = "remote"
)

// Reference is a parsed CLI reference to one documentation snapshot.
type Reference struct {
	Kind RefKind
	// Path is the local file for RefFile and RefArchive.
	Path string
	// Member is the archive entry for RefArchive. Empty means the export of the
	// stage being loaded.
	Member string
	// Version is the release number or "latest" for RefRemote.
	Version string
}

func (r Reference) String() string {
	switch r.Kind {
	case RefArchive:
		if r.Member == "" {
			return r.Path
		}
		return r.Path + ":" + r.Member
	case RefRemote:
		return r.Version
	default:
		return r.Path
	}
}

// ParseRef classifies ref. Accepted forms are a ".json" path, a ".zip" path
// (optionally followed by ":member"), "latest", or a version such as "1.1.110".
func ParseRef(ref string) (Reference, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Reference{}, fmt.Errorf("empty documentation reference")
	}

	lower := strings.ToLower(ref)

	if i := strings.LastIndex(lower, ".zip:"); i >= 0 {
		member := ref[i+len(".zip:"):]
		if member == "" {
			return Reference{}, fmt.Errorf("reference %q names an empty archive member", ref)
		}
		return Reference{Kind: RefArchive, Path: ref[:i+len(".zip")], Member: member}, nil
	}

	switch {
	case strings.HasSuffix(lower, ".zip"):
		return Reference{Kind: RefArchive, Path: ref}, nil
	case strings.HasSuffix(lower, ".json"):
		return Reference{Kind: RefFile, Path: ref}, nil
	case lower == docversion.Latest:
		return Reference{Kind: RefRemote, Version: docversion.Latest}, nil
	case docversion.IsValid(ref) && !strings.ContainsAny(ref, `/\`):
		return Reference{Kind: RefRemote, Version: strings.TrimPrefix(ref, "v")}, nil
	}

	return Reference{}, fmt.Errorf("unrecognised documentation reference %q: want a .json or .zip path, a version, or %q", ref, docversion.Latest)
}
