package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

const (
	maxFileSize  = 100 * 1024 * 1024 // 100 MB per member
	maxFileCount = 50000             // maximum number of entries in archive
)

// ErrMemberNotFound is returned when the archive has no entry with the requested name.
var ErrMemberNotFound = errors.New("archive member not found")

// ReadMember returns the contents of one file inside a zip archive.
//
// name is matched against the full entry path first. If no entry has that path,
// the single entry whose base name equals name is used, so "runtime-api.json"
// finds "1.1.110/runtime-api.json". Entries that try to escape the archive root
// and symlinks are never read.
func ReadMember(data []byte, name string) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read zip archive: %w", err)
	}

	if len(reader.File) > maxFileCount {
		return nil, fmt.Errorf("zip archive contains %d files, exceeds maximum of %d", len(reader.File), maxFileCount)
	}

	file, err := findMember(reader.File, name)
	if err != nil {
		return nil, err
	}

	if file.UncompressedSize64 > maxFileSize {
		return nil, fmt.Errorf("file %s exceeds maximum size of %d bytes", file.Name, maxFileSize)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open zip entry %s: %w", file.Name, err)
	}
	defer rc.Close()

	out, err := io.ReadAll(io.LimitReader(rc, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file.Name, err)
	}
	if len(out) > maxFileSize {
		return nil, fmt.Errorf("file %s exceeds maximum size of %d bytes", file.Name, maxFileSize)
	}

	return out, nil
}

func findMember(files []*zip.File, name string) (*zip.File, error) {
	var byBase []*zip.File

	for _, file := range files {
		if file.Mode()&os.ModeSymlink != 0 || file.FileInfo().IsDir() {
			continue
		}
		if unsafePath(file.Name) {
			continue
		}
		if file.Name == name {
			return file, nil
		}
		if path.Base(file.Name) == name {
			byBase = append(byBase, file)
		}
	}

	switch len(byBase) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
	case 1:
		return byBase[0], nil
	default:
		names := make([]string, len(byBase))
		for i, f := range byBase {
			names[i] = f.Name
		}
		return nil, fmt.Errorf("ambiguous archive member %s: matches %s", name, strings.Join(names, ", "))
	}
}

// unsafePath reports entries that would resolve outside the archive root.
func unsafePath(name string) bool {
	if strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return true
	}
	clean := path.Clean(name)
	return clean == ".." || strings.HasPrefix(clean, "../")
}
