package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"golang.org/x/text/unicode/norm"
)

// FileSet owns every file of a build. It is safe for concurrent use, so
// parallel builds can share one set. Ids start at 1; a zero FileID means
// "no file" (I/O and configuration diagnostics).
type FileSet struct {
	mu    sync.RWMutex
	files []*File
	index map[string]FileID // path -> latest id
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{files: make([]*File, 1), index: make(map[string]FileID)}
}

// Add stores already-normalized content under a new FileID. Adding the same
// path twice yields two ids; GetLatest returns the newer one.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", path, err))
	}
	path = filepath.ToSlash(filepath.Clean(path))

	fs.mu.Lock()
	defer fs.mu.Unlock()
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, &File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: indexLines(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[path] = id
	return id
}

// Load reads path from disk and normalizes it: BOM stripped, CRLF folded and
// the text converted to Unicode NFC, so spans always refer to the stored bytes.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := Normalize(content)
	return fs.Add(path, content, flags), nil
}

// AddVirtual adds in-memory content (stdin, tests) with the same normalization as Load.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := Normalize(content)
	return fs.Add(name, content, flags|FileVirtual)
}

// Normalize applies the load-time normalization and reports what changed.
func Normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	content, bom := stripBOM(content)
	if bom {
		flags |= FileHadBOM
	}
	content, crlf := foldCRLF(content)
	if crlf {
		flags |= FileNormalizedCRLF
	}
	if !norm.NFC.IsNormal(content) {
		content = norm.NFC.Bytes(content)
		flags |= FileNormalizedNFC
	}
	return content, flags
}

// Get returns the file for id, or nil for NoFile. It panics on an id this
// set never issued.
func (fs *FileSet) Get(id FileID) *File {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.files[id]
}

// GetLatest returns the newest id registered for path.
func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	id, ok := fs.index[filepath.ToSlash(filepath.Clean(path))]
	return id, ok
}

// Resolve converts a span into start and end positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.Position(span.Start), f.Position(span.End)
}

// Snippet returns the bytes covered by span, clamped to the file.
func (fs *FileSet) Snippet(span Span) string {
	f := fs.Get(span.File)
	if f == nil {
		return ""
	}
	size := uint32(len(f.Content)) // #nosec G115 -- checked in Add
	start, end := min(span.Start, size), min(span.End, size)
	if start > end {
		return ""
	}
	return string(bytes.TrimSpace(f.Content[start:end]))
}
