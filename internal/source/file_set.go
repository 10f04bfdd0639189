package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages the collection of annotation files seen by one checker run.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file from bytes, computes the line index and hash, and
// returns a new FileID. A repeated path gets a fresh FileID.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    filepath.ToSlash(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.index[filepath.ToSlash(path)] = id
	return id
}

// AddVirtual registers in-memory content (tests, stdin).
func (fs *FileSet) AddVirtual(path string, content []byte) FileID {
	return fs.Add(path, content, FileVirtual)
}

// Load reads a file from disk and registers it.
func (fs *FileSet) Load(path string) (FileID, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fs.Add(path, content, 0), nil
}

// Get returns the file record or nil for an unknown ID.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// Lookup finds a previously added file by path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[filepath.ToSlash(path)]
	return id, ok
}

// Len reports the number of registered files.
func (fs *FileSet) Len() int {
	return len(fs.files)
}

// Position converts a span start offset into a 1-based line/column pair.
func (fs *FileSet) Position(sp Span) LineCol {
	file := fs.Get(sp.File)
	if file == nil {
		return LineCol{Line: 1, Col: 1}
	}
	return toLineCol(file.LineIdx, sp.Start)
}

// Line returns the raw text of the 1-based line containing the offset.
func (fs *FileSet) Line(sp Span) []byte {
	file := fs.Get(sp.File)
	if file == nil {
		return nil
	}
	start := uint32(0)
	lc := toLineCol(file.LineIdx, sp.Start)
	if lc.Line > 1 {
		start = file.LineIdx[lc.Line-2] + 1
	}
	end := uint32(len(file.Content))
	if int(lc.Line-1) < len(file.LineIdx) {
		end = file.LineIdx[lc.Line-1]
	}
	return file.Content[start:end]
}

func buildLineIndex(content []byte) []uint32 {
	var out []uint32
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

// toLineCol переводит байтовый офсет в 1-based строку/колонку.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := (lo + hi) / 2
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line := uint32(lo) + 1
	col := off + 1
	if lo > 0 {
		col = off - lineIdx[lo-1]
	}
	return LineCol{Line: line, Col: col}
}
