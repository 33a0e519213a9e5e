package source

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileSet owns every file of a run and maps spans back to positions.
// Add is not safe for concurrent use: the driver loads all files up front
// and then shares the set read-only between workers.
type FileSet struct {
	files   []File
	latest  map[string]FileID
	baseDir string // for relative paths; empty means the working directory
}

func NewFileSet() *FileSet {
	return NewFileSetWithBase("")
}

func NewFileSetWithBase(baseDir string) *FileSet {
	return &FileSet{latest: make(map[string]FileID), baseDir: baseDir}
}

func (fs *FileSet) SetBaseDir(dir string) { fs.baseDir = dir }

// BaseDir returns the directory relative paths are computed against.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func (fs *FileSet) Len() int { return len(fs.files) }

// Add stores content under path and returns a fresh FileID. Adding the same
// path twice keeps both versions; GetLatest returns the newer one.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file set full: %w", err))
	}
	if bytes.HasPrefix(content, utf8BOM) {
		flags |= FileHadBOM
	}
	if bytes.Contains(content, []byte("\r\n")) {
		flags |= FileHasCRLF
	}
	id := FileID(n)
	key := cleanPath(path)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    key,
		Content: content,
		LineIdx: newlineOffsets(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	})
	fs.latest[key] = id
	return id
}

// Load reads path from disk and adds it unchanged.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path comes from file discovery
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		return 0, fmt.Errorf("%s: file too large: %w", path, err)
	}
	return fs.Add(path, content, 0), nil
}

// AddVirtual adds content that has no file on disk, such as stdin.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

// Get returns the file for id, or nil when the ID is unknown.
func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

func (fs *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fs.latest[cleanPath(path)]
	return id, ok
}

// Resolve converts both ends of span into line and column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.Position(span.Start), f.Position(span.End)
}
