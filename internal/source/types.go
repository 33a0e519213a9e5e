package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual marks content that did not come from disk (stdin, tests).
	FileVirtual FileFlags = 1 << iota
	// FileHadBOM marks a file that started with a UTF-8 byte order mark.
	FileHadBOM
	// FileHasCRLF marks a file that uses \r\n line endings somewhere.
	FileHasCRLF
)

// PathStyle selects how File.FormatPath prints a path.
type PathStyle uint8

const (
	PathAsStored PathStyle = iota
	PathAbsolute
	// PathRelative is relative to a base dir; files outside it stay absolute.
	PathRelative
	PathBase
)

// LineCol is a 1-based line and byte column.
type LineCol struct {
	Line uint32
	Col  uint32
}
