package diagfmt

import (
	"path/filepath"

	"recast/internal/source"
)

// autoPathLimit is the longest path PathModeAuto prints unchanged.
const autoPathLimit = 40

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath(source.PathAbsolute, "")
	case PathModeRelative:
		return f.FormatPath(source.PathRelative, fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath(source.PathBase, "")
	}
	if len(f.Path) <= autoPathLimit || !filepath.IsAbs(f.Path) {
		return f.Path
	}
	if rel := f.FormatPath(source.PathRelative, fs.BaseDir()); !filepath.IsAbs(rel) {
		return rel
	}
	return f.FormatPath(source.PathBase, "")
}
