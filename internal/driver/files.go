package driver

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// ListJavaFiles returns a sorted list of all *.java files under root,
// leaving out paths matched by one of the exclude patterns.
func ListJavaFiles(root string, exclude []string) ([]string, error) {
	for _, pat := range exclude {
		if _, err := path.Match(strings.TrimSuffix(pat, "/**"), ""); err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pat, err)
		}
	}

	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if p != root && (skipDirs[d.Name()] || excluded(rel, exclude)) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(p, ".java") && !excluded(rel, exclude) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// excluded matches rel against each pattern. A pattern ending in "/**"
// covers everything below the matched directory; a pattern without a slash
// is also tried against the base name.
func excluded(rel string, patterns []string) bool {
	for _, pat := range patterns {
		if dir, ok := strings.CutSuffix(pat, "/**"); ok {
			if matchPrefix(rel, dir) {
				return true
			}
			continue
		}
		if ok, _ := path.Match(pat, rel); ok {
			return true
		}
		if !strings.Contains(pat, "/") {
			if ok, _ := path.Match(pat, path.Base(rel)); ok {
				return true
			}
		}
	}
	return false
}

// matchPrefix reports whether some leading run of rel's segments matches dir.
func matchPrefix(rel, dir string) bool {
	segs := strings.Split(rel, "/")
	for i := 1; i <= len(segs); i++ {
		if ok, _ := path.Match(dir, strings.Join(segs[:i], "/")); ok {
			return true
		}
	}
	return false
}
