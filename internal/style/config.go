package style

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigNames are the project file names searched for, in priority order.
var ConfigNames = []string{"recast.toml", "recast.yaml", "recast.yml"}

// FileConfig mirrors the on-disk project file.
type FileConfig struct {
	Styles  StylesConfig  `toml:"styles" yaml:"styles"`
	Recipes RecipesConfig `toml:"recipes" yaml:"recipes"`
	Files   FilesConfig   `toml:"files" yaml:"files"`
}

type StylesConfig struct {
	HideUtilityClassConstructor *HideUtilityConfig `toml:"hide_utility_class_constructor" yaml:"hide_utility_class_constructor"`
}

type HideUtilityConfig struct {
	Visibility          *string  `toml:"visibility" yaml:"visibility"`
	IgnoreIfAnnotatedBy []string `toml:"ignore_if_annotated_by" yaml:"ignore_if_annotated_by"`
}

type RecipesConfig struct {
	Active []string `toml:"active" yaml:"active"`
}

type FilesConfig struct {
	Exclude []string `toml:"exclude" yaml:"exclude"`
}

// Config is a loaded project file.
type Config struct {
	Path    string
	Root    string
	Styles  *Set
	Recipes []string
	Exclude []string
	// Hash covers the raw file bytes; it keys cached results.
	Hash [32]byte
}

// DefaultConfig is used when no project file exists.
func DefaultConfig(root string) *Config {
	return &Config{Root: root, Styles: NewSet()}
}

// FindConfig walks upward from startDir looking for a project file.
func FindConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		for _, name := range ConfigNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadConfig reads a recast.toml or recast.yaml file. Unknown keys are
// errors; a visibility the rule cannot use is kept and surfaces later as a
// malformed style.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		fc, err = decodeTOML(path, data)
	case ".yaml", ".yml":
		fc, err = decodeYAML(path, data)
	default:
		err = fmt.Errorf("%s: unsupported config format", path)
	}
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Path:    path,
		Root:    filepath.Dir(path),
		Styles:  fc.styleSet(),
		Recipes: fc.Recipes.Active,
		Exclude: fc.Files.Exclude,
		Hash:    sha256.Sum256(data),
	}
	return cfg, nil
}

func decodeTOML(path string, data []byte) (FileConfig, error) {
	var fc FileConfig
	meta, err := toml.Decode(string(data), &fc)
	if err != nil {
		return FileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return FileConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("styles", "hide_utility_class_constructor") && fc.Styles.HideUtilityClassConstructor == nil {
		fc.Styles.HideUtilityClassConstructor = &HideUtilityConfig{}
	}
	return fc, nil
}

func decodeYAML(path string, data []byte) (FileConfig, error) {
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return FileConfig{}, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}
	return fc, nil
}

func (fc FileConfig) styleSet() *Set {
	hc := fc.Styles.HideUtilityClassConstructor
	if hc == nil {
		return NewSet()
	}
	st := HideUtilityClassConstructor{
		Visibility:          DefaultHideUtilityClassConstructor.Visibility,
		IgnoreIfAnnotatedBy: DefaultHideUtilityClassConstructor.IgnoreIfAnnotatedBy,
	}
	if hc.Visibility != nil {
		st.RawVisibility = *hc.Visibility
		// a bad value stays invalid; the recipe reports it and falls back
		st.Visibility, _ = ParseVisibility(*hc.Visibility)
	}
	if hc.IgnoreIfAnnotatedBy != nil {
		st.IgnoreIfAnnotatedBy = append([]string(nil), hc.IgnoreIfAnnotatedBy...)
	}
	return NewSet(st)
}
