// Package stdlib discovers the set of source files that make up a
// compilation's stdlib manifest (spec.md §6.3), following the teacher
// corpus's directory-walk idiom (internal/modules.Loader) cut down to plain
// discovery - import/package resolution is a spec Non-goal, so there is no
// module graph here, only a flat manifest of paths the compiler may assume
// are present at the intrinsics named in it.
package stdlib

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/neknaj/neplg1/internal/config"
)

// Manifest is the ordered, deduplicated list of stdlib source files a
// compilation was told to assume (spec.md §6.3's determinism requirement:
// the same root always yields the same manifest in the same order).
type Manifest struct {
	Root  string
	Files []string
}

// Missing reports that the stdlib root, or a path named in a manifest,
// does not exist on disk.
type Missing struct{ Path string }

func (e *Missing) Error() string { return "stdlib file missing: " + e.Path }

// Discover walks root and returns every recognized source file found,
// sorted lexicographically so two runs over the same tree always produce
// the same Manifest (spec.md §5's determinism invariant extends to the
// stdlib manifest, since it participates in the build-cache key).
func Discover(root string) (Manifest, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return Manifest{}, &Missing{Path: root}
	}
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if hasRecognizedExt(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return Manifest{}, err
	}
	sort.Strings(files)
	return Manifest{Root: root, Files: files}, nil
}

func hasRecognizedExt(name string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Verify checks that every file named in m still exists, returning the
// first Missing encountered. cmd/neplc calls this right after Discover,
// before the manifest is used, since stdlib trees can change between runs
// even when the compiled source did not.
func (m Manifest) Verify() error {
	for _, f := range m.Files {
		if _, err := os.Stat(f); err != nil {
			return &Missing{Path: f}
		}
	}
	return nil
}
