package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"propguard/internal/project"
)

// CollectTargets expands paths into the sorted, absolute list of files to
// lint. Directories are walked; files inside them are kept when their
// extension is configured and no exclude pattern matches. Paths naming a
// file directly are kept regardless of excludes. With no paths the config's
// include list (relative to its root) is used, then the working directory.
func CollectTargets(paths []string, cfg *project.Config) ([]string, error) {
	if len(paths) == 0 {
		paths = defaultInputs(cfg)
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if !info.IsDir() {
			if !lintable(abs, cfg.Lint.Extensions) {
				return nil, fmt.Errorf("%s: unsupported file extension (want one of %s)", p, strings.Join(cfg.Lint.Extensions, ", "))
			}
			add(filepath.ToSlash(abs))
			continue
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, relErr := filepath.Rel(abs, path)
			if relErr != nil {
				return relErr
			}
			if path != abs && excluded(filepath.ToSlash(rel), d.Name(), cfg.Lint.Exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.IsDir() && lintable(path, cfg.Lint.Extensions) {
				add(filepath.ToSlash(path))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoInputs
	}
	sort.Strings(out)
	return out, nil
}

func defaultInputs(cfg *project.Config) []string {
	if len(cfg.Lint.Include) == 0 {
		if cfg.Root != "" {
			return []string{cfg.Root}
		}
		return []string{"."}
	}
	out := make([]string, len(cfg.Lint.Include))
	for i, inc := range cfg.Lint.Include {
		if cfg.Root != "" && !filepath.IsAbs(inc) {
			inc = filepath.Join(cfg.Root, inc)
		}
		out[i] = inc
	}
	return out
}

// lintable matches the longest configured extension, so ".d.ts" files are
// only picked up through ".ts".
func lintable(path string, exts []string) bool {
	lower := strings.ToLower(path)
	for _, ext := range exts {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// excluded matches a pattern against the entry name and against the path
// relative to the walked root.
func excluded(rel, name string, patterns []string) bool {
	for _, pat := range patterns {
		pat = strings.TrimSuffix(filepath.ToSlash(pat), "/")
		if pat == name || pat == rel {
			return true
		}
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, rel); ok {
			return true
		}
	}
	return false
}
