package driver

import (
	"encoding/json"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// sourceExts are tried in order for extension-less specifiers.
var sourceExts = []string{".tsx", ".ts", ".d.ts", ".jsx"}

// moduleResolver maps import specifiers to files on disk.
type moduleResolver struct {
	nodeModules []string
	logger      *slog.Logger

	mu       sync.Mutex
	pkgEntry map[string]string // package dir -> types entry, "" when none
}

func newModuleResolver(nodeModules []string, logger *slog.Logger) *moduleResolver {
	if len(nodeModules) == 0 {
		nodeModules = []string{"node_modules"}
	}
	return &moduleResolver{
		nodeModules: nodeModules,
		logger:      logger,
		pkgEntry:    make(map[string]string),
	}
}

// Resolve returns the absolute slash path spec refers to from the file at
// from.
func (r *moduleResolver) Resolve(from, spec string) (string, bool) {
	if spec == "" {
		return "", false
	}
	if isRelative(spec) {
		base := spec
		if !strings.HasPrefix(spec, "/") {
			base = path.Join(path.Dir(from), spec)
		}
		return r.file(base)
	}
	return r.bare(path.Dir(from), spec)
}

func isRelative(spec string) bool {
	return spec == "." || spec == ".." || strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || strings.HasPrefix(spec, "/")
}

// file resolves base as a file, with the source extensions appended, or as
// a directory with an index file.
func (r *moduleResolver) file(base string) (string, bool) {
	if _, known := sourceExt(base); known && isFile(base) {
		return base, true
	}
	// "./x.js" в TS-проекте указывает на x.ts / x.tsx
	if ext := path.Ext(base); ext == ".js" || ext == ".jsx" || ext == ".mjs" {
		stem := strings.TrimSuffix(base, ext)
		for _, e := range sourceExts {
			if isFile(stem + e) {
				return stem + e, true
			}
		}
	}
	for _, e := range sourceExts {
		if isFile(base + e) {
			return base + e, true
		}
	}
	if entry, ok := r.packageEntry(base); ok {
		return entry, true
	}
	for _, e := range sourceExts {
		if idx := path.Join(base, "index"+e); isFile(idx) {
			return idx, true
		}
	}
	return "", false
}

// bare walks up from dir looking for the package in every node_modules
// directory, then for its @types counterpart.
func (r *moduleResolver) bare(dir, spec string) (string, bool) {
	pkg, sub := splitPackage(spec)
	for cur := dir; ; {
		for _, nm := range r.nodeModules {
			root := path.Join(cur, nm)
			if p, ok := r.file(path.Join(root, pkg, sub)); ok {
				return p, true
			}
			if p, ok := r.file(path.Join(root, "@types", typesName(pkg), sub)); ok {
				return p, true
			}
		}
		parent := path.Dir(cur)
		if parent == cur {
			return "", false
		}
		cur = parent
	}
}

// packageEntry reads the types entry of dir/package.json. Results are
// cached per directory.
func (r *moduleResolver) packageEntry(dir string) (string, bool) {
	r.mu.Lock()
	entry, cached := r.pkgEntry[dir]
	r.mu.Unlock()
	if cached {
		return entry, entry != ""
	}

	entry = r.readPackageEntry(dir)
	r.mu.Lock()
	r.pkgEntry[dir] = entry
	r.mu.Unlock()
	return entry, entry != ""
}

func (r *moduleResolver) readPackageEntry(dir string) string {
	data, err := os.ReadFile(filepath.FromSlash(path.Join(dir, "package.json")))
	if err != nil {
		return ""
	}
	var manifest struct {
		Types   string `json:"types"`
		Typings string `json:"typings"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		r.logger.Warn("unreadable package.json", "dir", dir, "err", err)
		return ""
	}
	entry := manifest.Types
	if entry == "" {
		entry = manifest.Typings
	}
	if entry == "" {
		return ""
	}
	full := path.Join(dir, entry)
	if isFile(full) {
		return full
	}
	for _, e := range sourceExts {
		if isFile(full + e) {
			return full + e
		}
	}
	r.logger.Warn("package.json types entry not found", "dir", dir, "types", entry)
	return ""
}

// splitPackage separates "@scope/name/sub/path" into the package and the
// subpath.
func splitPackage(spec string) (pkg, sub string) {
	parts := strings.Split(spec, "/")
	n := 1
	if strings.HasPrefix(spec, "@") && len(parts) > 1 {
		n = 2
	}
	if n > len(parts) {
		n = len(parts)
	}
	return strings.Join(parts[:n], "/"), strings.Join(parts[n:], "/")
}

// typesName maps "@scope/name" to the DefinitelyTyped "scope__name".
func typesName(pkg string) string {
	if strings.HasPrefix(pkg, "@") {
		return strings.Replace(strings.TrimPrefix(pkg, "@"), "/", "__", 1)
	}
	return pkg
}

func sourceExt(p string) (string, bool) {
	lower := strings.ToLower(p)
	for _, e := range []string{".d.ts", ".tsx", ".ts", ".jsx"} {
		if strings.HasSuffix(lower, e) {
			return e, true
		}
	}
	return "", false
}

func isFile(p string) bool {
	info, err := os.Stat(filepath.FromSlash(p))
	return err == nil && info.Mode().IsRegular()
}
