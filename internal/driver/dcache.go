package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"propguard/internal/diag"
	"propguard/internal/lint"
	"propguard/internal/project"
	"propguard/internal/source"
)

// Current schema version - increment when LintPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты линтинга файлов на диске, ключ: дайджест
// содержимого файла, его импортов и настроек правил.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedDiagnostic is a diagnostic of the cached file without its FileID.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Start    uint32
	End      uint32
	Message  string
	Rule     string
}

// LintPayload is the cached lint result of one file.
type LintPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	ContentHash project.Digest
	Diagnostics []CachedDiagnostic
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/<app> (or
// ~/.cache/<app>).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it when missing.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первым двум символам, чтобы не держать всё в одном
	return filepath.Join(c.dir, "lint", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *LintPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после успешного Rename файла уже нет
		_ = os.Remove(tmp)
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a payload. A missing entry or one written by another schema
// version is a miss.
func (c *DiskCache) Get(key project.Digest, out *LintPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог, потом удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// lintKey fingerprints everything a file's lint result depends on: the
// schema, the file's own content, the content of every file in its import
// closure and the enabled rules with their settings.
func lintKey(file *source.File, closure []*source.File, rulesFP project.Digest) project.Digest {
	deps := make([]project.Digest, 0, len(closure)+1)
	sorted := append([]*source.File(nil), closure...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	for _, f := range sorted {
		deps = append(deps, project.Combine(project.HashStrings("file", f.Path), f.Hash))
	}
	deps = append(deps, rulesFP)
	head := project.Combine(project.HashStrings("schema="+strconv.Itoa(int(diskCacheSchemaVersion)), "path="+file.Path), file.Hash)
	return project.Combine(head, deps...)
}

// rulesFingerprint digests the enabled rules, their severities and options.
func rulesFingerprint(enabled []lint.Enabled) project.Digest {
	parts := make([]string, 0, len(enabled))
	for _, e := range enabled {
		keys := make([]string, 0, len(e.Options))
		for k := range e.Options {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		s := e.Rule.Meta().Name + "@" + e.Severity.String()
		for _, k := range keys {
			s += ";" + k + "=" + formatOption(e.Options[k])
		}
		parts = append(parts, s)
	}
	return project.HashStrings(parts...)
}

func formatOption(v any) string {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return "?"
	}
	return hex.EncodeToString(data)
}

func toPayload(path string, hash project.Digest, diags []diag.Diagnostic) *LintPayload {
	p := &LintPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        path,
		ContentHash: hash,
		Diagnostics: make([]CachedDiagnostic, len(diags)),
	}
	for i, d := range diags {
		p.Diagnostics[i] = CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Message:  d.Message,
			Rule:     d.Rule,
		}
	}
	return p
}

// restore re-anchors cached diagnostics at file.
func (p *LintPayload) restore(file source.FileID, rep diag.Reporter) int {
	for _, cd := range p.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), source.Span{File: file, Start: cd.Start, End: cd.End}, cd.Message)
		rep.Report(d.WithRule(cd.Rule))
	}
	return len(p.Diagnostics)
}
