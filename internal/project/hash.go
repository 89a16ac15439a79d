package project

import (
	"crypto/sha256"
	"sort"
	"strings"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine хеширует H(content || dep1 || dep2 ...).
// Порядок deps должен быть детерминированным.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// HashStrings digests parts joined by NUL after sorting a copy, so the
// result does not depend on map iteration order.
func HashStrings(parts ...string) Digest {
	sorted := append([]string(nil), parts...)
	sort.Strings(sorted)
	return sha256.Sum256([]byte(strings.Join(sorted, "\x00")))
}
