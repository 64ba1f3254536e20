// Package determinism provides primitives for reproducible output.
// Re-running a computation on identical input must produce identical IDs,
// hashes and iteration order.
package determinism

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/google/uuid"
)

// SortedKeys returns the keys of m in ascending order
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// RangeSorted iterates over m in ascending key order until fn returns false
func RangeSorted[K cmp.Ordered, V any](m map[K]V, fn func(K, V) bool) {
	for _, k := range SortedKeys(m) {
		if !fn(k, m[k]) {
			break
		}
	}
}

// SortSlice sorts a slice stably
func SortSlice[T any](slice []T, less func(a, b T) bool) {
	sort.SliceStable(slice, func(i, j int) bool {
		return less(slice[i], slice[j])
	})
}

// Namespace roots every ID this application generates
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("roommates"))

// IDGenerator generates name-based (version 5) UUIDs
type IDGenerator struct {
	namespace uuid.UUID
}

// NewIDGenerator creates an ID generator for a kind of entity, e.g. "invoice"
func NewIDGenerator(kind string) *IDGenerator {
	return &IDGenerator{namespace: uuid.NewSHA1(Namespace, []byte(kind))}
}

// Generate creates a stable ID from parts. The same parts always give the
// same ID; parts are separated so ("ab", "c") and ("a", "bc") differ.
func (g *IDGenerator) Generate(parts ...string) uuid.UUID {
	var name []byte
	for _, part := range parts {
		name = append(name, part...)
		name = append(name, 0)
	}
	return uuid.NewSHA1(g.namespace, name)
}

// ContentHash is a SHA-256 hash for content integrity
type ContentHash [32]byte

// ComputeHash computes a content hash from bytes
func ComputeHash(data []byte) ContentHash {
	return sha256.Sum256(data)
}

// Hex returns the hash as a hex string
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String implements Stringer
func (h ContentHash) String() string {
	return h.Hex()[:16] + "..."
}
