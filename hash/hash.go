// Package hash provides the 32-bit string hashes used by the sid
// preprocessor. All functions are pure: the same byte sequence always
// produces the same value, across calls and across process runs, so a
// hash baked into source code by the preprocessor matches the one
// computed at runtime.
//
// The preprocessor hashes the raw bytes of a string literal, escape
// sequences included. Hashing the unescaped value would make the
// baked-in constant diverge from what `sid hash` reports for the same
// source text.
package hash

import "fmt"

// Func computes a 32-bit hash of a byte sequence. Implementations must
// be deterministic and total; collisions are possible and not detected
// here.
type Func func([]byte) uint32

// DJB2 is Daniel Bernstein's classic string hash (h = h*33 + c,
// seeded with 5381). It is the default algorithm.
func DJB2(data []byte) uint32 {
	h := uint32(5381)
	for _, c := range data {
		h = (h << 5) + h + uint32(c)
	}
	return h
}

// SDBM is the hash from the sdbm database library
// (h = c + h*65599, computed via shifts).
func SDBM(data []byte) uint32 {
	var h uint32
	for _, c := range data {
		h = uint32(c) + (h << 6) + (h << 16) - h
	}
	return h
}

// FNV1a is the 32-bit Fowler–Noll–Vo 1a hash.
func FNV1a(data []byte) uint32 {
	h := uint32(2166136261)
	for _, c := range data {
		h ^= uint32(c)
		h *= 16777619
	}
	return h
}

// String hashes a string with f. Convenience for runtime use:
// hash.String(hash.DJB2, "player_idle") returns the same value the
// preprocessor bakes into source.
func String(f Func, s string) uint32 {
	return f([]byte(s))
}

var byName = map[string]Func{
	"djb2":  DJB2,
	"sdbm":  SDBM,
	"fnv1a": FNV1a,
}

// ByName returns the hash function registered under name
// (djb2, sdbm, fnv1a).
func ByName(name string) (Func, bool) {
	f, ok := byName[name]
	return f, ok
}

// Names returns the registered algorithm names, suitable for help text.
func Names() []string {
	return []string{"djb2", "fnv1a", "sdbm"}
}

// Format renders h the way the preprocessor emits it: a 0x-prefixed,
// zero-padded, lowercase 8-digit hex literal.
func Format(h uint32) string {
	return fmt.Sprintf("0x%08x", h)
}
