// Package assoc holds the contracts shared by the associative container
// engines: the key/value pair stored by maps, the traits that tell an
// engine where the key and the mapped value live inside a stored value,
// and the sentinel errors the engines report.
package assoc

// Pair is the stored value of a map: a key and its mapped value.
type Pair[K, M any] struct {
	Key   K
	Value M
}

// MakePair builds a Pair.
func MakePair[K, M any](key K, value M) Pair[K, M] {
	return Pair[K, M]{Key: key, Value: value}
}
