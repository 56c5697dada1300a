package assoc

// Traits tells an engine how to reach the key and the mapped value of a stored value V.
type Traits[V, K, M any] interface {
	ExtractKey(value *V) K
	ExtractMapped(value *V) M
}

// MapTraits stores Pair[K, M]: the key is Pair.Key, the mapped value is Pair.Value.
type MapTraits[K, M any] struct{}

// ExtractKey returns the pair key.
func (MapTraits[K, M]) ExtractKey(value *Pair[K, M]) K {
	return value.Key
}

// ExtractMapped returns the pair value.
func (MapTraits[K, M]) ExtractMapped(value *Pair[K, M]) M {
	return value.Value
}

// SetTraits stores bare keys: the key, the stored value and the mapped value coincide.
type SetTraits[K any] struct{}

// ExtractKey returns the value itself.
func (SetTraits[K]) ExtractKey(value *K) K {
	return *value
}

// ExtractMapped returns the value itself.
func (SetTraits[K]) ExtractMapped(value *K) K {
	return *value
}
