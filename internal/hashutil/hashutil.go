// Package hashutil provides the hash primitives shared by the hash engine
// and the workload generators.
//
// FNV-1a hashes the byte representation of keys. Mix64 is the splitmix64
// finalizer by Vigna (2014); it is a bijection on uint64, which makes it
// usable for turning a counter into distinct scattered keys.
package hashutil

// FNV-1a 64-bit parameters.
const (
	fnvOffset64 = 0xcbf29ce484222325
	fnvPrime64  = 0x100000001b3
)

// Splitmix64 constants from the splitmix64 finalizer by Vigna (2014).
const (
	// MixShift1 is the first right-shift in the splitmix64 finalizer.
	MixShift1 = 30

	// MixMul1 is the first multiplier in the splitmix64 finalizer.
	MixMul1 = 0xbf58476d1ce4e5b9

	// MixShift2 is the second right-shift in the splitmix64 finalizer.
	MixShift2 = 27

	// MixMul2 is the second multiplier in the splitmix64 finalizer.
	MixMul2 = 0x94d049bb133111eb

	// MixShift3 is the third right-shift in the splitmix64 finalizer.
	MixShift3 = 31
)

// uint64Bytes is the number of bytes hashed for integer keys.
const uint64Bytes = 8

// FNV64aString computes the FNV-1a hash of the bytes of s without copying them.
func FNV64aString(s string) uint64 {
	hash := uint64(fnvOffset64)

	for idx := range len(s) {
		hash ^= uint64(s[idx])
		hash *= fnvPrime64
	}

	return hash
}

// FNV64aUint64 computes the FNV-1a hash of the little-endian representation of v.
func FNV64aUint64(v uint64) uint64 {
	hash := uint64(fnvOffset64)

	for range uint64Bytes {
		hash ^= v & 0xff
		hash *= fnvPrime64
		v >>= 8
	}

	return hash
}

// Mix64 applies the splitmix64 finalizer for full-avalanche mixing.
// This is a pure output function, it does NOT advance any state.
func Mix64(v uint64) uint64 {
	v ^= v >> MixShift1
	v *= MixMul1
	v ^= v >> MixShift2
	v *= MixMul2
	v ^= v >> MixShift3

	return v
}
