package config

// Verify defaults.
const (
	DefaultVerifySeed       = 1
	DefaultVerifyOperations = 20000
	DefaultVerifyKeySpace   = 512
	DefaultVerifyCheckEvery = 500
)

// Bench defaults.
const (
	DefaultBenchRepeat = 3
	DefaultBenchSeed   = 7
)

// Logging defaults.
const (
	DefaultLoggingLevel  = "info"
	DefaultLoggingFormat = "text"
)

// DefaultBenchSizes returns the element counts benchmarked when none are configured.
func DefaultBenchSizes() []int {
	return []int{1000, 10000, 100000}
}
