package assoc_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/assoc/pkg/assoc"
)

func TestMapTraits(t *testing.T) {
	t.Parallel()

	pair := assoc.MakePair("answer", 42)
	traits := assoc.MapTraits[string, int]{}

	assert.Equal(t, "answer", traits.ExtractKey(&pair))
	assert.Equal(t, 42, traits.ExtractMapped(&pair))
}

func TestSetTraits(t *testing.T) {
	t.Parallel()

	value := 7
	traits := assoc.SetTraits[int]{}

	assert.Equal(t, 7, traits.ExtractKey(&value))
	assert.Equal(t, 7, traits.ExtractMapped(&value))
}

func TestErrorsWrap(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("at %d: %w", 3, assoc.ErrOutOfRange)
	assert.ErrorIs(t, err, assoc.ErrOutOfRange)
	assert.NotErrorIs(t, err, assoc.ErrCorrupt)
}
