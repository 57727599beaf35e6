package runid

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	gen := NewGenerator()
	id, err := gen.NewID()
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)
}

func TestNewIDIsMonotonicish(t *testing.T) {
	gen := NewGenerator()
	first, err := gen.NewID()
	require.NoError(t, err)
	second, err := gen.NewID()
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
