package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidID(t *testing.T) {
	require.True(t, ValidID(1))
	require.True(t, ValidID(math.MaxInt32))
	require.False(t, ValidID(0))
	require.False(t, ValidID(-1))
	require.False(t, ValidID(math.MaxInt32+1))
}
