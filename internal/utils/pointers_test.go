package utils_test

import (
	"testing"

	"github.com/jrsteele09/dailymood/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	require.False(t, utils.Value[bool](nil))
	require.True(t, utils.Value(utils.Ptr(true)))
}

func TestClone(t *testing.T) {
	require.Nil(t, utils.Clone[int](nil))

	orig := utils.Ptr(3)
	clone := utils.Clone(orig)
	*clone = 4
	require.Equal(t, 3, *orig)
}
