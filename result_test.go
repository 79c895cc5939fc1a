package caster

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	n, err := result[int](7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	s, err := result[fmt.Stringer](nil)
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = result[string](7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMapping)
	assert.Contains(t, err.Error(), "does not fit")
}
