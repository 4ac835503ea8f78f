package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	v, err := parseColor("#00FFFF")
	require.NoError(t, err)
	assert.Equal(t, int64(0x00FFFF), v)

	v, err = parseColor("#aa5500")
	require.NoError(t, err)
	assert.Equal(t, int64(0xAA5500), v)

	_, err = parseColor("cyan")
	assert.Error(t, err)
}
