package presets_test

import (
	"testing"

	"github.com/ajrojasfuentes/Black-and-White-Filesystem/presets"
	"github.com/stretchr/testify/require"
)

func TestLookupKnownPreset(t *testing.T) {
	p, ok := presets.Lookup("default")
	require.True(t, ok)
	require.EqualValues(t, 1024, p.TotalBlocks)
}

func TestLookupUnknownPreset(t *testing.T) {
	_, ok := presets.Lookup("does-not-exist")
	require.False(t, ok)
}

func TestSlugsNonEmpty(t *testing.T) {
	require.NotEmpty(t, presets.Slugs())
}
