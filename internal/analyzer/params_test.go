package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultParamsValid(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())
	require.NoError(t, DefaultParams().WithStrategy(StrategyAdaptive).Validate())
}

func TestValidateRejectsBadAreas(t *testing.T) {
	require.Error(t, DefaultParams().WithAreaRange(-5, 0).Validate())
	require.Error(t, DefaultParams().WithAreaRange(50, -1).Validate())
	require.Error(t, DefaultParams().WithAreaRange(300, 50).Validate())
	require.NoError(t, DefaultParams().WithAreaRange(50, 300).Validate())
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("fixed")
	require.NoError(t, err)
	require.Equal(t, StrategyFixed, s)

	s, err = ParseStrategy("adaptive")
	require.NoError(t, err)
	require.Equal(t, StrategyAdaptive, s)

	_, err = ParseStrategy("otsu")
	require.Error(t, err)
}

func TestIsSupportedFormat(t *testing.T) {
	require.True(t, IsSupportedFormat("sample.PNG"))
	require.True(t, IsSupportedFormat("/tmp/chamber.jpeg"))
	require.True(t, IsSupportedFormat("scan.tif"))
	require.False(t, IsSupportedFormat("notes.txt"))
	require.False(t, IsSupportedFormat("archive"))
}
