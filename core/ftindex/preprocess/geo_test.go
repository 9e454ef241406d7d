package preprocess

import (
	"testing"

	"github.com/kvsearch/ftidx/core/ftindex/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoSplitsOnCommaOrSpace(t *testing.T) {
	lon, lat, err := Geo("40.7,-74.0")
	require.NoError(t, err)
	assert.Equal(t, "40.7", lon)
	assert.Equal(t, "-74.0", lat)

	lon, lat, err = Geo("40.7 -74.0")
	require.NoError(t, err)
	assert.Equal(t, "40.7", lon)
	assert.Equal(t, "-74.0", lat)
}

func TestGeoRejectsMissingSeparator(t *testing.T) {
	_, _, err := Geo("40.7")
	require.Error(t, err)
	code, ok := errs.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeGeoFormat, code)
}
