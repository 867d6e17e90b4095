package helper_util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalTime(t *testing.T) {
	got, err := ParseOptionalTime("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = ParseOptionalTime("2024-03-01T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 2024, got.Year())

	_, err = ParseOptionalTime("yesterday")
	assert.Error(t, err)
}

func TestParseStoredTime(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	got, err := ParseStoredTime(now)
	require.NoError(t, err)
	assert.True(t, now.Equal(got))

	got, err = ParseStoredTime(now.Format(time.RFC3339))
	require.NoError(t, err)
	assert.True(t, now.Equal(got))

	got, err = ParseStoredTime(nil)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseStoredTime(42)
	assert.Error(t, err)
}
