package download

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilterDrive(t *testing.T) {
	f, err := BuildFilter("drive")
	require.NoError(t, err)
	assert.Contains(t, f, `"highway"`)
	assert.Contains(t, f, "private")
}

func TestBuildFilterUnknown(t *testing.T) {
	_, err := BuildFilter("flying-car")
	assert.True(t, errors.Is(err, ErrUnknownNetworkType))
}

func TestDownloadFailsLoudlyOnUnknownNetworkType(t *testing.T) {
	_, err := Download(context.Background(), 1, 0, 0, 1, "flying-car", Options{})
	assert.True(t, errors.Is(err, ErrUnknownNetworkType))
}

func TestNewOptions(t *testing.T) {
	opts := NewOptions("https://example.test", 5*time.Second, "test-agent")
	require.NotNil(t, opts.Endpoint)
	require.NotNil(t, opts.Timeout)
	require.NotNil(t, opts.UserAgent)
	assert.Equal(t, "https://example.test", *opts.Endpoint)
	assert.Equal(t, 5*time.Second, *opts.Timeout)
	assert.Equal(t, "test-agent", *opts.UserAgent)
}
