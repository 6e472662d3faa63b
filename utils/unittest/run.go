package unittest

import (
	"io"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	pebblestorage "github.com/onyxchain/onyx/storage/pebble"
)

// Logger returns the logger used by tests. Set VERBOSE=true to see output.
func Logger() zerolog.Logger {
	writer := io.Discard
	if os.Getenv("VERBOSE") == "true" {
		writer = os.Stderr
	}
	return zerolog.New(writer).With().Timestamp().Logger()
}

// RunWithStore runs the test body against a fresh store in a temp directory.
func RunWithStore(t *testing.T, f func(*pebblestorage.Store)) {
	store, err := pebblestorage.Open(Logger(), t.TempDir())
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()
	f(store)
}
