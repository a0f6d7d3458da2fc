package memusage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessProviderRequiresTarget(t *testing.T) {
	_, err := NewProcessProvider()
	assert.Error(t, err)
}

func TestProcessProviderOwnPID(t *testing.T) {
	provider, err := NewProcessProvider(WithPID(int32(os.Getpid())))
	require.NoError(t, err)

	used, err := provider.Sample(context.Background(), Device{Kind: DeviceCPU})
	require.NoError(t, err)
	assert.NotZero(t, used)

	// Second sample reuses the cached handle.
	again, err := provider.Sample(context.Background(), Device{Kind: DeviceCPU})
	require.NoError(t, err)
	assert.NotZero(t, again)
}

func TestProcessProviderUnknownName(t *testing.T) {
	provider, err := NewProcessProvider(WithProcessName("peaktrace-no-such-process"))
	require.NoError(t, err)

	_, err = provider.Sample(context.Background(), Device{Kind: DeviceCPU})
	require.Error(t, err)
	// Not having started yet is recoverable, the next tick retries.
	assert.False(t, IsTerminal(err))
}
