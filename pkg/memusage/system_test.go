package memusage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMeminfo(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.meminfo")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSystemProviderMeminfo(t *testing.T) {
	tests := []struct {
		name      string
		meminfo   string
		worldSize int
		expected  uint64
		terminal  bool
	}{
		{
			name: "used excludes reclaimable pages",
			meminfo: "MemTotal:       8000 kB\n" +
				"MemFree:        2000 kB\n" +
				"Buffers:         500 kB\n" +
				"Cached:         1500 kB\n",
			worldSize: 1,
			expected:  4000 * 1024,
		},
		{
			name: "divided by world size",
			meminfo: "MemTotal:       8000 kB\n" +
				"MemFree:        2000 kB\n" +
				"Buffers:         500 kB\n" +
				"Cached:         1500 kB\n",
			worldSize: 2,
			expected:  2000 * 1024,
		},
		{
			name: "clamped when cache accounting overshoots",
			meminfo: "MemTotal:       8000 kB\n" +
				"MemFree:        1000 kB\n" +
				"Buffers:        2000 kB\n" +
				"Cached:         6000 kB\n",
			worldSize: 1,
			expected:  7000 * 1024,
		},
		{
			name: "fields without kB suffix are tolerated",
			meminfo: "MemTotal:       8000 kB\n" +
				"MemFree:        3000 kB\n" +
				"HugePages_Total:       0\n",
			worldSize: 1,
			expected:  5000 * 1024,
		},
		{
			name:      "malformed value is terminal",
			meminfo:   "MemTotal:       banana kB\nMemFree: 10 kB\n",
			worldSize: 1,
			terminal:  true,
		},
		{
			name:      "missing required field is terminal",
			meminfo:   "MemTotal:       8000 kB\n",
			worldSize: 1,
			terminal:  true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			provider := NewSystemProvider(
				WithMeminfoPath(writeMeminfo(t, test.meminfo)),
				WithWorldSize(test.worldSize),
			)

			used, err := provider.Sample(context.Background(), Device{Kind: DeviceCPU})
			if test.terminal {
				require.Error(t, err)
				assert.True(t, IsTerminal(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expected, used)
		})
	}
}

func TestSystemProviderHostFallback(t *testing.T) {
	provider := NewSystemProvider(
		WithMeminfoPath(filepath.Join(t.TempDir(), "does-not-exist")),
		WithWorldSize(1),
	)

	used, err := provider.Sample(context.Background(), Device{Kind: DeviceCPU})
	require.NoError(t, err)
	assert.NotZero(t, used)
}

func TestSystemProviderRejectsGPU(t *testing.T) {
	provider := NewSystemProvider()

	_, err := provider.Sample(context.Background(), Device{Kind: DeviceGPU, Index: 1})
	require.Error(t, err)
	assert.True(t, IsTerminal(err))
}

func TestSystemProviderInvalidWorldSize(t *testing.T) {
	meminfo := "MemTotal:       8000 kB\n" +
		"MemFree:        2000 kB\n" +
		"Buffers:         500 kB\n" +
		"Cached:         1500 kB\n"
	provider := NewSystemProvider(
		WithMeminfoPath(writeMeminfo(t, meminfo)),
		WithWorldSize(0),
	)

	used, err := provider.Sample(context.Background(), Device{Kind: DeviceCPU})
	require.NoError(t, err)
	assert.Equal(t, uint64(4000*1024), used)
}
