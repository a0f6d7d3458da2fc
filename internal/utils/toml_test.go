package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTomlEncode(t *testing.T) {
	tests := []struct {
		provided interface{}
		expected string
	}{
		{
			provided: map[string]interface{}{
				"monitor": map[string]interface{}{
					"power":  int64(2),
					"device": "cpu",
				},
			},
			expected: "[monitor]\n  device = \"cpu\"\n  power = 2\n",
		},
	}

	for _, test := range tests {
		result, err := TomlEncode(test.provided)
		assert.NoError(t, err)
		assert.Equal(t, test.expected, result)
	}
}

func TestTomlDecode(t *testing.T) {
	tests := []struct {
		provided string
		expected interface{}
	}{
		{
			provided: "[monitor]\n  device = \"cpu\"\n  power = 2\n",
			expected: map[string]interface{}{
				"monitor": map[string]interface{}{
					"power":  int64(2),
					"device": "cpu",
				},
			},
		},
	}

	for _, test := range tests {
		result, err := TomlDecode(test.provided)
		assert.NoError(t, err)
		assert.Equal(t, test.expected, result)
	}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		provided interface{}
		patch    interface{}
		expected interface{}
	}{
		{
			provided: map[string]interface{}{
				"monitor": map[string]interface{}{
					"power":  int64(2),
					"device": "cpu",
				},
				"listen": ":8188",
			},
			patch: map[string]interface{}{
				"monitor": map[string]interface{}{
					"device": "gpu:0",
				},
			},
			expected: map[string]interface{}{
				"monitor": map[string]interface{}{
					"power":  int64(2),
					"device": "gpu:0",
				},
				"listen": ":8188",
			},
		},
	}

	for _, test := range tests {
		result, err := Merge(test.provided, test.patch)
		assert.NoError(t, err)
		assert.Equal(t, test.expected, result)
	}
}
