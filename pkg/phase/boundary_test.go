package phase

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundaryNames(t *testing.T) {
	tests := []struct {
		boundary Boundary
		name     string
		begins   bool
	}{
		{boundary: ForwardBegin, name: "forward_begin", begins: true},
		{boundary: ForwardEnd, name: "forward_end"},
		{boundary: BackwardBegin, name: "backward_begin", begins: true},
		{boundary: BackwardEnd, name: "backward_end"},
		{boundary: IterationEnd, name: "iteration_end"},
	}

	for _, test := range tests {
		assert.Equal(t, test.name, test.boundary.String())
		assert.Equal(t, test.begins, test.boundary.Begins())

		parsed, err := ParseBoundary(test.name)
		require.NoError(t, err)
		assert.Equal(t, test.boundary, parsed)
	}
}

func TestParseBoundaryUnknown(t *testing.T) {
	_, err := ParseBoundary("sideways_begin")
	assert.Error(t, err)

	_, err = ParseBoundary("")
	assert.Error(t, err)
}

func TestBoundaryJSON(t *testing.T) {
	data, err := json.Marshal(BackwardBegin)
	require.NoError(t, err)
	assert.Equal(t, `"backward_begin"`, string(data))

	var b Boundary
	require.NoError(t, json.Unmarshal([]byte(`"iteration_end"`), &b))
	assert.Equal(t, IterationEnd, b)

	assert.Error(t, json.Unmarshal([]byte(`"warp_begin"`), &b))

	_, err = json.Marshal(Boundary(42))
	assert.Error(t, err)
}

func TestBoundaryStringUnknown(t *testing.T) {
	assert.Equal(t, "boundary(42)", Boundary(42).String())
}
