package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDbyIP(t *testing.T) {
	assert.Equal(t, uint32(0xC0A80102), IDbyIP("192.168.1.2"))
	assert.Equal(t, uint32(0), IDbyIP("not an ip"))
	assert.Equal(t, int64(0x102), NodeID("192.168.1.2"))
}

func TestNewNode(t *testing.T) {
	n, err := NewNode("10.0.0.7")
	require.NoError(t, err)

	a := n.Generate()
	b := n.Generate()

	assert.NotEqual(t, a, b)
	assert.Equal(t, int64(7), a.Node())
}
