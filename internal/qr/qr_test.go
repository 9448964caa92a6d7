package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuURL(t *testing.T) {
	assert.Equal(t, "http://192.168.1.10:8090/?event=7", MenuURL("http://192.168.1.10:8090", 7))
	assert.Equal(t, "http://menu.local/?event=3", MenuURL("http://menu.local/", 3))
}

func TestEncodePNG(t *testing.T) {
	png, err := EncodePNG("http://menu.local/?event=7", 0)
	require.NoError(t, err)
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
