package fake

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverKeepsCopy(t *testing.T) {
	var out bytes.Buffer
	d := &Driver{Out: &out}
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 200, A: 255})

	require.NoError(t, d.Write(img))
	img.SetRGBA(0, 0, color.RGBA{G: 200, A: 255})

	assert.Equal(t, 1, d.Frames())
	assert.Equal(t, color.RGBA{R: 200, A: 255}, d.Last.RGBAAt(0, 0))
	assert.Equal(t, "[frame 0001] avg=(100.0,0.0,0.0)\n", out.String())
}
