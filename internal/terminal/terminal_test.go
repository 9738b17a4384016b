package terminal

import (
	"image"
	"image/color"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestDetectCapabilities(t *testing.T) {
	caps := DetectCapabilitiesFrom(env(map[string]string{}))
	assert.False(t, caps.SupportsKittyGraphics)
	assert.False(t, caps.SupportsRGB)

	caps = DetectCapabilitiesFrom(env(map[string]string{
		"RESIDENCES_USE_KITTY_GRAPHICS": "Yes",
	}))
	assert.True(t, caps.SupportsKittyGraphics)
	assert.Equal(t, "kitty", caps.TermProgram)

	caps = DetectCapabilitiesFrom(env(map[string]string{
		"TERM":                          "xterm-256color",
		"RESIDENCES_USE_KITTY_GRAPHICS": "off",
	}))
	assert.False(t, caps.SupportsKittyGraphics)
	assert.True(t, caps.SupportsRGB)
}

func TestEncodeImageForKitty(t *testing.T) {
	assert.Empty(t, EncodeImageForKitty(nil, 10, 5))

	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: 80, B: uint8(y * 12), A: 255})
		}
	}

	out := EncodeImageForKitty(img, 10, 5)
	assert.True(t, strings.HasPrefix(out, "\x1b_Ga=T,f=100,i=7,q=2,c=10,r=5,"))
	assert.True(t, strings.HasSuffix(out, "\x1b\\"))
}

func TestFitCells(t *testing.T) {
	w, h := fitCells(400, 100, 10, 5)
	assert.Equal(t, uint(100), w)
	assert.Equal(t, uint(25), h)

	w, h = fitCells(100, 400, 10, 5)
	assert.Equal(t, uint(25), w)
	assert.Equal(t, uint(100), h)

	w, h = fitCells(1000, 1, 1, 1)
	assert.Equal(t, uint(10), w)
	assert.Equal(t, uint(10), h)
}

func TestResetTo(t *testing.T) {
	var buf bytes.Buffer
	ResetTo(&buf)
	assert.Contains(t, buf.String(), "\033[?1049l")
	assert.Contains(t, buf.String(), "\033[?1006l")
}
