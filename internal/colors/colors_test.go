package colors

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_FallsBackToWhite(t *testing.T) {
	assert.Equal(t, "#FFFFFF", ToHex(Parse("nonsense")))
	assert.Equal(t, "#102030", ToHex(Parse("102030")))
	assert.True(t, Valid("#102030"))
	assert.False(t, Valid("#12"))
}

func TestHexRoundTrip(t *testing.T) {
	r, g, b := HexToRGB("#C95B3B")
	assert.Equal(t, []int{0xC9, 0x5B, 0x3B}, []int{r, g, b})
	assert.Equal(t, "#C95B3B", RGBToHex(r, g, b))
	assert.Equal(t, "#FF0000", RGBToHex(300, -4, 0))
	assert.Equal(t, "#0A0B0C", FromColor(color.RGBA{R: 10, G: 11, B: 12, A: 255}))
}

func TestGenerateGradient_KeepsEndpoints(t *testing.T) {
	g := GenerateGradient("#0B3D5C", "#7FC8D9", 10)
	assert.Len(t, g, 10)
	assert.Equal(t, "#0B3D5C", g[0])
	assert.Equal(t, "#7FC8D9", g[9])

	assert.Len(t, GenerateGradient("#000000", "#FFFFFF", 0), 2)
}

func TestGenerateMultiGradient(t *testing.T) {
	g := GenerateMultiGradient([]string{"#FF0000", "#00FF00", "#0000FF"}, 9)
	assert.Len(t, g, 9)
	assert.Equal(t, "#FF0000", g[0])
	assert.Equal(t, "#0000FF", g[len(g)-1])

	assert.Equal(t, []string{"#ABCDEF"}, GenerateMultiGradient([]string{"#ABCDEF"}, 5))
	assert.Equal(t, []string{"#FFFFFF"}, GenerateMultiGradient(nil, 5))
}

func TestFade(t *testing.T) {
	assert.Equal(t, "#FFFFFF", Fade("#FFFFFF", "#000000", 1))
	assert.Equal(t, "#000000", Fade("#FFFFFF", "#000000", 0))
	assert.Equal(t, "#000000", Fade("#FFFFFF", "#000000", -3))

	mid := Fade("#FFFFFF", "#000000", 0.5)
	r, g, b := HexToRGB(mid)
	assert.InDelta(t, 128, r, 1)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestBlend_Endpoints(t *testing.T) {
	assert.Equal(t, "#112233", Blend("#112233", "#DDEEFF", 0))
	assert.Equal(t, "#DDEEFF", Blend("#112233", "#DDEEFF", 1))
	assert.Equal(t, "#DDEEFF", Blend("#112233", "#DDEEFF", 7))
}

func TestLightnessOrdering(t *testing.T) {
	assert.Less(t, GetLightness("#202020"), GetLightness("#E0E0E0"))
	assert.InDelta(t, 100, GetLightness("#FFFFFF"), 0.5)
	assert.Less(t, CalculateGradientSmoothness("#404040", "#505050", 20), CalculateGradientSmoothness("#000000", "#FFFFFF", 20))
}

func TestAdjustBrightness(t *testing.T) {
	assert.Equal(t, "#402010", AdjustBrightness("#804020", 0.5))
	assert.Equal(t, "#FFFFFF", AdjustBrightness("#808080", 3))
}

func TestDesaturateAndShift(t *testing.T) {
	gray := Desaturate("#FF0000", 1)
	r, g, b := HexToRGB(gray)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)

	assert.Equal(t, "#00FF00", ShiftHue("#FF0000", 120))
	assert.Equal(t, "#0000FF", ShiftHue("#FF0000", -120))
}

func TestRenderGradientText(t *testing.T) {
	assert.Equal(t, "", RenderGradientText("", []string{"#FFFFFF"}, false))
	assert.Equal(t, "plain", RenderGradientText("plain", nil, false))
	assert.Contains(t, RenderGradientText("ab", []string{"#FF0000", "#0000FF"}, true), "a")
}
