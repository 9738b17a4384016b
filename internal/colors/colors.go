package colors

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const fallbackHex = "#FFFFFF"

// Parse accepts "#rrggbb" or "rrggbb"; anything else becomes white.
func Parse(hex string) colorful.Color {
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(fallbackHex)
	}
	return c
}

func Valid(hex string) bool {
	_, err := colorful.Hex(hex)
	return err == nil && len(hex) == 7
}

func ToHex(c colorful.Color) string {
	return strings.ToUpper(c.Clamped().Hex())
}

func FromColor(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return ToHex(cf)
}

func HexToRGB(hex string) (int, int, int) {
	r, g, b := Parse(hex).RGB255()
	return int(r), int(g), int(b)
}

func RGBToHex(r int, g int, b int) string {
	return fmt.Sprintf("#%02X%02X%02X", clampInt(r, 0, 255), clampInt(g, 0, 255), clampInt(b, 0, 255))
}

func GenerateGradient(startHex string, endHex string, steps int) []string {
	if steps < 2 {
		steps = 2
	}

	start := Parse(startHex)
	end := Parse(endHex)

	// colors far apart get a double smoothstep so the extremes linger
	sh, sc, sl := start.Hcl()
	eh, ec, el := end.Hcl()
	hueDistance := math.Abs(eh - sh)
	if hueDistance > 180 {
		hueDistance = 360 - hueDistance
	}
	needsSmoothing := math.Abs(ec-sc)*100 > 30 || hueDistance > 60 || math.Abs(el-sl)*100 > 30

	gradient := make([]string, steps)
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1)
		if needsSmoothing {
			t = smoothStep(smoothStep(t))
		}
		gradient[i] = ToHex(start.BlendHcl(end, t))
	}
	// keep the endpoints exact
	gradient[0] = ToHex(start)
	gradient[steps-1] = ToHex(end)

	return gradient
}

func GenerateMultiGradient(stops []string, steps int) []string {
	if len(stops) < 2 || steps < 2 {
		if len(stops) >= 1 {
			return []string{stops[0]}
		}
		return []string{fallbackHex}
	}

	gradient := make([]string, 0, steps)
	segments := len(stops) - 1
	stepsPerSegment := steps / segments

	for i := 0; i < segments; i++ {
		segSteps := stepsPerSegment
		if i == segments-1 {
			segSteps = steps - len(gradient)
		}
		segGrad := GenerateGradient(stops[i], stops[i+1], segSteps+1)
		if i == 0 {
			gradient = append(gradient, segGrad...)
		} else {
			gradient = append(gradient, segGrad[1:]...)
		}
	}

	return gradient
}

// CalculateGradientSmoothness returns the largest perceptual jump (lab
// distance scaled to 0-100) between neighbouring gradient steps. lower is
// smoother.
func CalculateGradientSmoothness(startHex string, endHex string, steps int) float64 {
	gradient := GenerateGradient(startHex, endHex, steps)
	maxJump := 0.0
	for i := 1; i < len(gradient); i++ {
		d := Parse(gradient[i-1]).DistanceLab(Parse(gradient[i])) * 100
		if d > maxJump {
			maxJump = d
		}
	}
	return maxJump
}

// GetLightness returns the perceived lightness on a 0-100 scale.
func GetLightness(hex string) float64 {
	l, _, _ := Parse(hex).Lab()
	return l * 100
}

// Blend mixes two colors in hcl space; t=0 is a, t=1 is b.
func Blend(a string, b string, t float64) string {
	t = clamp(t, 0, 1)
	if t == 0 {
		return ToHex(Parse(a))
	}
	if t == 1 {
		return ToHex(Parse(b))
	}
	return ToHex(Parse(a).BlendHcl(Parse(b), t))
}

// Fade renders fg at opacity over bg. terminals have no alpha, so an item
// fading out is drawn as its color moving toward the background.
func Fade(fg string, bg string, opacity float64) string {
	opacity = clamp(opacity, 0, 1)
	if opacity == 1 {
		return ToHex(Parse(fg))
	}
	return ToHex(Parse(bg).BlendRgb(Parse(fg), opacity))
}

func AdjustBrightness(hex string, factor float64) string {
	r, g, b := HexToRGB(hex)
	return RGBToHex(int(float64(r)*factor), int(float64(g)*factor), int(float64(b)*factor))
}

func Desaturate(hex string, amount float64) string {
	h, s, l := Parse(hex).Hsl()
	return ToHex(colorful.Hsl(h, s*(1-clamp(amount, 0, 1)), l))
}

func ShiftHue(hex string, shift float64) string {
	h, s, l := Parse(hex).Hsl()
	h = math.Mod(h+shift, 360)
	if h < 0 {
		h += 360
	}
	return ToHex(colorful.Hsl(h, s, l))
}

func RenderGradientText(text string, gradient []string, bold bool) string {
	if len(text) == 0 {
		return ""
	}
	if len(gradient) == 0 {
		return text
	}

	runes := []rune(text)
	var result strings.Builder

	for i, r := range runes {
		colorIdx := 0
		if len(runes) > 1 {
			colorIdx = i * (len(gradient) - 1) / (len(runes) - 1)
		}
		if colorIdx >= len(gradient) {
			colorIdx = len(gradient) - 1
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradient[colorIdx]))
		if bold {
			style = style.Bold(true)
		}
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}

func smoothStep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

func clamp(val float64, min float64, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func clampInt(val int, min int, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
