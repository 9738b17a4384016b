package media

import (
	"fmt"
	"image"
	"math"

	"github.com/EdlinOrg/prominentcolor"

	"karolbroda.com/residences/internal/colors"
)

type Palette struct {
	Primary   string
	Secondary string
	Accent    string
	Dim       string
	Gradient  []string
}

func ExtractPalette(img image.Image) *Palette {
	if img == nil {
		return DefaultPalette()
	}

	extracted, err := prominentcolor.KmeansWithAll(5, img, prominentcolor.ArgumentDefault, prominentcolor.DefaultSize, nil)
	if err != nil || len(extracted) < 2 {
		return DefaultPalette()
	}

	type scored struct {
		hex        string
		sat        float64
		brightness float64
		score      float64
	}

	candidates := make([]scored, 0, len(extracted))
	for _, c := range extracted {
		r := float64(c.Color.R) / 255.0
		g := float64(c.Color.G) / 255.0
		b := float64(c.Color.B) / 255.0

		max := math.Max(math.Max(r, g), b)
		min := math.Min(math.Min(r, g), b)

		var sat float64
		if max > 0 {
			sat = (max - min) / max
		}

		candidates = append(candidates, scored{
			hex:        boostColor(c.Color.R, c.Color.G, c.Color.B, max),
			sat:        sat,
			brightness: max,
			score:      sat * (1.0 - math.Abs(max-0.6)),
		})
	}

	// the most vivid mid-bright color leads, the rest follow by brightness
	best := 0
	for i, c := range candidates {
		if c.score > candidates[best].score {
			best = i
		}
	}
	primary := candidates[best]
	rest := append(candidates[:best:best], candidates[best+1:]...)
	for i := 0; i < len(rest); i++ {
		for j := i + 1; j < len(rest); j++ {
			if rest[i].brightness < rest[j].brightness {
				rest[i], rest[j] = rest[j], rest[i]
			}
		}
	}

	accent := rest[0].hex
	secondary := rest[len(rest)-1].hex

	start, end := selectBestGradientPair(primary.hex, secondary, accent)
	return &Palette{
		Primary:   primary.hex,
		Secondary: secondary,
		Accent:    accent,
		Dim:       colors.Desaturate(colors.AdjustBrightness(primary.hex, 0.6), 0.5),
		Gradient:  colors.GenerateGradient(start, end, 20),
	}
}

// selectBestGradientPair picks the smoothest ordered pair, preferring a
// brighter start when two pairs are nearly as smooth.
func selectBestGradientPair(primary string, secondary string, accent string) (string, string) {
	type pair struct {
		start      string
		end        string
		smoothness float64
	}

	pairs := []pair{
		{start: primary, end: secondary},
		{start: primary, end: accent},
		{start: secondary, end: primary},
		{start: secondary, end: accent},
		{start: accent, end: primary},
		{start: accent, end: secondary},
	}
	for i := range pairs {
		pairs[i].smoothness = colors.CalculateGradientSmoothness(pairs[i].start, pairs[i].end, 20)
	}

	best := 0
	for i := 1; i < len(pairs); i++ {
		if pairs[i].smoothness < pairs[best].smoothness {
			best = i
		}
	}
	for i := range pairs {
		if i == best || pairs[i].smoothness-pairs[best].smoothness >= 5 {
			continue
		}
		if colors.GetLightness(pairs[i].start) > colors.GetLightness(pairs[best].start) {
			best = i
		}
	}

	return pairs[best].start, pairs[best].end
}

func DefaultPalette() *Palette {
	return &Palette{
		Primary:   "#D8B27A",
		Secondary: "#7FC8D9",
		Accent:    "#E8D5B5",
		Dim:       "#6B6259",
		Gradient:  colors.GenerateGradient("#D8B27A", "#7FC8D9", 20),
	}
}

func boostColor(r, g, b uint32, brightness float64) string {
	if brightness < 0.4 && brightness > 0 {
		factor := math.Min(0.4/brightness, 2.5)
		r = uint32(math.Min(255, float64(r)*factor))
		g = uint32(math.Min(255, float64(g)*factor))
		b = uint32(math.Min(255, float64(b)*factor))
	}

	if brightness > 0.85 {
		avg := (r + g + b) / 3
		factor := 0.7
		r = uint32(float64(avg) + (float64(r)-float64(avg))*factor)
		g = uint32(float64(avg) + (float64(g)-float64(avg))*factor)
		b = uint32(float64(avg) + (float64(b)-float64(avg))*factor)
	}

	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}
