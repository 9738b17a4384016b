package media

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"

	"karolbroda.com/residences/internal/colors"
)

// RenderHalfBlockArt draws img as targetHeight rows of upper half blocks,
// two pixels per cell. brightness scales every pixel; 0 yields blank rows.
func RenderHalfBlockArt(img image.Image, targetWidth int, targetHeight int, brightness float64) []string {
	if img == nil || targetWidth < 4 || targetHeight < 2 {
		return nil
	}

	lines := make([]string, targetHeight)
	if brightness <= 0 {
		blank := strings.Repeat(" ", targetWidth)
		for i := range lines {
			lines[i] = blank
		}
		return lines
	}

	resized := resize.Resize(uint(targetWidth), uint(targetHeight*2), img, resize.Lanczos3)
	bounds := resized.Bounds()

	for y := 0; y < targetHeight; y++ {
		var line strings.Builder
		topY := y * 2
		bottomY := topY + 1

		for x := 0; x < bounds.Dx(); x++ {
			top := resized.At(bounds.Min.X+x, bounds.Min.Y+topY)
			bottom := top
			if bottomY < bounds.Dy() {
				bottom = resized.At(bounds.Min.X+x, bounds.Min.Y+bottomY)
			}

			_, _, _, topA := top.RGBA()
			_, _, _, bottomA := bottom.RGBA()
			if topA>>8 < 128 && bottomA>>8 < 128 {
				line.WriteString(" ")
				continue
			}

			topColor := colors.FromColor(top)
			bottomColor := colors.FromColor(bottom)
			if brightness < 1 {
				topColor = colors.AdjustBrightness(topColor, brightness)
				bottomColor = colors.AdjustBrightness(bottomColor, brightness)
			}

			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(topColor)).
				Background(lipgloss.Color(bottomColor))

			line.WriteString(style.Render("▀"))
		}
		lines[y] = line.String()
	}

	return lines
}
