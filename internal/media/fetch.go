package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/afero"

	"karolbroda.com/residences/internal/colors"
	"karolbroda.com/residences/internal/httpx"
)

const (
	gradientScheme = "gradient:"
	gradientSize   = 48
	maxImageSize   = 16 << 20
)

var ErrEmptyRef = errors.New("empty image reference")

// Fetch resolves ref to an image. refs may be local paths, file:// or
// http(s) urls, or "gradient:#from,#to" for a generated placeholder.
func Fetch(ctx context.Context, fs afero.Fs, client *retryablehttp.Client, ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, ErrEmptyRef
	case strings.HasPrefix(ref, gradientScheme):
		return Gradient(strings.TrimPrefix(ref, gradientScheme))
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		data, err := httpx.Get(ctx, client, ref, maxImageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image: %w", err)
		}
		return decode(bytes.NewReader(data), ref)
	}

	path := strings.TrimPrefix(ref, "file://")
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()
	return decode(f, ref)
}

func decode(r io.Reader, ref string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", ref, err)
	}
	return img, nil
}

// Gradient draws a diagonal two-stop gradient from a "#from,#to" spec.
func Gradient(spec string) (image.Image, error) {
	from, to, ok := strings.Cut(spec, ",")
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if !ok || !colors.Valid(from) || !colors.Valid(to) {
		return nil, fmt.Errorf("invalid gradient %q", spec)
	}

	steps := gradientSize*2 - 1
	ramp := colors.GenerateGradient(from, to, steps)
	img := image.NewRGBA(image.Rect(0, 0, gradientSize, gradientSize))
	for y := 0; y < gradientSize; y++ {
		for x := 0; x < gradientSize; x++ {
			r, g, b := colors.HexToRGB(ramp[x+y])
			img.Set(x, y, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255})
		}
	}
	return img, nil
}
