package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karolbroda.com/residences/internal/colors"
	"karolbroda.com/residences/internal/httpx"
)

func solidPNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGradient(t *testing.T) {
	img, err := Gradient("#000000,#FFFFFF")
	require.NoError(t, err)
	assert.Equal(t, gradientSize, img.Bounds().Dx())

	assert.Equal(t, "#000000", colors.FromColor(img.At(0, 0)))
	assert.Equal(t, "#FFFFFF", colors.FromColor(img.At(gradientSize-1, gradientSize-1)))

	_, err = Gradient("#000000")
	assert.Error(t, err)
	_, err = Gradient("#000000,blue")
	assert.Error(t, err)
}

func TestFetch_Sources(t *testing.T) {
	data := solidPNG(t, color.RGBA{R: 200, G: 40, B: 40, A: 255})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/img/pool.png", data, 0o644))

	for _, ref := range []string{"/img/pool.png", "file:///img/pool.png", srv.URL + "/pool.png"} {
		img, err := Fetch(t.Context(), fs, httpx.NewClient(nil), ref)
		require.NoError(t, err, ref)
		assert.Equal(t, "#C82828", colors.FromColor(img.At(3, 3)), ref)
	}

	_, err := Fetch(t.Context(), fs, nil, "")
	assert.ErrorIs(t, err, ErrEmptyRef)

	_, err = Fetch(t.Context(), fs, nil, "/img/missing.png")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/img/broken.png", []byte("not an image"), 0o644))
	_, err = Fetch(t.Context(), fs, nil, "/img/broken.png")
	assert.Error(t, err)
}

func TestRenderHalfBlockArt(t *testing.T) {
	img, err := Gradient("#0B3D5C,#7FC8D9")
	require.NoError(t, err)

	lines := RenderHalfBlockArt(img, 12, 4, 1)
	require.Len(t, lines, 4)
	for _, line := range lines {
		assert.Equal(t, 12, strings.Count(line, "▀"))
	}

	blank := RenderHalfBlockArt(img, 12, 4, 0)
	require.Len(t, blank, 4)
	assert.Equal(t, strings.Repeat(" ", 12), blank[0])

	assert.Nil(t, RenderHalfBlockArt(nil, 12, 4, 1))
	assert.Nil(t, RenderHalfBlockArt(img, 2, 4, 1))
}

func TestExtractPalette(t *testing.T) {
	assert.Equal(t, DefaultPalette(), ExtractPalette(nil))

	img, err := Gradient("#C95B3B,#2B2B2B")
	require.NoError(t, err)
	p := ExtractPalette(img)
	require.NotNil(t, p)
	for _, hex := range []string{p.Primary, p.Secondary, p.Accent, p.Dim} {
		assert.True(t, colors.Valid(hex), hex)
	}
	assert.Len(t, p.Gradient, 20)
}

func TestLibrary_PreloadAndArt(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "pool.png", solidPNG(t, color.White), 0o644))

	lib, err := NewLibrary(LibraryOptions{Fs: fs})
	require.NoError(t, err)

	assert.Nil(t, lib.Art("pool.png", 10, 4, 1), "nothing is fetched while rendering")

	refs := []string{"pool.png", "gradient:#000000,#FFFFFF", "missing.png"}
	err = lib.Preload(t.Context(), refs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.png")

	assert.True(t, lib.Loaded("pool.png"))
	assert.True(t, lib.Loaded("gradient:#000000,#FFFFFF"))
	assert.False(t, lib.Loaded("missing.png"))
	assert.Equal(t, DefaultPalette(), lib.Palette("missing.png"))

	art := lib.Art("pool.png", 10, 4, 0.5)
	require.Len(t, art, 4)
	again := lib.Art("pool.png", 10, 4, 0.51)
	assert.Equal(t, art, again)

	images, rendered := lib.Stats()
	assert.Equal(t, 3, images)
	assert.Equal(t, 1, rendered)

	lib.Purge()
	assert.False(t, lib.Loaded("pool.png"))
}

func TestLibrary_ArtAfterEviction(t *testing.T) {
	lib, err := NewLibrary(LibraryOptions{ImageCacheSize: 1})
	require.NoError(t, err)

	_, err = lib.Load(t.Context(), "gradient:#000000,#FFFFFF")
	require.NoError(t, err)
	require.NotNil(t, lib.Art("gradient:#000000,#FFFFFF", 6, 3, 1))

	// loading a second ref evicts the first from the one-slot cache
	_, err = lib.Load(t.Context(), "gradient:#FF0000,#0000FF")
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		assert.Nil(t, lib.Art("gradient:#000000,#FFFFFF", 8, 4, 1))
	})
	assert.NotNil(t, lib.Art("gradient:#FF0000,#0000FF", 8, 4, 1))

	lib.Purge()
	assert.Nil(t, lib.Art("gradient:#FF0000,#0000FF", 8, 4, 1))
}

func TestOpacityLevel(t *testing.T) {
	assert.Equal(t, 0, opacityLevel(-1))
	assert.Equal(t, 0, opacityLevel(0))
	assert.Equal(t, 8, opacityLevel(0.5))
	assert.Equal(t, 8, opacityLevel(0.51))
	assert.Equal(t, opacityLevels, opacityLevel(1.2))
}
