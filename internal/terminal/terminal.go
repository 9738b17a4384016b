package terminal

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/nfnt/resize"
)

type Capabilities struct {
	SupportsKittyGraphics bool
	SupportsRGB           bool
	TermProgram           string
}

func DetectCapabilities() *Capabilities {
	return DetectCapabilitiesFrom(os.Getenv)
}

func DetectCapabilitiesFrom(getenv func(string) string) *Capabilities {
	caps := &Capabilities{
		SupportsRGB: getenv("COLORTERM") != "" || getenv("TERM_PROGRAM") != "",
		TermProgram: getenv("TERM_PROGRAM"),
	}
	if strings.Contains(getenv("TERM"), "256color") || strings.Contains(getenv("TERM"), "kitty") {
		caps.SupportsRGB = true
	}

	// kitty graphics are opt-in only; the gallery falls back to half blocks
	switch strings.ToLower(getenv("RESIDENCES_USE_KITTY_GRAPHICS")) {
	case "1", "true", "yes", "on":
		caps.SupportsKittyGraphics = true
		if caps.TermProgram == "" {
			caps.TermProgram = "kitty"
		}
	}

	return caps
}

// resetSequence undoes the alt screen and mouse modes a crashed program may
// leave behind.
const resetSequence = "\033[?25h\033[0m\033[?1049l\033[?1000l\033[?1002l\033[?1003l\033[?1006l"

func Reset() {
	ResetTo(os.Stdout)
	os.Stdout.Sync()
}

func ResetTo(w io.Writer) {
	io.WriteString(w, resetSequence)
}

// GalleryImageID is reused for every gallery frame so the terminal replaces
// the previous image instead of stacking them.
const GalleryImageID = 7

const (
	cellWidthPx  = 10
	cellHeightPx = 20
	minImagePx   = 10
	kittyChunk   = 4096
)

// fitCells scales a w x h image into cols x rows cells keeping its aspect.
func fitCells(w, h, cols, rows int) (uint, uint) {
	targetW := float64(cols * cellWidthPx)
	targetH := float64(rows * cellHeightPx)

	aspect := float64(w) / float64(h)
	if aspect > targetW/targetH {
		targetH = targetW / aspect
	} else {
		targetW = targetH * aspect
	}

	return uint(max(targetW, minImagePx)), uint(max(targetH, minImagePx))
}

func EncodeImageForKitty(img image.Image, cols int, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return ""
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return ""
	}

	pw, ph := fitCells(bounds.Dx(), bounds.Dy(), cols, rows)
	resized := resize.Resize(pw, ph, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return ""
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	var out strings.Builder
	for i := 0; i < len(encoded); i += kittyChunk {
		end := min(i+kittyChunk, len(encoded))
		more := 0
		if end < len(encoded) {
			more = 1
		}

		if i == 0 {
			fmt.Fprintf(&out, "\x1b_Ga=T,f=100,i=%d,q=2,c=%d,r=%d,m=%d;%s\x1b\\",
				GalleryImageID, cols, rows, more, encoded[i:end])
		} else {
			fmt.Fprintf(&out, "\x1b_Gm=%d;%s\x1b\\", more, encoded[i:end])
		}
	}

	return out.String()
}
