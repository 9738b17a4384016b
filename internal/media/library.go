package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-retryablehttp"
	lru "github.com/hashicorp/golang-lru"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultImageCacheSize = 64
	DefaultArtCacheSize   = 256
	DefaultConcurrency    = 4
	// opacity is rounded to this many levels before rendering art
	opacityLevels = 16
)

type LibraryOptions struct {
	Fs             afero.Fs
	Client         *retryablehttp.Client
	Logger         *slog.Logger
	ImageCacheSize int
	ArtCacheSize   int
	Concurrency    int
}

type entry struct {
	once sync.Once
	done atomic.Bool

	img     image.Image
	err     error
	palette *Palette
}

// Library loads images once and caches their rendered art per size and
// opacity level. all methods are safe for concurrent use.
type Library struct {
	fs          afero.Fs
	client      *retryablehttp.Client
	logger      *slog.Logger
	concurrency int

	images *lru.Cache
	art    *lru.Cache
}

type artKey struct {
	ref    string
	width  int
	height int
	level  int
}

func NewLibrary(opts LibraryOptions) (*Library, error) {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.ImageCacheSize <= 0 {
		opts.ImageCacheSize = DefaultImageCacheSize
	}
	if opts.ArtCacheSize <= 0 {
		opts.ArtCacheSize = DefaultArtCacheSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	images, err := lru.New(opts.ImageCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}
	art, err := lru.New(opts.ArtCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create art cache: %w", err)
	}

	return &Library{
		fs:          opts.Fs,
		client:      opts.Client,
		logger:      opts.Logger,
		concurrency: opts.Concurrency,
		images:      images,
		art:         art,
	}, nil
}

// Load fetches ref unless it is cached. failures are cached as well so a
// broken reference is not refetched on every frame.
func (l *Library) Load(ctx context.Context, ref string) (image.Image, error) {
	e := l.entry(ref)
	e.once.Do(func() {
		defer e.done.Store(true)

		e.img, e.err = Fetch(ctx, l.fs, l.client, ref)
		if e.err != nil {
			l.logger.Warn("media: load failed", "ref", ref, "error", e.err)
			return
		}
		e.palette = ExtractPalette(e.img)
		l.logger.Debug("media: loaded", "ref", ref)
	})
	return e.img, e.err
}

// Preload loads refs with bounded concurrency. every ref is attempted; the
// returned error joins the individual failures.
func (l *Library) Preload(ctx context.Context, refs []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	var (
		mu   sync.Mutex
		errs []error
	)
	for _, ref := range refs {
		g.Go(func() error {
			if _, err := l.Load(ctx, ref); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// Loaded reports whether ref finished loading successfully.
func (l *Library) Loaded(ref string) bool {
	v, ok := l.images.Peek(ref)
	if !ok {
		return false
	}
	e := v.(*entry)
	return e.done.Load() && e.img != nil
}

// Image returns a loaded image without fetching.
func (l *Library) Image(ref string) (image.Image, bool) {
	if !l.Loaded(ref) {
		return nil, false
	}
	v, ok := l.images.Peek(ref)
	if !ok {
		return nil, false
	}
	return v.(*entry).img, true
}

// Palette returns the palette of a loaded image, or the default one.
func (l *Library) Palette(ref string) *Palette {
	v, ok := l.images.Get(ref)
	if !ok {
		return DefaultPalette()
	}
	e := v.(*entry)
	if !e.done.Load() || e.palette == nil {
		return DefaultPalette()
	}
	return e.palette
}

// Art returns the half-block rendering of a loaded image at opacity. it never
// fetches; an image that is not loaded yet renders as nil.
func (l *Library) Art(ref string, width int, height int, opacity float64) []string {
	// a concurrent preload may evict ref at any point
	img, ok := l.Image(ref)
	if !ok {
		return nil
	}

	key := artKey{ref: ref, width: width, height: height, level: opacityLevel(opacity)}
	if v, ok := l.art.Get(key); ok {
		return v.([]string)
	}

	lines := RenderHalfBlockArt(img, width, height, float64(key.level)/opacityLevels)
	l.art.Add(key, lines)
	return lines
}

func (l *Library) Stats() (images int, art int) {
	return l.images.Len(), l.art.Len()
}

// Purge drops every cached image and rendering so changed files are fetched
// again on the next load.
func (l *Library) Purge() {
	l.images.Purge()
	l.art.Purge()
}

func (l *Library) entry(ref string) *entry {
	if v, ok := l.images.Get(ref); ok {
		return v.(*entry)
	}
	e := &entry{}
	// another goroutine may have added the same ref in between
	if prev, ok, _ := l.images.PeekOrAdd(ref, e); ok {
		return prev.(*entry)
	}
	return e
}

func opacityLevel(opacity float64) int {
	if math.IsNaN(opacity) || opacity <= 0 {
		return 0
	}
	if opacity >= 1 {
		return opacityLevels
	}
	return int(math.Round(opacity * opacityLevels))
}
