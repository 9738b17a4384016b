package content

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/afero"

	"karolbroda.com/residences/internal/httpx"
)

const (
	DefaultSource   = "builtin:residences"
	maxDocumentSize = 4 << 20
)

//go:embed residences.yaml
var defaultDocument []byte

// Default returns the built-in demo document.
func Default() *Document {
	doc, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("built-in content is invalid: %v", err))
	}
	doc.Source = DefaultSource
	return doc
}

func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

func Fetch(ctx context.Context, client *retryablehttp.Client, url string) (*Document, error) {
	data, err := httpx.Get(ctx, client, url, maxDocumentSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	doc.Source = url
	return doc, nil
}

// Open loads source from wherever it lives and validates it. an empty source
// or DefaultSource selects the built-in document.
func Open(ctx context.Context, fs afero.Fs, client *retryablehttp.Client, source string) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch {
	case source == "" || source == DefaultSource:
		doc = Default()
	case IsRemote(source):
		doc, err = Fetch(ctx, client, source)
	default:
		doc, err = Load(fs, source)
	}
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content %s: %w", doc.Source, err)
	}
	return doc, nil
}

func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
