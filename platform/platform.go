// Package platform holds one adapter per supported site. Each adapter turns a
// link into a formatted title and an ordered list of content blocks.
package platform

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"github.com/onnwee/memerelay/content"
)

// Adapter extracts shareable content for one platform. Failures are
// *content.ExtractionError.
type Adapter interface {
	Kind() content.Kind
	Extract(ctx context.Context, req content.Request) (content.Result, error)
}

// Fetcher is the page-level fetch capability the scraping adapters use.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Document(ctx context.Context, url string) (*goquery.Document, error)
	Resolve(ctx context.Context, url string) (string, error)
}

// Registry maps platforms to their adapters.
type Registry struct {
	adapters map[content.Kind]Adapter
}

// NewRegistry indexes adapters by kind. A later adapter for the same kind
// replaces an earlier one.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[content.Kind]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Kind()] = a
	}
	return r
}

// Get returns the adapter for k.
func (r *Registry) Get(k content.Kind) (Adapter, bool) {
	a, ok := r.adapters[k]
	return a, ok
}

// Extract dispatches req to the adapter for k.
func (r *Registry) Extract(ctx context.Context, k content.Kind, req content.Request) (content.Result, error) {
	a, ok := r.Get(k)
	if !ok {
		return content.Result{}, content.Extractionf(k, nil, "no adapter registered")
	}
	return a.Extract(ctx, req)
}

// Kinds lists registered platforms in priority order.
func (r *Registry) Kinds() []content.Kind {
	var out []content.Kind
	for _, k := range content.Kinds {
		if _, ok := r.adapters[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

func wrap(k content.Kind, err error, stage string) error {
	if err == nil {
		return nil
	}
	return content.Extractionf(k, err, "%s", stage)
}

func appendBlock(blocks []content.Block, b content.Block) []content.Block {
	if b.Empty() {
		return blocks
	}
	return append(blocks, b)
}
