package pipeline

import (
	"context"

	"timelane/pkg/cache"
	"timelane/pkg/httputil"
	"timelane/pkg/source"
	"timelane/pkg/timeline"
)

// FetchSource retrieves the raw bytes behind opts.Source. Local paths are
// read directly; remote URLs go through the HTTP response cache so repeated
// runs don't hammer calendar servers.
func FetchSource(ctx context.Context, c cache.Cache, opts Options) ([]byte, error) {
	client := httputil.NewClient(c, "source", cache.TTLHTTP, nil)
	return source.Fetch(ctx, client, opts.Source, opts.Refresh)
}

// ParseSource parses raw source bytes into a normalized document.
// The format is taken from opts or detected from the source name.
func ParseSource(raw []byte, opts Options) (*timeline.Document, error) {
	format := opts.SourceFormat
	if format == "" {
		format = source.Detect(opts.Source)
	}

	start, end, err := opts.Window()
	if err != nil {
		return nil, err
	}

	return source.Parse(raw, source.Options{
		Format:         format,
		Title:          opts.Title,
		Window:         timeline.Range{Start: start, End: end},
		MaxOccurrences: opts.MaxOccurrences,
	})
}

// Load fetches and parses opts.Source in one step, without consulting the
// document cache. The runner wraps this with content-hash keyed caching.
func Load(ctx context.Context, c cache.Cache, opts Options) (*timeline.Document, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	raw, err := FetchSource(ctx, c, opts)
	if err != nil {
		return nil, err
	}
	return ParseSource(raw, opts)
}
