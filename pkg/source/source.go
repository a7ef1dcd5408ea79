package source

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"timelane/pkg/cache"
	"timelane/pkg/errors"
	"timelane/pkg/httputil"
	"timelane/pkg/timeline"
)

// Source format identifiers, as produced by [Detect] and accepted by
// [Parse].
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatICS  = "ics"
)

// Options configure loading and parsing.
type Options struct {
	// Format selects the parser. When empty, [Load] detects it from the
	// reference; [Parse] has nothing to detect from and rejects it.
	Format string

	// Title overrides the document title from the source.
	Title string

	// Window bounds recurrence expansion for calendar feeds. YAML and JSON
	// documents carry their own range and ignore it. A zero window expands
	// around today, one month back and eleven months ahead.
	Window timeline.Range

	// MaxOccurrences caps expansion per recurring event.
	// 0 means [DefaultMaxOccurrences].
	MaxOccurrences int

	// Refresh makes [Load] bypass the HTTP response cache.
	Refresh bool
}

// Detect returns the source format for a path or URL, or "" when it cannot
// be determined. Remote references without a recognized extension default
// to ics, since calendar subscription URLs rarely carry one.
func Detect(ref string) string {
	ext := strings.ToLower(filepath.Ext(ref))
	if IsRemote(ref) {
		ext = ""
		if u, err := url.Parse(ref); err == nil {
			ext = strings.ToLower(path.Ext(u.Path))
		}
	}

	switch ext {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".ics", ".ical":
		return FormatICS
	}
	if IsRemote(ref) {
		return FormatICS
	}
	return ""
}

// IsRemote reports whether ref is a URL rather than a local path.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "webcal://")
}

// Fetch returns the raw bytes behind ref. Local paths are read from disk;
// remote URLs go through client, falling back to an uncached client when
// nil is given.
func Fetch(ctx context.Context, client *httputil.Client, ref string, refresh bool) ([]byte, error) {
	if IsRemote(ref) {
		if client == nil {
			client = httputil.NewClient(nil, "source", cache.TTLHTTP, nil)
		}
		data, err := client.FetchBytes(ctx, normalizeURL(ref), refresh)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "fetch %s", ref)
		}
		return data, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "source file not found: %s", ref)
		}
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "read %s", ref)
	}
	return data, nil
}

// Parse converts raw source bytes into a normalized, validated document.
// Events without an ID get a generated one.
func Parse(raw []byte, opts Options) (*timeline.Document, error) {
	var (
		doc *timeline.Document
		err error
	)
	switch opts.Format {
	case FormatYAML:
		doc, err = parseYAML(raw)
	case FormatJSON:
		doc, err = parseJSON(raw)
	case FormatICS:
		doc, err = parseICS(raw, opts)
	case "":
		return nil, errors.New(errors.ErrCodeSourceUnsupported,
			"source format could not be detected; pass one of yaml, json, ics")
	default:
		return nil, errors.New(errors.ErrCodeSourceUnsupported,
			"unsupported source format %q", opts.Format)
	}
	if err != nil {
		return nil, err
	}

	if opts.Title != "" {
		doc.Title = opts.Title
	}
	for _, ev := range doc.Events {
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
	}

	doc.Normalize()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Load fetches and parses ref in one call, detecting the format when
// opts.Format is empty. The pipeline runs Fetch and Parse separately so it
// can key its document cache on the fetched bytes; Load is the shortcut for
// everyone else.
func Load(ctx context.Context, client *httputil.Client, ref string, opts Options) (*timeline.Document, error) {
	raw, err := Fetch(ctx, client, ref, opts.Refresh)
	if err != nil {
		return nil, err
	}
	if opts.Format == "" {
		opts.Format = Detect(ref)
	}
	return Parse(raw, opts)
}

// normalizeURL rewrites webcal:// subscription URLs to https://.
func normalizeURL(ref string) string {
	if rest, ok := strings.CutPrefix(ref, "webcal://"); ok {
		return "https://" + rest
	}
	return ref
}
