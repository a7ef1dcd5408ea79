// Package pkg provides the core libraries for Timelane timeline rendering.
//
// # Overview
//
// Timelane turns event documents into lane-packed timeline diagrams:
// overlapping events stack into horizontal lanes, dates map onto a zoomable
// pixel axis, and the result renders to SVG or JSON. The pkg directory is
// organized into four main areas:
//
//  1. Domain logic - events, lane packing, and date/pixel mapping
//  2. Sources - loading YAML, ICS, and JSON event documents
//  3. Rendering - SVG and JSON artifact generation
//  4. Pipeline - orchestration with caching (load → layout → render)
//
// # Architecture
//
// The typical data flow through Timelane:
//
//	YAML/ICS/JSON source (file or URL)
//	         ↓
//	    [source] package (fetch + parse + recurrence expansion)
//	         ↓
//	    [timeline] package (document model + lane assignment)
//	         ↓
//	    [timescale] + [lanes] packages (date→pixel axis, lane geometry)
//	         ↓
//	    [render] package (SVG, or layout JSON)
//
// # Quick Start
//
// Load a source and render a timeline:
//
//	import (
//	    "context"
//	    "timelane/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Source:  "team.yaml",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// # Main Packages
//
// ## Domain Logic
//
// [timeline] - The authoritative event model: documents, events with kinds
// and pinned lanes, lane assignment, and render-ready layouts with labeled
// grid ticks.
//
// [lanes] - Interval packing. A greedy sort-then-sweep packs intervals into
// the minimum number of lanes; reserved intervals act as hard obstacles the
// sweep flows around.
//
// [timescale] - Date↔pixel mapping with zoom-dependent grid tiers. The
// pixels-per-day factor selects a calendar unit (month, week, day, hour,
// half-hour) for grid boundaries and snapping.
//
// ## Sources
//
// [source] - Source loading for YAML event documents, ICS calendars (with
// recurrence expansion), and layout JSON. Remote sources fetch over HTTP
// with caching.
//
// ## Rendering
//
// [render] - SVG rendering with light/dark themes, kind-colored bars,
// zoom-tier grid lines, and an optional legend.
//
// ## Infrastructure
//
// [pipeline] - Complete timeline pipeline (load → layout → render) used by
// the CLI and the HTTP server. Ensures consistent behavior across all entry
// points, with per-stage caching.
//
// [cache] - Cache backends: file (CLI), Redis (server deployments), and a
// null cache. Keyers derive stable keys from content hashes.
//
// [httputil] - HTTP client with retry, backoff, and timeout defaults for
// fetching remote calendars.
//
// [errors] - Error codes with structured, user-friendly messages.
//
// [observability] - Pipeline instrumentation hooks.
//
// [buildinfo] - Binary version metadata set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/lanes/...      # Specific package
//	go test -run Example         # Examples only
//
// [timeline]: https://pkg.go.dev/timelane/pkg/timeline
// [lanes]: https://pkg.go.dev/timelane/pkg/lanes
// [timescale]: https://pkg.go.dev/timelane/pkg/timescale
// [source]: https://pkg.go.dev/timelane/pkg/source
// [render]: https://pkg.go.dev/timelane/pkg/render
// [pipeline]: https://pkg.go.dev/timelane/pkg/pipeline
// [cache]: https://pkg.go.dev/timelane/pkg/cache
// [httputil]: https://pkg.go.dev/timelane/pkg/httputil
// [errors]: https://pkg.go.dev/timelane/pkg/errors
// [observability]: https://pkg.go.dev/timelane/pkg/observability
// [buildinfo]: https://pkg.go.dev/timelane/pkg/buildinfo
package pkg
