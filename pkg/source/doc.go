// Package source loads event documents from local files and remote feeds.
//
// A source is anything that can produce a [timeline.Document]: a YAML plan
// checked into a repo, a JSON export, or an iCalendar subscription. The
// package normalizes all of them into the same document model so the rest
// of the pipeline never cares where events came from.
//
// # Formats
//
// [Detect] maps a path or URL to a format by extension; [Parse] dispatches
// on it:
//
//   - yaml: the native document format (.yaml, .yml)
//   - json: the same schema as JSON, including documents produced by
//     [timeline.MarshalDocument]
//   - ics: iCalendar feeds (.ics), including webcal:// subscriptions
//
// Remote references without an extension are assumed to be calendar feeds,
// since subscription URLs rarely carry one.
//
// # Fetching
//
// [Fetch] reads local paths from disk and remote URLs through
// [httputil.Client], which retries transient failures and caches response
// bodies. webcal:// URLs are rewritten to https:// before fetching.
//
// # Recurrence
//
// iCalendar events with an RRULE are expanded into concrete instances
// within the requested window (or a default window around today when none
// is given). EXDATE entries remove instances, RECURRENCE-ID overrides
// replace them, and expansion is capped per event so a runaway rule cannot
// produce an unbounded document. Events without a UID or start date are
// skipped rather than failing the whole feed.
package source
