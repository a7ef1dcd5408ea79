// Package httputil provides HTTP utilities for remote timeline sources.
//
// # Overview
//
// This package provides infrastructure used by all remote source loaders:
//
//   - [Client]: Cached HTTP fetching for calendar feeds and event files
//   - [Retry]: Automatic retry with exponential backoff
//
// # Fetching
//
// [Client] wraps net/http with response caching and retry logic. Response
// bodies are stored through a [cache.Cache] backend under namespaced keys,
// which speeds up repeated renders and keeps load off calendar servers.
//
// Usage:
//
//	client := httputil.NewClient(fileCache, "ics", time.Hour, nil)
//	data, err := client.FetchBytes(ctx, "https://cal.example.com/team.ics", false)
//
// # Retry
//
// [Retry] wraps operations with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff starting at one second:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetchFeed(ctx)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Request timeout: 30 seconds
//   - Max retries: 3
//   - Base backoff: 1 second
//   - Body size limit: 10 MiB
//
// Cached responses can be cleared via `timelane cache clear` or by deleting
// the cache directory.
package httputil
