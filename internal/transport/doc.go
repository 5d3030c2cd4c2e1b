// Package transport implements the authenticated request executor used by
// every Genie API call.
//
// Each request fetches a fresh bearer token from the auth provider, is
// throttled by a client-side rate limiter, and is retried with exponential
// backoff and full jitter on retryable failures. Errors are surfaced through
// a small typed taxonomy:
//
//   - *TransportError: the request never produced an HTTP response
//   - *HTTPError: the service answered with a non-2xx status
//
// The default retry classifier retries transport errors, HTTP 429, and
// HTTP 5xx. RetryAll reproduces the blanket retry-everything behavior of
// the upstream client for callers that depend on it.
package transport
