// Package httputil provides the HTTP transport used to talk to a remote
// Maven repository.
//
// # Overview
//
// The package bundles the pieces every artifact download goes through:
//
//   - [Client]: GET requests with status classification and a User-Agent
//   - [Breakers]: per-host circuit breakers so a dead repository fails fast
//   - [Retry]: opt-in retry with exponential backoff for transient failures
//   - [NewTransport]: an http.Transport whose dialer caches DNS lookups
//
// # Status classification
//
// Responses are mapped to sentinel errors:
//
//   - 200: success, the body is handed to the caller
//   - 404 and 410: [ErrNotFound], never retried and never counted by the breaker
//   - 429 and 5xx: [ErrNetwork] wrapped in [RetryableError]
//   - anything else: [ErrNetwork]
//
// # Retry
//
// Retries are off by default, so a failed download is reported after one
// request. Enable them with [WithRetries]:
//
//	client := httputil.NewClient(httputil.WithRetries(2))
//	defer client.Close()
//
//	resp, err := client.Get(ctx, "https://repo.maven.apache.org/maven2/...")
//	if errors.Is(err, httputil.ErrNotFound) {
//	    // not an error for the walk
//	}
//
// # Circuit breaking
//
// After a number of consecutive transport failures against one host the
// breaker opens and further requests to that host return [ErrBreakerOpen]
// without touching the network. The breaker half-opens again after an
// exponential backoff starting at 30 seconds.
package httputil
