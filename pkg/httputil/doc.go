// Package httputil provides HTTP plumbing shared by the registry and
// notebook API clients.
//
//   - [Cache]: file-based response cache with a TTL and key namespaces
//   - [Retry]: exponential backoff for errors wrapped in [RetryableError]
//   - [Transport]: an http.RoundTripper that reports requests to the
//     observability HTTP hooks and stamps the User-Agent
//
// The cache lives under ~/.cache/stacknotes/http by default and can be
// emptied with `stacknotes cache clear`.
package httputil
