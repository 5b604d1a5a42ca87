// Package searxng is a minimal client for the SearXNG metasearch JSON API,
// scoped to the news category. It returns typed search hits while preserving
// each result's raw JSON payload for durable storage.
package searxng
