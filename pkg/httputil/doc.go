// Package httputil provides the HTTP client used to download map data.
//
// [Client] classifies responses: 404 becomes [ErrNotFound], 429 becomes
// [ErrRateLimited] and 5xx or transport failures become [ErrNetwork]. The
// transient ones are wrapped in [RetryableError] so that [Retry] attempts
// them again with exponential backoff:
//
//	c := httputil.NewClient(map[string]string{"User-Agent": buildinfo.UserAgent()})
//	body, err := c.Get(ctx, "https://overpass-api.de/api/map?bbox=...")
package httputil
