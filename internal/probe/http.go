package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// defaultStatusMin/Max apply when the spec leaves the range unset.
const (
	defaultStatusMin = 200
	defaultStatusMax = 299
)

// checkHTTP issues a single idempotent GET against spec.URL. The check
// succeeds only if the response status falls within the expected range and
// the full body is received before the context deadline. The body content is
// discarded; only complete receipt matters.
func checkHTTP(ctx context.Context, spec Spec) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spec.URL, http.NoBody)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", spec.URL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", spec.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain the body so "healthy" means the service produced a complete
	// response, not just headers.
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("reading response from %s: %w", spec.URL, err)
	}

	statusMin, statusMax := spec.StatusMin, spec.StatusMax
	if statusMin == 0 && statusMax == 0 {
		statusMin, statusMax = defaultStatusMin, defaultStatusMax
	}
	if resp.StatusCode < statusMin || resp.StatusCode > statusMax {
		return fmt.Errorf("GET %s: status %d outside expected range %d-%d",
			spec.URL, resp.StatusCode, statusMin, statusMax)
	}

	return nil
}
