package httpclient

import (
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Second

// New returns an http.Client with a hard request timeout. Payment providers
// retry failed webhook deliveries on their own schedule, so a stuck upstream
// call must not hold the handler open indefinitely.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
