package fetch

import "fmt"

// TransientError marks one failed fetch attempt: a transport error or a
// non-2xx response. It is recoverable by retrying with a fresh identity.
type TransientError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
