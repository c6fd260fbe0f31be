// Package models defines typed errors for better error handling and context.
package models

import "fmt"

// InvalidURLError represents a malformed or disallowed URL, caught before any
// rendering session is acquired.
type InvalidURLError struct {
	URL    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("invalid URL %s", e.URL)
}

// NavigationError represents a timeout or transport failure during page load.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation failed for %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ExtractionError represents an unexpected failure while querying the node tree.
type ExtractionError struct {
	Step string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("content extraction failed at %s: %v", e.Step, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// BlockedError represents a scrape refused by site protection (Cloudflare).
type BlockedError struct {
	Domain string
	Err    error
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("blocked by site protection on domain %s: %v", e.Domain, e.Err)
}

func (e *BlockedError) Unwrap() error { return e.Err }

// TimeoutError represents an operation exceeding its deadline.
type TimeoutError struct {
	Operation string
	Timeout   string
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout during %s after %s: %v", e.Operation, e.Timeout, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
