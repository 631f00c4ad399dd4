package fetch

import (
	"context"
	"fmt"
)

// Fetcher downloads a single URL, writing output according to the
// tool-specific output template.
type Fetcher interface {
	Fetch(ctx context.Context, url, outputTemplate string) error
}

// Error describes a failed download attempt for one URL.
type Error struct {
	URL    string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("fetch %s failed", e.URL)
	}
	return fmt.Sprintf("fetch %s failed: %s", e.URL, e.Detail)
}
