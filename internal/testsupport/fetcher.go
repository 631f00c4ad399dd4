package testsupport

import (
	"context"
	"sync"

	"vigil/internal/fetch"
)

// StubFetcher records fetch calls and fails the URLs listed in FailWith.
type StubFetcher struct {
	mu       sync.Mutex
	calls    []FetchCall
	FailWith map[string]error
	Delay    func(ctx context.Context) error
}

// FetchCall captures a single invocation of Fetch.
type FetchCall struct {
	URL            string
	OutputTemplate string
}

func (s *StubFetcher) Fetch(ctx context.Context, url, outputTemplate string) error {
	s.mu.Lock()
	s.calls = append(s.calls, FetchCall{URL: url, OutputTemplate: outputTemplate})
	s.mu.Unlock()

	if s.Delay != nil {
		if err := s.Delay(ctx); err != nil {
			return err
		}
	}
	if err, ok := s.FailWith[url]; ok {
		return err
	}
	return nil
}

// Calls returns a copy of the recorded invocations.
func (s *StubFetcher) Calls() []FetchCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FetchCall, len(s.calls))
	copy(out, s.calls)
	return out
}

var _ fetch.Fetcher = (*StubFetcher)(nil)
