package intake_test

import (
	"context"
	"testing"

	"vigil/internal/intake"
	"vigil/internal/queue"
	"vigil/internal/testsupport"
)

func TestSubmitValidation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	gateway := intake.NewGateway(store, nil)

	ctx := context.Background()
	tests := []struct {
		name     string
		raw      string
		accepted bool
		reason   intake.Reason
	}{
		{"https url", "https://example.com/watch?v=abc", true, ""},
		{"http url", "http://example.com/clip", true, ""},
		{"leading whitespace", "  https://example.com/trim\n", true, ""},
		{"empty", "", false, intake.ReasonInvalidScheme},
		{"whitespace only", "   ", false, intake.ReasonInvalidScheme},
		{"no scheme", "example.com/video", false, intake.ReasonInvalidScheme},
		{"ftp scheme", "ftp://example.com/file", false, intake.ReasonInvalidScheme},
		{"javascript scheme", "javascript:alert(1)", false, intake.ReasonInvalidScheme},
		{"missing host", "https://", false, intake.ReasonInvalidScheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := gateway.Submit(ctx, tt.raw)
			if result.Accepted != tt.accepted {
				t.Fatalf("accepted=%v, want %v", result.Accepted, tt.accepted)
			}
			if result.Reason != tt.reason {
				t.Fatalf("reason=%q, want %q", result.Reason, tt.reason)
			}
		})
	}
}

func TestSubmitIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	gateway := intake.NewGateway(store, nil)

	ctx := context.Background()
	first := gateway.Submit(ctx, "https://example.com/dup")
	if !first.Accepted {
		t.Fatalf("first submission rejected: %#v", first)
	}
	second := gateway.Submit(ctx, "https://example.com/dup")
	if !second.Accepted {
		t.Fatalf("repeat submission rejected: %#v", second)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected a single queued item, got %d", len(items))
	}
	if items[0].Status != queue.StatusPending {
		t.Fatalf("expected pending item, got %s", items[0].Status)
	}
}

func TestSubmitTrimsBeforeStoring(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	gateway := intake.NewGateway(store, nil)

	ctx := context.Background()
	result := gateway.Submit(ctx, "  https://example.com/spaced  ")
	if !result.Accepted {
		t.Fatalf("submission rejected: %#v", result)
	}
	if result.URL != "https://example.com/spaced" {
		t.Fatalf("expected trimmed URL in result, got %q", result.URL)
	}

	item, err := store.GetByURL(ctx, "https://example.com/spaced")
	if err != nil {
		t.Fatalf("GetByURL failed: %v", err)
	}
	if item == nil {
		t.Fatal("expected trimmed URL to be stored")
	}
}

func TestSubmitStorageError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	gateway := intake.NewGateway(store, nil)

	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	result := gateway.Submit(context.Background(), "https://example.com/late")
	if result.Accepted {
		t.Fatal("expected rejection after store closed")
	}
	if result.Reason != intake.ReasonStorageError {
		t.Fatalf("expected storage_error reason, got %q", result.Reason)
	}
}
