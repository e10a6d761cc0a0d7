package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestVisitorContext(t *testing.T) {
	t.Run("VisitorFromContext returns uuid.Nil when absent", func(t *testing.T) {
		if got := VisitorFromContext(context.Background()); got != uuid.Nil {
			t.Errorf("expected uuid.Nil, got %s", got)
		}
		if HasVisitor(context.Background()) {
			t.Error("expected HasVisitor to be false")
		}
	})

	t.Run("VisitorFromContext returns the stored ID", func(t *testing.T) {
		id := uuid.New()
		ctx := NewContextWithVisitor(context.Background(), id)

		if got := VisitorFromContext(ctx); got != id {
			t.Errorf("expected %s, got %s", id, got)
		}
		if !HasVisitor(ctx) {
			t.Error("expected HasVisitor to be true")
		}
	})
}

func TestRequestIDContext(t *testing.T) {
	t.Run("RequestIDFromContext returns empty string when no request ID", func(t *testing.T) {
		if requestID := RequestIDFromContext(context.Background()); requestID != "" {
			t.Errorf("expected empty string, got %q", requestID)
		}
	})

	t.Run("values coexist", func(t *testing.T) {
		visitor := uuid.New()
		ctx := NewContextWithVisitor(context.Background(), visitor)
		ctx = NewContextWithRequestID(ctx, "req-abc123")

		if got := RequestIDFromContext(ctx); got != "req-abc123" {
			t.Errorf("expected request ID %q, got %q", "req-abc123", got)
		}
		if got := VisitorFromContext(ctx); got != visitor {
			t.Errorf("expected visitor %s, got %s", visitor, got)
		}
	})
}
