// Package domain provides the storefront's core types, its error taxonomy and
// request-scoped context helpers.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// visitorContextKey stores the anonymous visitor ID.
	visitorContextKey contextKey = iota

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// --- Visitor Context Helpers ---

// NewContextWithVisitor returns a new context carrying the visitor ID.
// Visitors are anonymous; the ID only scopes per-browser work such as search.
func NewContextWithVisitor(ctx context.Context, visitorID uuid.UUID) context.Context {
	return context.WithValue(ctx, visitorContextKey, visitorID)
}

// VisitorFromContext retrieves the visitor ID from context.
// Returns uuid.Nil if no visitor is present.
func VisitorFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(visitorContextKey).(uuid.UUID)
	return id
}

// HasVisitor returns true if there is a visitor in context.
func HasVisitor(ctx context.Context) bool {
	return VisitorFromContext(ctx) != uuid.Nil
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
