package shopify

import "encoding/json"

// Response is the GraphQL transport envelope.
type Response[T any] struct {
	Data   T              `json:"data"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message    string                 `json:"message"`
	Path       []any                  `json:"path,omitempty"`
	Extensions map[string]any         `json:"extensions,omitempty"`
	Locations  []GraphQLErrorLocation `json:"locations,omitempty"`
}

type GraphQLErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Connection is a Relay-style list. Only edges are requested; page info is
// not needed because every list is read with a fixed "first" bound.
type Connection[T any] struct {
	Edges []Edge[T] `json:"edges"`
}

type Edge[T any] struct {
	Node T `json:"node"`
}

// Nodes flattens edges[].node into a slice.
func (c Connection[T]) Nodes() []T {
	out := make([]T, 0, len(c.Edges))
	for _, e := range c.Edges {
		out = append(out, e.Node)
	}
	return out
}

// payload is the request body sent to the Storefront API.
type payload struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// firstMessage returns the message to surface for a non-empty errors list.
func firstMessage(errs []GraphQLError) string {
	if len(errs) > 0 && errs[0].Message != "" {
		return errs[0].Message
	}
	return "GraphQL Error"
}

// isNull reports whether a raw JSON value is absent or null.
func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
