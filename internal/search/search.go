// Package search wraps web search backends behind a single Provider contract.
package search

import "context"

// Result is a single item returned by a Provider. Content holds the page
// excerpt the provider extracted for the query.
type Result struct {
	Title   string
	URL     string
	Content string
}

// Provider executes a query and returns results in the provider's own order.
// An empty slice with a nil error means the query matched nothing.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}
