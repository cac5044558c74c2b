// Package interpret turns a free-text query into structured QueryParameters.
// The default backend is an ordered rule engine; an LLM-backed backend
// implements the same interface for deployments that want more flexible
// phrasing.
package interpret

import (
	"context"

	"github.com/intecdocs/docfinder/internal/models"
)

// Interpreter produces query parameters from a natural-language query.
type Interpreter interface {
	Interpret(ctx context.Context, query string) (*models.QueryParameters, error)
}
