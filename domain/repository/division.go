package repository

import (
	"context"

	"github.com/miyamo2/amap-flomo-mcp/domain/model"
)

// Division reads the administrative division table.
type Division interface {
	// GetByCode returns the row with the exact code, or nil if there is none.
	// The name is composed with its ancestors.
	GetByCode(ctx context.Context, code string) (*model.Location, error)
	// Match returns the row a name refers to without expanding it to districts, or nil if
	// no row matches. An exact name wins over a substring match.
	Match(ctx context.Context, name string) (*model.Location, error)
	// Search returns matching rows expanded to districts, with composed full names.
	Search(ctx context.Context, query string) ([]model.Location, error)
}
