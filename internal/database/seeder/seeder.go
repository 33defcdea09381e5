package seeder

import (
	"context"

	"talent-match/internal/database"
)

// Seeder loads fixture rows for local development. Seeders must be safe to
// run repeatedly.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
