package ports

import (
	"context"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
)

// CatalogRepository reads products joined with their category and company.
type CatalogRepository interface {
	// Browse returns the first limit entries ordered by id.
	Browse(ctx context.Context, limit int) ([]domain.CatalogEntry, error)
	// Search returns entries where every token matches at least one of name,
	// company, category, size or description, case-insensitively.
	Search(ctx context.Context, tokens []string, limit int) ([]domain.CatalogEntry, error)
}

// PriceRepository provides the local price tables.
type PriceRepository interface {
	SizeBands(ctx context.Context, productID int64) ([]domain.SizeBand, error)
	Variants(ctx context.Context, productID int64) ([]domain.Variant, error)
	// Product returns found=false for an unknown id.
	Product(ctx context.Context, productID int64) (entry domain.CatalogEntry, found bool, err error)
}
