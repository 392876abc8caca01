package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
)

func (db *DB) SizeBands(ctx context.Context, productID int64) ([]domain.SizeBand, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, product_id, max_width, max_height, price
        FROM price_matrix
        WHERE product_id = $1
        ORDER BY max_width, max_height, price, id
    `, productID)
	if err != nil {
		return nil, eris.Wrapf(err, "query price_matrix for %d", productID)
	}
	defer rows.Close()
	var out []domain.SizeBand
	for rows.Next() {
		var b domain.SizeBand
		if err := rows.Scan(&b.ID, &b.ProductID, &b.MaxWidth, &b.MaxHeight, &b.Price); err != nil {
			return nil, eris.Wrap(err, "scan price_matrix row")
		}
		out = append(out, b)
	}
	return out, eris.Wrap(rows.Err(), "read price_matrix rows")
}

func (db *DB) Variants(ctx context.Context, productID int64) ([]domain.Variant, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT id, product_id, COALESCE(spec_name, ''), COALESCE(type_name, ''), price
        FROM product_variants
        WHERE product_id = $1
        ORDER BY price, id
    `, productID)
	if err != nil {
		return nil, eris.Wrapf(err, "query product_variants for %d", productID)
	}
	defer rows.Close()
	var out []domain.Variant
	for rows.Next() {
		var v domain.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SpecName, &v.TypeName, &v.Price); err != nil {
			return nil, eris.Wrap(err, "scan product_variants row")
		}
		out = append(out, v)
	}
	return out, eris.Wrap(rows.Err(), "read product_variants rows")
}

// Product returns found=false for an unknown id.
func (db *DB) Product(ctx context.Context, productID int64) (domain.CatalogEntry, bool, error) {
	var e domain.CatalogEntry
	err := db.Pool.QueryRow(ctx, catalogSelect+"\n    WHERE p.id = $1", productID).
		Scan(&e.ID, &e.CompanyID, &e.Name, &e.BasePrice, &e.Category, &e.Company, &e.Size, &e.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return e, false, nil
	}
	if err != nil {
		return e, false, eris.Wrapf(err, "product %d", productID)
	}
	return e, true, nil
}
