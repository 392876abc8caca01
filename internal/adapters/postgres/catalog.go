package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
)

const catalogSelect = `
    SELECT p.id, p.company_id, p.name, COALESCE(p.base_price, 0),
           COALESCE(c.name, ''), COALESCE(co.name, ''),
           COALESCE(p.size, ''), COALESCE(p.description, '')
    FROM products p
    LEFT JOIN categories c ON c.id = p.category_id
    LEFT JOIN companies co ON co.id = p.company_id`

// Browse returns the first limit products by id.
func (db *DB) Browse(ctx context.Context, limit int) ([]domain.CatalogEntry, error) {
	rows, err := db.Pool.Query(ctx, catalogSelect+"\n    ORDER BY p.id\n    LIMIT $1", limit)
	if err != nil {
		return nil, eris.Wrap(err, "browse catalog")
	}
	return scanEntries(rows)
}

// Search returns products where every token matches at least one searchable
// column.
func (db *DB) Search(ctx context.Context, tokens []string, limit int) ([]domain.CatalogEntry, error) {
	query, args := searchQuery(tokens, limit)
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "search catalog (%d tokens)", len(tokens))
	}
	return scanEntries(rows)
}

var searchColumns = []string{
	"p.name",
	"co.name",
	"c.name",
	"COALESCE(p.size, '')",
	"COALESCE(p.description, '')",
}

// searchQuery builds an AND of per-token ORs. Each token is bound once and
// reused across columns.
func searchQuery(tokens []string, limit int) (string, []any) {
	var b strings.Builder
	b.WriteString(catalogSelect)
	args := make([]any, 0, len(tokens)+1)
	for i, tok := range tokens {
		args = append(args, "%"+escapeLike(tok)+"%")
		n := len(args)
		if i == 0 {
			b.WriteString("\n    WHERE ")
		} else {
			b.WriteString("\n      AND ")
		}
		b.WriteByte('(')
		for j, col := range searchColumns {
			if j > 0 {
				b.WriteString(" OR ")
			}
			fmt.Fprintf(&b, "%s ILIKE $%d", col, n)
		}
		b.WriteByte(')')
	}
	args = append(args, limit)
	fmt.Fprintf(&b, "\n    ORDER BY p.id\n    LIMIT $%d", len(args))
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func scanEntries(rows pgx.Rows) ([]domain.CatalogEntry, error) {
	defer rows.Close()
	var out []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.Name, &e.BasePrice, &e.Category, &e.Company, &e.Size, &e.Description); err != nil {
			return nil, eris.Wrap(err, "scan catalog row")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "read catalog rows")
	}
	return out, nil
}
