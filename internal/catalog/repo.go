package catalog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads operator-supplied catalog entries from Postgres.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, action FROM catalog_entries ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Action); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

// Load builds a catalog from the database, falling back to the builtin list
// when the table is empty.
func (r *Repository) Load(ctx context.Context) (*Catalog, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return Builtin(), nil
	}
	return New(entries)
}
