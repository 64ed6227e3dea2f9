package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/autorenta/rental-api/internal/model"
)

// AddonRepo provides CRUD over the 'servicios' table of additional
// services offered with a rental.
type AddonRepo struct {
	db *sql.DB
}

func NewAddonRepo(db *sql.DB) *AddonRepo { return &AddonRepo{db: db} }

const addonCols = "id, nombre, descripcion, precio_dia_cents, activo"

func scanAddon(row interface{ Scan(...any) error }) (model.Addon, error) {
	var a model.Addon
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.DailyPriceCents, &a.Active)
	return a, err
}

// ListActive returns the services currently offered, ordered by name.
func (r *AddonRepo) ListActive(ctx context.Context) ([]model.Addon, error) {
	return r.list(ctx, "SELECT "+addonCols+" FROM servicios WHERE activo = 1 ORDER BY nombre")
}

// ListAll returns every service including retired ones, for the admin
// surface.
func (r *AddonRepo) ListAll(ctx context.Context) ([]model.Addon, error) {
	return r.list(ctx, "SELECT "+addonCols+" FROM servicios ORDER BY nombre")
}

func (r *AddonRepo) list(ctx context.Context, query string) ([]model.Addon, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Addon, 0)
	for rows.Next() {
		a, err := scanAddon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetByIDs resolves the requested service IDs to active services.  Any ID
// that is missing or inactive yields ErrAddonNotFound, so a quote can
// never silently drop a service the client asked for.
func (r *AddonRepo) GetByIDs(ctx context.Context, ids []uint64) ([]model.Addon, error) {
	if len(ids) == 0 {
		return []model.Addon{}, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+addonCols+" FROM servicios WHERE activo = 1 AND id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	found := make(map[uint64]model.Addon, len(ids))
	for rows.Next() {
		a, err := scanAddon(rows)
		if err != nil {
			return nil, err
		}
		found[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]model.Addon, 0, len(ids))
	for _, id := range ids {
		a, ok := found[id]
		if !ok {
			return nil, ErrAddonNotFound
		}
		out = append(out, a)
	}
	return out, nil
}

// Create inserts a service and returns it with its generated ID.
func (r *AddonRepo) Create(ctx context.Context, a model.Addon) (model.Addon, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO servicios (nombre, descripcion, precio_dia_cents, activo) VALUES (?, ?, ?, ?)",
		strings.TrimSpace(a.Name), a.Description, a.DailyPriceCents, a.Active)
	if err != nil {
		return model.Addon{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Addon{}, err
	}
	a.ID = uint64(id)
	return a, nil
}

// Update rewrites a service, including its active flag.  Retiring a
// service does not affect reservations that already include it.
func (r *AddonRepo) Update(ctx context.Context, a model.Addon) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE servicios SET nombre=?, descripcion=?, precio_dia_cents=?, activo=? WHERE id=?",
		strings.TrimSpace(a.Name), a.Description, a.DailyPriceCents, a.Active, a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAddonNotFound
	}
	return nil
}
