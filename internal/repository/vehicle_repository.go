package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/autorenta/rental-api/internal/model"
)

// VehicleRepo provides catalog queries over the 'productos' table.
type VehicleRepo struct {
	db *sql.DB
}

func NewVehicleRepo(db *sql.DB) *VehicleRepo { return &VehicleRepo{db: db} }

const vehicleCols = "id, categoria_id, nombre, descripcion, precio_dia_cents, imagen_url, created_at"

func scanVehicle(row interface{ Scan(...any) error }) (model.Vehicle, error) {
	var (
		v   model.Vehicle
		img sql.NullString
	)
	err := row.Scan(&v.ID, &v.CategoryID, &v.Name, &v.Description, &v.DailyPriceCents, &img, &v.CreatedAt)
	if err != nil {
		return model.Vehicle{}, err
	}
	if img.Valid {
		v.ImageURL = img.String
	}
	return v, nil
}

// List returns vehicles, optionally restricted to one category, ordered by
// name.
func (r *VehicleRepo) List(ctx context.Context, categoryID *uint64) ([]model.Vehicle, error) {
	query := "SELECT " + vehicleCols + " FROM productos"
	args := []any{}
	if categoryID != nil {
		query += " WHERE categoria_id = ?"
		args = append(args, *categoryID)
	}
	query += " ORDER BY nombre"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetByID returns one vehicle or ErrVehicleNotFound.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (model.Vehicle, error) {
	v, err := scanVehicle(r.db.QueryRowContext(ctx,
		"SELECT "+vehicleCols+" FROM productos WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return model.Vehicle{}, ErrVehicleNotFound
	}
	return v, err
}

// Create inserts a vehicle and returns it with its generated ID.
func (r *VehicleRepo) Create(ctx context.Context, v model.Vehicle) (model.Vehicle, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO productos (categoria_id, nombre, descripcion, precio_dia_cents, imagen_url)
		 VALUES (?, ?, ?, ?, ?)`,
		v.CategoryID, strings.TrimSpace(v.Name), v.Description, v.DailyPriceCents, nullable(v.ImageURL))
	if err != nil {
		return model.Vehicle{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Vehicle{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// Update rewrites a vehicle's mutable fields.  ErrVehicleNotFound is
// returned when the row does not exist.
func (r *VehicleRepo) Update(ctx context.Context, v model.Vehicle) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE productos SET categoria_id=?, nombre=?, descripcion=?, precio_dia_cents=?, imagen_url=?
		 WHERE id=?`,
		v.CategoryID, strings.TrimSpace(v.Name), v.Description, v.DailyPriceCents, nullable(v.ImageURL), v.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// Delete removes a vehicle.  A vehicle with reservations cannot be
// removed; the foreign key violation is surfaced as ErrConflict.
func (r *VehicleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM productos WHERE id = ?", id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1451") {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
