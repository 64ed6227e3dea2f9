package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/autorenta/rental-api/internal/model"
)

// FavoriteRepo manages the per-user list of favorited vehicles.
type FavoriteRepo struct {
	db *sql.DB
}

func NewFavoriteRepo(db *sql.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// ListByUser returns the user's favorited vehicles, newest first.
func (r *FavoriteRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Vehicle, error) {
	const q = `SELECT p.id, p.categoria_id, p.nombre, p.descripcion, p.precio_dia_cents, p.imagen_url, p.created_at
	           FROM favoritos f
	           JOIN productos p ON p.id = f.producto_id
	           WHERE f.usuario_id = ?
	           ORDER BY f.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
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

// Add favorites a vehicle for a user.  Adding twice is a no-op; a missing
// vehicle surfaces the foreign key violation as ErrVehicleNotFound.
func (r *FavoriteRepo) Add(ctx context.Context, userID, vehicleID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO favoritos (usuario_id, producto_id) VALUES (?, ?)",
		userID, vehicleID)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			return nil
		}
		if strings.Contains(msg, "1452") {
			return ErrVehicleNotFound
		}
		return err
	}
	return nil
}

// Remove unfavorites a vehicle.  Removing a vehicle that was never
// favorited returns sql.ErrNoRows.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, vehicleID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM favoritos WHERE usuario_id = ? AND producto_id = ?",
		userID, vehicleID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
