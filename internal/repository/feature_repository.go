package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/autorenta/rental-api/internal/model"
)

// FeatureRepo manages the 'caracteristicas' table of reusable vehicle
// characteristics and the 'producto_caracteristicas' join that attaches
// them, with an optional per-vehicle value, to concrete vehicles.
type FeatureRepo struct {
	db *sql.DB
}

func NewFeatureRepo(db *sql.DB) *FeatureRepo { return &FeatureRepo{db: db} }

const featureCols = "id, nombre, descripcion, icono_url"

func scanFeature(row interface{ Scan(...any) error }) (model.Feature, error) {
	var (
		f    model.Feature
		icon sql.NullString
	)
	err := row.Scan(&f.ID, &f.Name, &f.Description, &icon)
	if err != nil {
		return model.Feature{}, err
	}
	if icon.Valid {
		f.IconURL = icon.String
	}
	return f, nil
}

// List returns every characteristic, ordered by name.
func (r *FeatureRepo) List(ctx context.Context) ([]model.Feature, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+featureCols+" FROM caracteristicas ORDER BY nombre")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Feature, 0)
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// GetByID returns one characteristic or ErrFeatureNotFound.
func (r *FeatureRepo) GetByID(ctx context.Context, id uint64) (model.Feature, error) {
	f, err := scanFeature(r.db.QueryRowContext(ctx,
		"SELECT "+featureCols+" FROM caracteristicas WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return model.Feature{}, ErrFeatureNotFound
	}
	return f, err
}

// Create inserts a characteristic and returns it with its generated ID.
func (r *FeatureRepo) Create(ctx context.Context, f model.Feature) (model.Feature, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO caracteristicas (nombre, descripcion, icono_url) VALUES (?, ?, ?)",
		strings.TrimSpace(f.Name), f.Description, nullable(f.IconURL))
	if err != nil {
		return model.Feature{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Feature{}, err
	}
	f.ID = uint64(id)
	return f, nil
}

// Update rewrites a characteristic.  ErrFeatureNotFound is returned when
// the row does not exist.
func (r *FeatureRepo) Update(ctx context.Context, f model.Feature) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE caracteristicas SET nombre=?, descripcion=?, icono_url=? WHERE id=?",
		strings.TrimSpace(f.Name), f.Description, nullable(f.IconURL), f.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFeatureNotFound
	}
	return nil
}

// Delete removes a characteristic.  One still attached to vehicles
// surfaces the foreign key violation as ErrConflict.
func (r *FeatureRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM caracteristicas WHERE id = ?", id)
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
		return ErrFeatureNotFound
	}
	return nil
}

// ListByVehicle returns the characteristics attached to a vehicle, each
// carrying its vehicle-specific value when one was set.
func (r *FeatureRepo) ListByVehicle(ctx context.Context, vehicleID uint64) ([]model.VehicleFeature, error) {
	const q = `SELECT c.id, c.nombre, c.descripcion, c.icono_url, pc.valor
	           FROM producto_caracteristicas pc
	           JOIN caracteristicas c ON c.id = pc.caracteristica_id
	           WHERE pc.producto_id = ?
	           ORDER BY c.nombre`
	rows, err := r.db.QueryContext(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.VehicleFeature, 0)
	for rows.Next() {
		var (
			vf    model.VehicleFeature
			icon  sql.NullString
			value sql.NullString
		)
		if err := rows.Scan(&vf.ID, &vf.Name, &vf.Description, &icon, &value); err != nil {
			return nil, err
		}
		if icon.Valid {
			vf.IconURL = icon.String
		}
		if value.Valid {
			vf.Value = value.String
		}
		out = append(out, vf)
	}
	return out, rows.Err()
}

// Assign attaches a characteristic to a vehicle, overwriting the value if
// the pair already exists.  Foreign key violations are mapped to the
// missing side.
func (r *FeatureRepo) Assign(ctx context.Context, vehicleID, featureID uint64, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO producto_caracteristicas (producto_id, caracteristica_id, valor)
		 VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE valor = VALUES(valor)`,
		vehicleID, featureID, nullable(value))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1452") {
			if _, ferr := r.GetByID(ctx, featureID); ferr != nil {
				return ErrFeatureNotFound
			}
			return ErrVehicleNotFound
		}
		return err
	}
	return nil
}

// Unassign detaches a characteristic from a vehicle.  Detaching one that
// was never attached returns sql.ErrNoRows.
func (r *FeatureRepo) Unassign(ctx context.Context, vehicleID, featureID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM producto_caracteristicas WHERE producto_id = ? AND caracteristica_id = ?",
		vehicleID, featureID)
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
